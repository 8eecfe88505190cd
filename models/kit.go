package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KitCategory is the finite set of equipment-bag categories.
type KitCategory string

const (
	KitCategoryAirway      KitCategory = "airway"
	KitCategoryCirculation KitCategory = "circulation"
	KitCategoryTrauma      KitCategory = "trauma"
	KitCategoryPediatric   KitCategory = "pediatric"
	KitCategoryMedication  KitCategory = "medication"
	KitCategoryGeneral     KitCategory = "general"
)

// KitItem is one target line of a kit template: the material and the
// quantity a fully stocked kit carries.
type KitItem struct {
	Name           string `json:"name"`
	TargetQuantity int    `json:"targetQuantity"`
}

// USVBKit is a predefined equipment-bag template used to audit an
// ambulance's current stock against its ideal composition.
type USVBKit struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KitNumber string         `gorm:"size:30;uniqueIndex;not null" json:"kitNumber"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Category  KitCategory    `gorm:"size:30;not null;default:'general'" json:"category"`
	Items     datatypes.JSON `gorm:"type:jsonb;not null" json:"items"` // []KitItem

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TargetItems decodes the JSONB item list. Invalid payloads yield nil.
func (k *USVBKit) TargetItems() []KitItem {
	var items []KitItem
	_ = json.Unmarshal(k.Items, &items)
	return items
}

// KitShortage is one audit finding: a material below its kit target.
type KitShortage struct {
	Name           string `json:"name"`
	TargetQuantity int    `json:"targetQuantity"`
	ActualQuantity int    `json:"actualQuantity"`
	Missing        int    `json:"missing"`
}

// AuditKit compares current stock quantities (by material name) against a
// kit's targets and returns the shortages, template order preserved.
func AuditKit(kit *USVBKit, stock map[string]int) []KitShortage {
	var shortages []KitShortage
	for _, item := range kit.TargetItems() {
		actual := stock[item.Name]
		if actual < item.TargetQuantity {
			shortages = append(shortages, KitShortage{
				Name:           item.Name,
				TargetQuantity: item.TargetQuantity,
				ActualQuantity: actual,
				Missing:        item.TargetQuantity - actual,
			})
		}
	}
	return shortages
}
