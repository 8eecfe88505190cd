package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Space is a named storage area of the central medication store
// ("ampulario"): a cabinet, fridge or shelf.
type Space struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Refrigerated bool     `gorm:"default:false" json:"refrigerated"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AmpularioMaterial is a medication/material held in the central store,
// with the same derived-status semantics as ambulance inventory.
type AmpularioMaterial struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SpaceID uuid.UUID `gorm:"type:uuid;index:idx_ampulario_space_name,unique;not null" json:"spaceId"`
	Space   Space     `gorm:"foreignKey:SpaceID;constraint:OnDelete:CASCADE" json:"-"`

	Name     string     `gorm:"size:150;index:idx_ampulario_space_name,unique;not null" json:"name"`
	Dose     string     `gorm:"size:50" json:"dose,omitempty"`
	Route    string     `gorm:"size:50" json:"route,omitempty"` // IV, IM, oral...
	Quantity int        `gorm:"not null;default:0" json:"quantity"`
	MinStock int        `gorm:"not null;default:0" json:"minStock"`
	Expiry   *JSONTime  `json:"expiryDate,omitempty"`
	Status   ItemStatus `gorm:"size:10;not null;default:'OK';index" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ExpiryTime unwraps the optional expiry date, nil when unset.
func (m *AmpularioMaterial) ExpiryTime() *time.Time {
	if m.Expiry == nil || m.Expiry.IsZero() {
		return nil
	}
	t := m.Expiry.Time()
	return &t
}

// Recompute refreshes the cached status column from current field values.
func (m *AmpularioMaterial) Recompute(today time.Time) {
	m.Status = DeriveItemStatus(m.Quantity, m.MinStock, m.ExpiryTime(), today)
}
