package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChecklistStatus is the per-item outcome of a mechanical review checklist.
type ChecklistStatus string

const (
	ChecklistOK            ChecklistStatus = "OK"
	ChecklistRepair        ChecklistStatus = "Repair"
	ChecklistNotApplicable ChecklistStatus = "N/A"
)

// ChecklistEntry is one row of a review checklist, stored as JSONB on the
// owning record.
type ChecklistEntry struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Status   ChecklistStatus `json:"status"`
	Notes    string          `json:"notes,omitempty"`
}

// MechanicalReview is a point-in-time mechanical inspection of one
// ambulance. Only the latest record gates the workflow; history is kept
// for audit.
type MechanicalReview struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AmbulanceID uuid.UUID `gorm:"type:uuid;index;not null" json:"ambulanceId"`
	Ambulance   Ambulance `gorm:"foreignKey:AmbulanceID;constraint:OnDelete:CASCADE" json:"-"`

	Checklist  datatypes.JSON `gorm:"type:jsonb;not null" json:"checklist"` // []ChecklistEntry
	Kilometers int            `json:"kilometers,omitempty"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`

	ReviewerID   uuid.UUID `gorm:"type:uuid" json:"reviewerId"`
	ReviewerName string    `gorm:"size:100" json:"reviewerName,omitempty"`
	SubmittedAt  JSONTime  `gorm:"not null" json:"submittedAt"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Entries decodes the JSONB checklist. Invalid payloads yield an empty slice.
func (mr *MechanicalReview) Entries() []ChecklistEntry {
	var entries []ChecklistEntry
	_ = json.Unmarshal(mr.Checklist, &entries)
	return entries
}

// HasRepairs reports whether any checklist entry requires repair.
func (mr *MechanicalReview) HasRepairs() bool {
	for _, e := range mr.Entries() {
		if e.Status == ChecklistRepair {
			return true
		}
	}
	return false
}

// CleaningLog records one cleaning session of an ambulance.
type CleaningLog struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AmbulanceID uuid.UUID `gorm:"type:uuid;index;not null" json:"ambulanceId"`
	Ambulance   Ambulance `gorm:"foreignKey:AmbulanceID;constraint:OnDelete:CASCADE" json:"-"`

	CleaningType string         `gorm:"size:30;not null" json:"cleaningType"` // daily, deep, disinfection
	Areas        datatypes.JSON `gorm:"type:jsonb" json:"areas,omitempty"`    // cabin, cell, equipment...
	Products     string         `gorm:"size:200" json:"products,omitempty"`
	Photos       pq.StringArray `gorm:"type:text[]" json:"photos,omitempty"`
	Notes        string         `gorm:"type:text" json:"notes,omitempty"`

	CleanerID   uuid.UUID `gorm:"type:uuid" json:"cleanerId"`
	CleanerName string    `gorm:"size:100" json:"cleanerName,omitempty"`
	SubmittedAt JSONTime  `gorm:"not null" json:"submittedAt"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// DailyVehicleCheck is the structured morning check-in: fuel, tyres,
// documents, kilometers.
type DailyVehicleCheck struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AmbulanceID uuid.UUID `gorm:"type:uuid;index;not null" json:"ambulanceId"`
	Ambulance   Ambulance `gorm:"foreignKey:AmbulanceID;constraint:OnDelete:CASCADE" json:"-"`

	Kilometers       int    `json:"kilometers"`
	FuelLevel        string `gorm:"size:10" json:"fuelLevel"` // full, 3/4, 1/2, 1/4, empty
	TyreStatus       string `gorm:"size:30" json:"tyreStatus,omitempty"`
	LightsOK         bool   `json:"lightsOk"`
	SirenOK          bool   `json:"sirenOk"`
	DocumentsPresent bool   `json:"documentsPresent"`
	Issues           string `gorm:"type:text" json:"issues,omitempty"`

	CheckerID   uuid.UUID `gorm:"type:uuid" json:"checkerId"`
	CheckerName string    `gorm:"size:100" json:"checkerName,omitempty"`
	SubmittedAt JSONTime  `gorm:"not null" json:"submittedAt"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ChecklistTemplate is a named, editable list of checklist item
// definitions (the mechanical-review template, kit templates...). Managed
// through the configuration store; seeded once at startup.
type ChecklistTemplate struct {
	ID       uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code     string         `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name     string         `gorm:"size:150;not null" json:"name"`
	Items    datatypes.JSON `gorm:"type:jsonb;not null" json:"items"` // []ChecklistEntry with empty Status
	IsActive bool           `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
