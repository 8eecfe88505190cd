package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppConfig is one named configuration blob (review item templates,
// configurable locations, kit defaults). Rows are read through the
// handlers.ConfigStore cache, never directly.
type AppConfig struct {
	Key       string         `gorm:"size:100;primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	UpdatedBy string         `gorm:"size:100" json:"updatedBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
