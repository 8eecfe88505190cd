package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/ambufleet/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250110_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Ambulance{},
					&models.InventoryItem{}, &models.ItemQuantityChange{},
					&models.MechanicalReview{}, &models.CleaningLog{},
					&models.DailyVehicleCheck{}, &models.ChecklistTemplate{})
			},
		},
		{
			ID: "20250110_create_ampulario_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Space{}, &models.AmpularioMaterial{}, &models.USVBKit{})
			},
		},
		{
			ID: "20250117_create_incident_notification_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Incident{}, &models.Notification{},
					&models.NotificationPreference{})
			},
		},
		{
			ID: "20250124_create_audit_config_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.AuditLog{}, &models.AppConfig{})
			},
		},
		{
			ID: "20250203_partial_unique_active_incident",
			Migrate: func(tx *gorm.DB) error {
				// Backstop for the job runner's dedup check: only one
				// OPEN/IN_PROGRESS incident per (item, type).
				return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_incidents_active_item_type
					ON incidents (item_id, type)
					WHERE status IN ('OPEN', 'IN_PROGRESS') AND item_id IS NOT NULL`).Error
			},
		},
	})

	return m.Migrate()
}
