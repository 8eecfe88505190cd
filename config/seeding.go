package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/ambufleet/models"
)

// RunAllSeeding runs all seeding operations in the correct order. Every
// step skips rows that already exist, so this is safe to run on every
// startup.
func RunAllSeeding() error {
	log.Println("=== Starting Database Seeding ===")

	log.Println("[1/4] Seeding Admin User...")
	SeedAdminUser()

	log.Println("[2/4] Seeding Checklist Templates...")
	SeedChecklistTemplates()

	log.Println("[3/4] Seeding Ampulario Spaces...")
	SeedSpaces()

	log.Println("[4/4] Seeding Config Defaults...")
	SeedConfigDefaults()

	log.Println("=== Database Seeding Complete ===")
	return nil
}

// SeedAdminUser creates the initial admin account if no admin exists.
func SeedAdminUser() {
	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		log.Println("  ✓ Admin user already exists, skipping")
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("  ❌ Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrador",
		Email:        "admin@ambufleet.local",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("  ❌ Failed to create admin user: %v", err)
		return
	}
	log.Println("  ✅ Admin user created")
}

// defaultMechanicalItems is the stock mechanical-review checklist shipped
// with a fresh install. Coordinators edit it through the config store.
var defaultMechanicalItems = []models.ChecklistEntry{
	{Name: "Nivel de aceite", Category: "motor"},
	{Name: "Nivel de refrigerante", Category: "motor"},
	{Name: "Líquido de frenos", Category: "frenos"},
	{Name: "Pastillas de freno", Category: "frenos"},
	{Name: "Presión de neumáticos", Category: "neumaticos"},
	{Name: "Dibujo de neumáticos", Category: "neumaticos"},
	{Name: "Luces de emergencia", Category: "electrico"},
	{Name: "Sirena", Category: "electrico"},
	{Name: "Batería", Category: "electrico"},
	{Name: "Camilla y anclajes", Category: "celula"},
	{Name: "Oxígeno fijo", Category: "celula"},
}

// SeedChecklistTemplates inserts the default mechanical-review template.
func SeedChecklistTemplates() {
	var existing models.ChecklistTemplate
	err := DB.Where("code = ?", "mechanical_default").First(&existing).Error
	if err == nil {
		log.Println("  ✓ Mechanical checklist template already exists, skipping")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("  ❌ Failed to check checklist template: %v", err)
		return
	}

	items, _ := json.Marshal(defaultMechanicalItems)
	tpl := models.ChecklistTemplate{
		Code:     "mechanical_default",
		Name:     "Revisión mecánica estándar",
		Items:    items,
		IsActive: true,
	}
	if err := DB.Create(&tpl).Error; err != nil {
		log.Printf("  ❌ Failed to create checklist template: %v", err)
		return
	}
	log.Printf("  ✅ Mechanical checklist template created (%d items)", len(defaultMechanicalItems))
}

// SeedSpaces creates the default ampulario storage spaces.
func SeedSpaces() {
	spaces := []models.Space{
		{Name: "Armario principal", Description: "Medicación general"},
		{Name: "Nevera", Description: "Medicación refrigerada", Refrigerated: true},
		{Name: "Estupefacientes", Description: "Armario de seguridad"},
	}

	created := 0
	for _, space := range spaces {
		var existing models.Space
		err := DB.Where("name = ?", space.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("  ❌ Failed to check space %s: %v", space.Name, err)
			continue
		}
		if err := DB.Create(&space).Error; err != nil {
			log.Printf("  ❌ Failed to create space %s: %v", space.Name, err)
			continue
		}
		created++
	}
	log.Printf("  ✅ Spaces seeded (%d created)", created)
}

// SeedConfigDefaults inserts initial configuration-store rows.
func SeedConfigDefaults() {
	defaults := map[string]interface{}{
		"locations":      []string{"Base central", "Hospital", "Parque norte"},
		"cleaning_types": []string{"daily", "deep", "disinfection"},
	}

	for key, value := range defaults {
		var existing models.AppConfig
		err := DB.Where("key = ?", key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("  ❌ Failed to check config %s: %v", key, err)
			continue
		}
		raw, _ := json.Marshal(value)
		if err := DB.Create(&models.AppConfig{Key: key, Value: raw, UpdatedBy: "seed"}).Error; err != nil {
			log.Printf("  ❌ Failed to create config %s: %v", key, err)
		}
	}
	log.Println("  ✅ Config defaults seeded")
}
