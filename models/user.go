package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles understood by the middleware. Coordinators manage the fleet,
// regular users run the daily review cycle on their assigned ambulance.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinador"
	RoleUser        = "usuario"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:15" json:"phone,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'usuario'" json:"role"`

	// Ambulance currently assigned to this user, if any.
	AssignedAmbulanceID *uuid.UUID `gorm:"type:uuid;index" json:"assignedAmbulanceId,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
