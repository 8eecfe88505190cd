package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is an immutable record of a create/update/delete on a tracked
// entity. Append-only; nothing in the app depends on reading it back
// except the admin display.
type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ActorID   uuid.UUID `gorm:"type:uuid;index" json:"actorId"`
	ActorName string    `gorm:"size:100" json:"actorName,omitempty"`

	Action   string         `gorm:"size:20;not null" json:"action"` // create, update, delete
	Entity   string         `gorm:"size:50;not null;index" json:"entity"`
	EntityID string         `gorm:"size:64;index" json:"entityId"`
	Payload  datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}
