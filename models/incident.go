package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// IncidentType classifies what condition opened the incident.
type IncidentType string

const (
	IncidentTypeExpired IncidentType = "EXPIRED"
	IncidentTypeMissing IncidentType = "MISSING"
	IncidentTypeOther   IncidentType = "OTHER"
)

// IncidentSeverity mirrors the four urgency levels used across the app.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "LOW"
	SeverityMedium   IncidentSeverity = "MEDIUM"
	SeverityHigh     IncidentSeverity = "HIGH"
	SeverityCritical IncidentSeverity = "CRITICAL"
)

// IncidentStatus is the incident lifecycle. Incidents are never deleted,
// only transitioned.
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "OPEN"
	IncidentInProgress IncidentStatus = "IN_PROGRESS"
	IncidentResolved   IncidentStatus = "RESOLVED"
	IncidentClosed     IncidentStatus = "CLOSED"
)

// Incident is the durable, actionable record the job runner opens when an
// expiry/stock condition persists. At most one non-closed incident exists
// per (inventory item, type); the job runner enforces the deduplication.
type Incident struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Type        IncidentType     `gorm:"size:20;not null;index" json:"type"`
	Severity    IncidentSeverity `gorm:"size:10;not null" json:"severity"`
	Status      IncidentStatus   `gorm:"size:15;not null;default:'OPEN';index" json:"status"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description,omitempty"`

	AmbulanceID *uuid.UUID `gorm:"type:uuid;index" json:"ambulanceId,omitempty"`
	ItemID      *uuid.UUID `gorm:"type:uuid;index" json:"itemId,omitempty"`

	ResponsibleID *uuid.UUID `gorm:"type:uuid" json:"responsibleId,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`

	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// incidentTransitions maps each status to the statuses it may move to.
var incidentTransitions = map[IncidentStatus][]IncidentStatus{
	IncidentOpen:       {IncidentInProgress, IncidentResolved, IncidentClosed},
	IncidentInProgress: {IncidentResolved, IncidentClosed},
	IncidentResolved:   {IncidentClosed},
	IncidentClosed:     {},
}

// CanTransition reports whether moving from the incident's current status
// to the target is legal.
func (i *Incident) CanTransition(to IncidentStatus) bool {
	for _, s := range incidentTransitions[i.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the incident still needs attention. Active
// incidents suppress duplicate creation for the same item and type.
func (i *Incident) IsActive() bool {
	return i.Status == IncidentOpen || i.Status == IncidentInProgress
}
