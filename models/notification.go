package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification
type NotificationType string

const (
	NotificationTypeIncidentOpened  NotificationType = "incident_opened"
	NotificationTypeExpiryWarning   NotificationType = "expiry_warning"
	NotificationTypeLowStock        NotificationType = "low_stock"
	NotificationTypeWorkflowPending NotificationType = "workflow_pending"
	NotificationTypeSystemAlert     NotificationType = "system_alert"
)

// NotificationChannel defines how notification is delivered
type NotificationChannel string

const (
	NotificationChannelInApp   NotificationChannel = "in_app"
	NotificationChannelEmail   NotificationChannel = "email"
	NotificationChannelWebPush NotificationChannel = "web_push"
)

// NotificationStatus defines the status of a notification
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusRead    NotificationStatus = "read"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// NotificationPriority defines the priority level
type NotificationPriority string

const (
	NotificationPriorityLow      NotificationPriority = "low"
	NotificationPriorityNormal   NotificationPriority = "normal"
	NotificationPriorityHigh     NotificationPriority = "high"
	NotificationPriorityCritical NotificationPriority = "critical"
)

// Notification is one message delivered to one user over one channel.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type     NotificationType     `gorm:"size:50;not null;index" json:"type"`
	Priority NotificationPriority `gorm:"size:20;default:'normal'" json:"priority"`
	Title    string               `gorm:"size:300;not null" json:"title"`
	Body     string               `gorm:"type:text;not null" json:"body"`

	// Context: what triggered this notification
	IncidentID  *uuid.UUID `gorm:"type:uuid;index" json:"incidentId,omitempty"`
	AmbulanceID *uuid.UUID `gorm:"type:uuid;index" json:"ambulanceId,omitempty"`
	ItemID      *uuid.UUID `gorm:"type:uuid;index" json:"itemId,omitempty"`

	Status       NotificationStatus  `gorm:"size:20;default:'pending';index" json:"status"`
	Channel      NotificationChannel `gorm:"size:20;default:'in_app'" json:"channel"`
	SentAt       *time.Time          `json:"sentAt,omitempty"`
	ReadAt       *time.Time          `json:"readAt,omitempty"`
	FailedReason string              `gorm:"type:text" json:"failedReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarkAsRead marks the notification as read
func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.ReadAt = &now
	n.Status = NotificationStatusRead
}

// MarkAsSent marks the notification as sent
func (n *Notification) MarkAsSent() {
	now := time.Now()
	n.SentAt = &now
	n.Status = NotificationStatusSent
}

// MarkAsFailed marks the notification as failed
func (n *Notification) MarkAsFailed(reason string) {
	n.Status = NotificationStatusFailed
	n.FailedReason = reason
}

// NotificationPreference stores per-user channel toggles.
type NotificationPreference struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`

	EnableInApp   bool `gorm:"default:true" json:"enableInApp"`
	EnableEmail   bool `gorm:"default:true" json:"enableEmail"`
	EnableWebPush bool `gorm:"default:false" json:"enableWebPush"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChannelEnabled reports whether the user accepts delivery on a channel.
func (p *NotificationPreference) ChannelEnabled(ch NotificationChannel) bool {
	switch ch {
	case NotificationChannelInApp:
		return p.EnableInApp
	case NotificationChannelEmail:
		return p.EnableEmail
	case NotificationChannelWebPush:
		return p.EnableWebPush
	}
	return false
}
