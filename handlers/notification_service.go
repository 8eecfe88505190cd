package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

// NotificationService fans an event out to each recipient's enabled
// channels. Actual email/push delivery is an external sink; here a
// notification row is created per recipient+channel and marked sent.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{
		db: config.DB,
	}
}

// priorityForIncident maps incident severity onto notification priority.
func priorityForIncident(s models.IncidentSeverity) models.NotificationPriority {
	switch s {
	case models.SeverityCritical:
		return models.NotificationPriorityCritical
	case models.SeverityHigh:
		return models.NotificationPriorityHigh
	case models.SeverityMedium:
		return models.NotificationPriorityNormal
	default:
		return models.NotificationPriorityLow
	}
}

// NotifyIncident notifies the recipients about a newly opened incident.
// When no recipients are given it falls back to every coordinator. A
// failure for one recipient is logged and the rest still get notified.
func (ns *NotificationService) NotifyIncident(incident *models.Incident, recipients []uuid.UUID) error {
	if len(recipients) == 0 {
		var coordinators []models.User
		if err := ns.db.Where("role = ? AND is_active = ?", models.RoleCoordinator, true).
			Find(&coordinators).Error; err != nil {
			return fmt.Errorf("failed to resolve coordinators: %w", err)
		}
		for _, c := range coordinators {
			recipients = append(recipients, c.ID)
		}
	}
	if len(recipients) == 0 {
		log.Printf("⚠️  No recipients for incident %s", incident.ID)
		return nil
	}

	for _, userID := range recipients {
		ns.deliver(userID, models.Notification{
			Type:        models.NotificationTypeIncidentOpened,
			Priority:    priorityForIncident(incident.Severity),
			Title:       incident.Title,
			Body:        incident.Description,
			IncidentID:  &incident.ID,
			AmbulanceID: incident.AmbulanceID,
			ItemID:      incident.ItemID,
		})
	}
	return nil
}

// NotifyExpiryWarning sends the hourly reminder for a near-expiry item.
func (ns *NotificationService) NotifyExpiryWarning(item *models.InventoryItem, days int, userID uuid.UUID) error {
	body := fmt.Sprintf("%s caduca en %d días", item.Name, days)
	if days <= 0 {
		body = fmt.Sprintf("%s caduca hoy", item.Name)
	}
	ns.deliver(userID, models.Notification{
		Type:        models.NotificationTypeExpiryWarning,
		Priority:    models.NotificationPriorityHigh,
		Title:       "Aviso de caducidad",
		Body:        body,
		AmbulanceID: &item.AmbulanceID,
		ItemID:      &item.ID,
	})
	return nil
}

// deliver creates one notification row per enabled channel and hands it to
// the (logged) delivery sink.
func (ns *NotificationService) deliver(userID uuid.UUID, template models.Notification) {
	prefs := ns.preferencesFor(userID)

	channels := []models.NotificationChannel{
		models.NotificationChannelInApp,
		models.NotificationChannelEmail,
		models.NotificationChannelWebPush,
	}

	for _, channel := range channels {
		if !prefs.ChannelEnabled(channel) {
			continue
		}

		notification := template
		notification.ID = uuid.Nil
		notification.UserID = userID
		notification.Channel = channel
		notification.Status = models.NotificationStatusPending

		if err := ns.db.Create(&notification).Error; err != nil {
			log.Printf("❌ Failed to create notification for user %s: %v", userID, err)
			continue
		}

		// In production the delivery worker picks pending rows up; in-app
		// rows are visible immediately, so mark sent here.
		log.Printf("📨 %s notification for user %s: %s", channel, userID, notification.Title)
		notification.MarkAsSent()
		ns.db.Save(&notification)
	}
}

// preferencesFor loads the user's channel toggles, defaulting to in-app +
// email when none are stored.
func (ns *NotificationService) preferencesFor(userID uuid.UUID) models.NotificationPreference {
	var prefs models.NotificationPreference
	err := ns.db.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️  Failed to load preferences for user %s: %v", userID, err)
		}
		return models.NotificationPreference{
			UserID:      userID,
			EnableInApp: true,
			EnableEmail: true,
		}
	}
	return prefs
}
