package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

// GetNotifications lists the current user's in-app notifications, newest
// first. `?unread=true` narrows to unread ones.
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	query := config.DB.Where("user_id = ? AND channel = ?", userID, models.NotificationChannelInApp).
		Order("created_at DESC").Limit(100)
	if r.URL.Query().Get("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// GetUnreadCount returns the badge counter.
func GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var count int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND channel = ? AND read_at IS NULL", userID, models.NotificationChannelInApp).
		Count(&count).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]int64{"unread": count})
}

// MarkNotificationAsRead marks one of the user's notifications read.
func MarkNotificationAsRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	var notification models.Notification
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		http.Error(w, "notification not found", http.StatusNotFound)
		return
	}

	notification.MarkAsRead()
	if err := config.DB.Save(&notification).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(notification)
}

// MarkAllNotificationsAsRead marks every unread notification read.
func MarkAllNotificationsAsRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Updates(map[string]interface{}{
			"read_at": &now,
			"status":  models.NotificationStatusRead,
		})
	if res.Error != nil {
		http.Error(w, res.Error.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]int64{"updated": res.RowsAffected})
}

// GetNotificationPreferences returns the user's channel toggles.
func GetNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	ns := NewNotificationService()
	prefs := ns.preferencesFor(user.ID)
	json.NewEncoder(w).Encode(prefs)
}

// UpdateNotificationPreferences upserts the user's channel toggles.
func UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req models.NotificationPreference
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var prefs models.NotificationPreference
	err := config.DB.Where("user_id = ?", user.ID).First(&prefs).Error
	if err != nil {
		prefs = models.NotificationPreference{UserID: user.ID}
	}
	prefs.EnableInApp = req.EnableInApp
	prefs.EnableEmail = req.EnableEmail
	prefs.EnableWebPush = req.EnableWebPush

	if err := config.DB.Save(&prefs).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(prefs)
}
