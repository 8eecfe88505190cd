package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

// GetAlerts derives the merged, sorted alert list for the dashboard:
// workflow + ambulance inventory alerts, ampulario alerts, and active
// incidents, in one total order (severity, then recency).
func GetAlerts(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	var ambulances []models.Ambulance
	if err := config.DB.Find(&ambulances).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var items []models.InventoryItem
	if err := config.DB.Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var materials []models.AmpularioMaterial
	if err := config.DB.Find(&materials).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var incidents []models.Incident
	if err := config.DB.Where("status IN ?", []models.IncidentStatus{
		models.IncidentOpen, models.IncidentInProgress,
	}).Find(&incidents).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	alerts := DeriveAlerts(ambulances, items, now)
	alerts = append(alerts, DeriveAmpularioAlerts(materials, now)...)
	alerts = append(alerts, AlertsFromIncidents(incidents)...)

	if severity := r.URL.Query().Get("severity"); severity != "" {
		filtered := alerts[:0]
		for _, a := range alerts {
			if a.Severity == models.AlertSeverity(severity) {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}

	models.SortAlerts(alerts)

	if alerts == nil {
		alerts = []models.Alert{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alerts)
}
