package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

func GetAllIncidents(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if ambulanceID := r.URL.Query().Get("ambulanceId"); ambulanceID != "" {
		query = query.Where("ambulance_id = ?", ambulanceID)
	}

	var incidents []models.Incident
	if err := query.Find(&incidents).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(incidents)
}

// CreateIncident registers a manually reported incident (the scheduled
// job opens the automatic ones).
func CreateIncident(w http.ResponseWriter, r *http.Request) {
	var incident models.Incident
	if err := json.NewDecoder(r.Body).Decode(&incident); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if incident.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	switch incident.Type {
	case models.IncidentTypeExpired, models.IncidentTypeMissing, models.IncidentTypeOther:
	case "":
		incident.Type = models.IncidentTypeOther
	default:
		http.Error(w, "invalid incident type", http.StatusBadRequest)
		return
	}
	switch incident.Severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
	case "":
		incident.Severity = models.SeverityMedium
	default:
		http.Error(w, "invalid severity", http.StatusBadRequest)
		return
	}
	incident.Status = models.IncidentOpen

	if incident.AmbulanceID != nil {
		var ambulance models.Ambulance
		if err := config.DB.First(&ambulance, "id = ?", incident.AmbulanceID).Error; err != nil {
			http.Error(w, "ambulance not found", http.StatusNotFound)
			return
		}
	}

	if err := config.DB.Create(&incident).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "create", "incident", incident.ID, incident)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(incident)
}

func GetIncident(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var incident models.Incident
	if err := config.DB.First(&incident, "id = ?", id).Error; err != nil {
		http.Error(w, "incident not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(incident)
}

// UpdateIncident edits descriptive fields. Status only changes through
// the transition endpoint; incidents are never deleted.
func UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var incident models.Incident
	if err := config.DB.First(&incident, "id = ?", id).Error; err != nil {
		http.Error(w, "incident not found", http.StatusNotFound)
		return
	}

	status := incident.Status
	if err := json.NewDecoder(r.Body).Decode(&incident); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	incident.Status = status

	if err := config.DB.Save(&incident).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "incident", incident.ID, incident)
	json.NewEncoder(w).Encode(incident)
}

type incidentStatusReq struct {
	Status models.IncidentStatus `json:"status"`
}

// TransitionIncidentStatus moves an incident along its lifecycle:
// OPEN → IN_PROGRESS → RESOLVED/CLOSED.
func TransitionIncidentStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req incidentStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var incident models.Incident
	if err := config.DB.First(&incident, "id = ?", id).Error; err != nil {
		http.Error(w, "incident not found", http.StatusNotFound)
		return
	}

	if !incident.CanTransition(req.Status) {
		http.Error(w, "transición de estado no permitida", http.StatusBadRequest)
		return
	}

	incident.Status = req.Status
	if req.Status == models.IncidentResolved || req.Status == models.IncidentClosed {
		now := time.Now()
		incident.ResolvedAt = &now
	}

	if err := config.DB.Save(&incident).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "incident_status", incident.ID, req)
	json.NewEncoder(w).Encode(incident)
}
