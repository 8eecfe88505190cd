package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

// Submitting a review record also completes the matching workflow stage on
// the owning ambulance, inside the same transaction.

func SubmitDailyCheck(w http.ResponseWriter, r *http.Request) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var check models.DailyVehicleCheck
	if err := json.NewDecoder(r.Body).Decode(&check); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if check.Kilometers < 0 {
		http.Error(w, "kilometers cannot be negative", http.StatusBadRequest)
		return
	}

	user := middleware.GetUser(r)
	now := time.Now()
	check.AmbulanceID = ambulance.ID
	check.CheckerID = user.ID
	check.CheckerName = user.Name
	if check.SubmittedAt.IsZero() {
		check.SubmittedAt = models.JSONTime(now)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&check).Error; err != nil {
			return err
		}
		if check.Kilometers > ambulance.LastKnownKilometers {
			ambulance.LastKnownKilometers = check.Kilometers
		}
		if err := ambulance.ApplyStage(models.StageDailyCheck, true, now); err != nil {
			return err
		}
		return tx.Save(&ambulance).Error
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(check)
}

func GetDailyChecks(w http.ResponseWriter, r *http.Request) {
	listAmbulanceChildren(w, r, &[]models.DailyVehicleCheck{})
}

func SubmitMechanicalReview(w http.ResponseWriter, r *http.Request) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var review models.MechanicalReview
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	for _, entry := range review.Entries() {
		switch entry.Status {
		case models.ChecklistOK, models.ChecklistRepair, models.ChecklistNotApplicable:
		default:
			http.Error(w, "invalid checklist status: "+string(entry.Status), http.StatusBadRequest)
			return
		}
	}

	user := middleware.GetUser(r)
	now := time.Now()
	review.AmbulanceID = ambulance.ID
	review.ReviewerID = user.ID
	review.ReviewerName = user.Name
	if review.SubmittedAt.IsZero() {
		review.SubmittedAt = models.JSONTime(now)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		if review.Kilometers > ambulance.LastKnownKilometers {
			ambulance.LastKnownKilometers = review.Kilometers
		}
		if err := ambulance.ApplyStage(models.StageMechanical, true, now); err != nil {
			return err
		}
		return tx.Save(&ambulance).Error
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// A review that flags repairs opens an incident for the coordinator.
	if review.HasRepairs() {
		openRepairIncident(&ambulance, &review)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

func GetMechanicalReviews(w http.ResponseWriter, r *http.Request) {
	listAmbulanceChildren(w, r, &[]models.MechanicalReview{})
}

func SubmitCleaningLog(w http.ResponseWriter, r *http.Request) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var logEntry models.CleaningLog
	if err := json.NewDecoder(r.Body).Decode(&logEntry); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if logEntry.CleaningType == "" {
		http.Error(w, "cleaningType is required", http.StatusBadRequest)
		return
	}

	user := middleware.GetUser(r)
	now := time.Now()
	logEntry.AmbulanceID = ambulance.ID
	logEntry.CleanerID = user.ID
	logEntry.CleanerName = user.Name
	if logEntry.SubmittedAt.IsZero() {
		logEntry.SubmittedAt = models.JSONTime(now)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&logEntry).Error; err != nil {
			return err
		}
		if err := ambulance.ApplyStage(models.StageCleaning, true, now); err != nil {
			return err
		}
		return tx.Save(&ambulance).Error
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(logEntry)
}

func GetCleaningLogs(w http.ResponseWriter, r *http.Request) {
	listAmbulanceChildren(w, r, &[]models.CleaningLog{})
}

// listAmbulanceChildren lists any ambulance-owned history collection,
// newest first.
func listAmbulanceChildren(w http.ResponseWriter, r *http.Request, dest interface{}) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	if err := config.DB.Where("ambulance_id = ?", ambulance.ID).
		Order("created_at DESC").Find(dest).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dest)
}

// openRepairIncident creates an OTHER-type incident when a mechanical
// review reports items needing repair. Best-effort: failures are logged by
// the notification service, never surfaced to the submitter.
func openRepairIncident(ambulance *models.Ambulance, review *models.MechanicalReview) {
	incident := models.Incident{
		Type:        models.IncidentTypeOther,
		Severity:    models.SeverityMedium,
		Status:      models.IncidentOpen,
		Title:       "Reparaciones pendientes en " + ambulance.Code,
		Description: "La revisión mecánica ha marcado elementos para reparar",
		AmbulanceID: &ambulance.ID,
	}
	if ambulance.AssignedUserID != nil {
		incident.ResponsibleID = ambulance.AssignedUserID
	}
	due := time.Now().Add(3 * 24 * time.Hour)
	incident.DueDate = &due

	if err := config.DB.Create(&incident).Error; err != nil {
		return
	}

	ns := NewNotificationService()
	recipients := []uuid.UUID{}
	if ambulance.AssignedUserID != nil {
		recipients = append(recipients, *ambulance.AssignedUserID)
	}
	ns.NotifyIncident(&incident, recipients)
}
