package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

func GetAllAmbulances(w http.ResponseWriter, r *http.Request) {
	var ambulances []models.Ambulance
	query := config.DB.Preload("AssignedUser").Order("code ASC")
	if t := r.URL.Query().Get("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if err := query.Find(&ambulances).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ambulances)
}

func CreateAmbulance(w http.ResponseWriter, r *http.Request) {
	var item models.Ambulance
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Code == "" || item.Plate == "" {
		http.Error(w, "code and plate are required", http.StatusBadRequest)
		return
	}

	if err := config.DB.Create(&item).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este código ya existe", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	RecordAudit(r, "create", "ambulance", item.ID, item)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func GetAmbulance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Ambulance
	if err := config.DB.Preload("AssignedUser").First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(item)
}

func UpdateAmbulance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Ambulance
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	// Workflow flags only change through the workflow endpoint.
	flags := [4]bool{item.DailyCheckCompleted, item.MechanicalReviewCompleted,
		item.CleaningCompleted, item.InventoryCompleted}

	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	item.DailyCheckCompleted = flags[0]
	item.MechanicalReviewCompleted = flags[1]
	item.CleaningCompleted = flags[2]
	item.InventoryCompleted = flags[3]

	if err := config.DB.Save(&item).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este código ya existe", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	RecordAudit(r, "update", "ambulance", item.ID, item)
	json.NewEncoder(w).Encode(item)
}

// DeleteAmbulance soft-deletes the vehicle and its owned children
// (reviews, logs, checks, inventory).
func DeleteAmbulance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Ambulance
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.InventoryItem{}, &models.MechanicalReview{},
			&models.CleaningLog{}, &models.DailyVehicleCheck{},
		} {
			if err := tx.Where("ambulance_id = ?", item.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "delete", "ambulance", item.ID, nil)
	w.WriteHeader(http.StatusNoContent)
}

type workflowReq struct {
	Stage  models.WorkflowStage `json:"stage"`
	Status bool                 `json:"status"`
}

// UpdateWorkflowStage is the single write path for the review-cycle flags.
func UpdateWorkflowStage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req workflowReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var item models.Ambulance
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	if err := item.ApplyStage(req.Stage, req.Status, time.Now()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := config.DB.Save(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "ambulance_workflow", item.ID, req)
	json.NewEncoder(w).Encode(item)
}

// GetWorkflowState reports the flags plus the screen the UI should route
// to next.
func GetWorkflowState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Ambulance
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"ambulanceId":               item.ID,
		"dailyCheckCompleted":       item.DailyCheckCompleted,
		"mechanicalReviewCompleted": item.MechanicalReviewCompleted,
		"cleaningCompleted":         item.CleaningCompleted,
		"inventoryCompleted":        item.InventoryCompleted,
		"unlockedScreen":            item.NextPendingStage(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
