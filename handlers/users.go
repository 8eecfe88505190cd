package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	query := config.DB.Order("name ASC")
	if role := r.URL.Query().Get("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(user)
}

type updateUserReq struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleCoordinator, models.RoleUser:
			user.Role = *req.Role
		default:
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&user).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "user", user.ID, req)
	json.NewEncoder(w).Encode(user)
}

type assignAmbulanceReq struct {
	AmbulanceID *uuid.UUID `json:"ambulanceId"` // null unassigns
}

// AssignAmbulance links a user to the ambulance they operate; the
// ambulance side is kept in sync so incident responsibility resolution
// finds them.
func AssignAmbulance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var req assignAmbulanceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.AmbulanceID == nil {
		if user.AssignedAmbulanceID != nil {
			config.DB.Model(&models.Ambulance{}).
				Where("id = ? AND assigned_user_id = ?", user.AssignedAmbulanceID, user.ID).
				Update("assigned_user_id", nil)
		}
		user.AssignedAmbulanceID = nil
	} else {
		var ambulance models.Ambulance
		if err := config.DB.First(&ambulance, "id = ?", req.AmbulanceID).Error; err != nil {
			http.Error(w, "ambulance not found", http.StatusNotFound)
			return
		}
		user.AssignedAmbulanceID = &ambulance.ID
		config.DB.Model(&ambulance).Update("assigned_user_id", user.ID)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "user_assignment", user.ID, req)
	json.NewEncoder(w).Encode(user)
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	// Deactivate rather than remove: audit rows and incident
	// responsibilities keep pointing at a real user.
	user.IsActive = false
	if err := config.DB.Save(&user).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "delete", "user", user.ID, nil)
	w.WriteHeader(http.StatusNoContent)
}
