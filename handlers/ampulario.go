package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

// Central medication store ("ampulario"): spaces plus the materials held
// in them, with the same derived-status rules as ambulance inventory.

func GetAllSpaces(w http.ResponseWriter, r *http.Request) {
	var spaces []models.Space
	if err := config.DB.Order("name ASC").Find(&spaces).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spaces)
}

func CreateSpace(w http.ResponseWriter, r *http.Request) {
	var space models.Space
	if err := json.NewDecoder(r.Body).Decode(&space); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if space.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := config.DB.Create(&space).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este espacio ya existe", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(space)
}

func DeleteSpace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var space models.Space
	if err := config.DB.First(&space, "id = ?", id).Error; err != nil {
		http.Error(w, "space not found", http.StatusNotFound)
		return
	}

	var count int64
	config.DB.Model(&models.AmpularioMaterial{}).Where("space_id = ?", space.ID).Count(&count)
	if count > 0 {
		http.Error(w, "el espacio todavía contiene materiales", http.StatusConflict)
		return
	}

	if err := config.DB.Delete(&space).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAmpularioMaterials lists central-store materials, optionally by space
// or status.
func GetAmpularioMaterials(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Order("name ASC")
	if spaceID := r.URL.Query().Get("spaceId"); spaceID != "" {
		query = query.Where("space_id = ?", spaceID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var materials []models.AmpularioMaterial
	if err := query.Find(&materials).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(materials)
}

func CreateAmpularioMaterial(w http.ResponseWriter, r *http.Request) {
	var material models.AmpularioMaterial
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if material.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if material.Quantity < 0 || material.MinStock < 0 {
		http.Error(w, "quantity cannot be negative", http.StatusBadRequest)
		return
	}

	var space models.Space
	if err := config.DB.First(&space, "id = ?", material.SpaceID).Error; err != nil {
		http.Error(w, "space not found", http.StatusNotFound)
		return
	}

	material.Recompute(time.Now())

	if err := config.DB.Create(&material).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este material ya existe en el espacio", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	RecordAudit(r, "create", "ampulario_material", material.ID, material)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(material)
}

func UpdateAmpularioMaterial(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var material models.AmpularioMaterial
	if err := config.DB.First(&material, "id = ?", id).Error; err != nil {
		http.Error(w, "material not found", http.StatusNotFound)
		return
	}

	spaceID := material.SpaceID
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if material.Quantity < 0 || material.MinStock < 0 {
		http.Error(w, "quantity cannot be negative", http.StatusBadRequest)
		return
	}
	material.SpaceID = spaceID
	material.Recompute(time.Now())

	if err := config.DB.Save(&material).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "ampulario_material", material.ID, material)
	json.NewEncoder(w).Encode(material)
}

func DeleteAmpularioMaterial(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var material models.AmpularioMaterial
	if err := config.DB.First(&material, "id = ?", id).Error; err != nil {
		http.Error(w, "material not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Delete(&material).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "delete", "ampulario_material", material.ID, nil)
	w.WriteHeader(http.StatusNoContent)
}
