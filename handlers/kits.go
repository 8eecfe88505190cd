package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

func GetAllKits(w http.ResponseWriter, r *http.Request) {
	var kits []models.USVBKit
	query := config.DB.Order("kit_number ASC")
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&kits).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(kits)
}

func CreateKit(w http.ResponseWriter, r *http.Request) {
	var kit models.USVBKit
	if err := json.NewDecoder(r.Body).Decode(&kit); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if kit.KitNumber == "" || kit.Name == "" {
		http.Error(w, "kitNumber and name are required", http.StatusBadRequest)
		return
	}
	switch kit.Category {
	case models.KitCategoryAirway, models.KitCategoryCirculation, models.KitCategoryTrauma,
		models.KitCategoryPediatric, models.KitCategoryMedication, models.KitCategoryGeneral:
	case "":
		kit.Category = models.KitCategoryGeneral
	default:
		http.Error(w, "invalid kit category", http.StatusBadRequest)
		return
	}

	if err := config.DB.Create(&kit).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este número de kit ya existe", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(kit)
}

func UpdateKit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var kit models.USVBKit
	if err := config.DB.First(&kit, "id = ?", id).Error; err != nil {
		http.Error(w, "kit not found", http.StatusNotFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&kit); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := config.DB.Save(&kit).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este número de kit ya existe", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(kit)
}

func DeleteKit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var kit models.USVBKit
	if err := config.DB.First(&kit, "id = ?", id).Error; err != nil {
		http.Error(w, "kit not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Delete(&kit).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuditKitAgainstAmbulance compares an ambulance's current stock against a
// kit template and reports the shortages.
func AuditKitAgainstAmbulance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var kit models.USVBKit
	if err := config.DB.First(&kit, "id = ?", vars["id"]).Error; err != nil {
		http.Error(w, "kit not found", http.StatusNotFound)
		return
	}

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", vars["ambulanceId"]).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var items []models.InventoryItem
	if err := config.DB.Where("ambulance_id = ?", ambulance.ID).Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stock := make(map[string]int, len(items))
	for i := range items {
		stock[items[i].Name] += items[i].Quantity
	}

	shortages := models.AuditKit(&kit, stock)
	if shortages == nil {
		shortages = []models.KitShortage{}
	}

	response := map[string]interface{}{
		"kitId":       kit.ID,
		"kitNumber":   kit.KitNumber,
		"ambulanceId": ambulance.ID,
		"complete":    len(shortages) == 0,
		"shortages":   shortages,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
