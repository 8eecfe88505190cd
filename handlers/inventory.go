package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

// GetAmbulanceInventory lists the items stocked in one ambulance.
func GetAmbulanceInventory(w http.ResponseWriter, r *http.Request) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var items []models.InventoryItem
	query := config.DB.Where("ambulance_id = ?", ambulance.ID).Order("name ASC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// CreateInventoryItem stocks a new material into an ambulance.
func CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var item models.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if item.Quantity < 0 || item.MinStock < 0 {
		http.Error(w, "quantity cannot be negative", http.StatusBadRequest)
		return
	}

	item.AmbulanceID = ambulance.ID
	item.Recompute(time.Now())

	if err := config.DB.Create(&item).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este material ya existe en la ambulancia", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	RecordAudit(r, "create", "inventory_item", item.ID, item)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// UpdateInventoryItem edits an item; status is always re-derived, and any
// quantity change lands in the append-only movement log.
func UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var item models.InventoryItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		http.Error(w, "inventory item not found", http.StatusNotFound)
		return
	}

	previousQty := item.Quantity
	ownerID := item.AmbulanceID

	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Quantity < 0 || item.MinStock < 0 {
		http.Error(w, "quantity cannot be negative", http.StatusBadRequest)
		return
	}
	item.AmbulanceID = ownerID
	item.Recompute(time.Now())

	user := middleware.GetUser(r)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if diff := item.Quantity - previousQty; diff != 0 {
			return tx.Create(&models.ItemQuantityChange{
				ItemID:    item.ID,
				Diff:      diff,
				Reason:    "edit",
				ActorID:   user.ID,
				ActorName: user.Name,
			}).Error
		}
		return nil
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "update", "inventory_item", item.ID, item)
	json.NewEncoder(w).Encode(item)
}

type adjustQuantityReq struct {
	Diff   int    `json:"diff"`
	Reason string `json:"reason"`
}

// AdjustItemQuantity applies a consumption/replenishment delta and logs it.
func AdjustItemQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var req adjustQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Diff == 0 {
		http.Error(w, "diff cannot be zero", http.StatusBadRequest)
		return
	}

	var item models.InventoryItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		http.Error(w, "inventory item not found", http.StatusNotFound)
		return
	}

	if item.Quantity+req.Diff < 0 {
		http.Error(w, "la cantidad resultante no puede ser negativa", http.StatusBadRequest)
		return
	}

	item.Quantity += req.Diff
	item.Recompute(time.Now())

	user := middleware.GetUser(r)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return tx.Create(&models.ItemQuantityChange{
			ItemID:    item.ID,
			Diff:      req.Diff,
			Reason:    req.Reason,
			ActorID:   user.ID,
			ActorName: user.Name,
		}).Error
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(item)
}

// GetItemQuantityHistory lists an item's stock movements, newest first.
func GetItemQuantityHistory(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var item models.InventoryItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		http.Error(w, "inventory item not found", http.StatusNotFound)
		return
	}

	var changes []models.ItemQuantityChange
	if err := config.DB.Where("item_id = ?", item.ID).
		Order("created_at DESC").Find(&changes).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(changes)
}

func DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var item models.InventoryItem
	if err := config.DB.First(&item, "id = ?", itemID).Error; err != nil {
		http.Error(w, "inventory item not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Delete(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RecordAudit(r, "delete", "inventory_item", item.ID, nil)
	w.WriteHeader(http.StatusNoContent)
}
