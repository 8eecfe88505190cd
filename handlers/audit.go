package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

// RecordAudit appends an immutable audit row. Failures are logged and
// never propagate: auditing must not break the mutation it describes.
func RecordAudit(r *http.Request, action, entity string, entityID uuid.UUID, payload interface{}) {
	user := middleware.GetUser(r)

	var raw []byte
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}

	entry := models.AuditLog{
		ActorID:   user.ID,
		ActorName: user.Name,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID.String(),
		Payload:   raw,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Printf("⚠️  Failed to record audit entry (%s %s): %v", action, entity, err)
	}
}

// GetAuditLog lists audit entries, newest first, with optional entity
// filter and a capped page size.
func GetAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	query := config.DB.Order("created_at DESC").Limit(limit)
	if entity := r.URL.Query().Get("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}
	if entityID := r.URL.Query().Get("entityId"); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	var entries []models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
