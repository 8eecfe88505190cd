package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

// JobRunner executes the periodic inventory passes: a daily pass that
// refreshes item statuses and opens incidents, and an hourly pass that
// re-sends near-expiry warnings. Both are also reachable through the
// admin trigger endpoints.
//
// A manual trigger can overlap a scheduled tick; every step is idempotent
// (status recompute converges, incident creation is deduplicated), so the
// race is accepted instead of serialized.
type JobRunner struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewJobRunner creates a job runner over the shared database handle.
func NewJobRunner() *JobRunner {
	return &JobRunner{
		db:       config.DB,
		notifier: NewNotificationService(),
	}
}

// PassSummary reports what one pass did, for logs and the admin endpoint.
type PassSummary struct {
	StatusUpdates    int `json:"statusUpdates"`
	IncidentsCreated int `json:"incidentsCreated"`
	Notifications    int `json:"notifications"`
}

// StartScheduler runs the daily and hourly passes on their tickers. Each
// pass is wrapped so a failure is logged and the next tick retries.
func (jr *JobRunner) StartScheduler() {
	log.Println("📅 Starting inventory job scheduler...")

	daily := time.NewTicker(24 * time.Hour)
	hourly := time.NewTicker(1 * time.Hour)
	defer daily.Stop()
	defer hourly.Stop()

	for {
		select {
		case <-daily.C:
			if _, err := jr.RunDailyPass(time.Now()); err != nil {
				log.Printf("❌ Daily pass failed: %v", err)
			}
		case <-hourly.C:
			if _, err := jr.RunHourlyPass(time.Now()); err != nil {
				log.Printf("❌ Hourly pass failed: %v", err)
			}
		}
	}
}

// RunDailyPass executes the ordered daily scan: status refresh first so
// the incident planning that follows observes up-to-date flags, then
// incident creation with (item, type) deduplication, then a full
// consistency recompute, then best-effort notifications.
func (jr *JobRunner) RunDailyPass(now time.Time) (*PassSummary, error) {
	log.Println("🔄 Running daily inventory pass...")
	summary := &PassSummary{}

	// Steps 1-2: flip stale EXPIRED / LOW statuses.
	res := jr.db.Model(&models.InventoryItem{}).
		Where("expiry <= ? AND status <> ?", now, models.ItemStatusExpired).
		Update("status", models.ItemStatusExpired)
	if res.Error != nil {
		return summary, fmt.Errorf("expired status scan: %w", res.Error)
	}
	summary.StatusUpdates += int(res.RowsAffected)

	res = jr.db.Model(&models.InventoryItem{}).
		Where("quantity <= min_stock AND min_stock > 0 AND status = ?", models.ItemStatusOK).
		Update("status", models.ItemStatusLow)
	if res.Error != nil {
		return summary, fmt.Errorf("low stock status scan: %w", res.Error)
	}
	summary.StatusUpdates += int(res.RowsAffected)

	// Steps 3-4: plan and create incidents.
	var items []models.InventoryItem
	if err := jr.db.Find(&items).Error; err != nil {
		return summary, fmt.Errorf("item scan: %w", err)
	}

	var active []models.Incident
	if err := jr.db.Where("status IN ? AND item_id IS NOT NULL", []models.IncidentStatus{
		models.IncidentOpen, models.IncidentInProgress,
	}).Find(&active).Error; err != nil {
		return summary, fmt.Errorf("active incident scan: %w", err)
	}

	assignees := jr.loadAssignees(items)

	planned := planExpiryIncidents(items, active, assignees, now)
	planned = append(planned, planStockIncidents(items, active, assignees, now)...)

	var created []models.Incident
	for _, incident := range planned {
		if err := jr.db.Create(&incident).Error; err != nil {
			log.Printf("⚠️  Failed to create incident %q: %v", incident.Title, err)
			continue
		}
		created = append(created, incident)
		summary.IncidentsCreated++
	}

	// Step 5: authoritative recompute from scratch, idempotent with the
	// scans above.
	for i := range items {
		item := &items[i]
		derived := models.DeriveItemStatus(item.Quantity, item.MinStock, item.ExpiryTime(), now)
		if derived == item.Status {
			continue
		}
		if err := jr.db.Model(item).Update("status", derived).Error; err != nil {
			log.Printf("⚠️  Failed to recompute status for item %s: %v", item.ID, err)
			continue
		}
		summary.StatusUpdates++
	}

	// Step 6: notify per created incident; a send failure skips that
	// incident only.
	for i := range created {
		incident := &created[i]
		var recipients []uuid.UUID
		if incident.ResponsibleID != nil {
			recipients = append(recipients, *incident.ResponsibleID)
		}
		if err := jr.notifier.NotifyIncident(incident, recipients); err != nil {
			log.Printf("⚠️  Notification for incident %s failed: %v", incident.ID, err)
			continue
		}
		summary.Notifications++
	}

	log.Printf("✅ Daily pass complete: %d status updates, %d incidents, %d notifications",
		summary.StatusUpdates, summary.IncidentsCreated, summary.Notifications)
	return summary, nil
}

// RunHourlyPass re-sends expiry warnings for items expiring within 3 days
// that still read OK. Narrower and more frequent than the daily pass: an
// escalating reminder channel independent of the incident lifecycle.
func (jr *JobRunner) RunHourlyPass(now time.Time) (*PassSummary, error) {
	log.Println("🔄 Running hourly expiry-warning pass...")
	summary := &PassSummary{}

	horizon := now.Add(3 * 24 * time.Hour)
	var items []models.InventoryItem
	if err := jr.db.Where("expiry IS NOT NULL AND expiry <= ? AND status = ?",
		horizon, models.ItemStatusOK).Find(&items).Error; err != nil {
		return summary, fmt.Errorf("expiring item scan: %w", err)
	}

	assignees := jr.loadAssignees(items)

	for i := range items {
		item := &items[i]
		days, ok := item.DaysUntilExpiry(now)
		if !ok {
			continue
		}
		recipient, hasRecipient := assignees[item.AmbulanceID]
		if !hasRecipient {
			continue
		}
		if err := jr.notifier.NotifyExpiryWarning(item, days, recipient); err != nil {
			log.Printf("⚠️  Expiry warning for item %s failed: %v", item.ID, err)
			continue
		}
		summary.Notifications++
	}

	log.Printf("✅ Hourly pass complete: %d warnings sent", summary.Notifications)
	return summary, nil
}

// loadAssignees maps each referenced ambulance to its assigned user.
func (jr *JobRunner) loadAssignees(items []models.InventoryItem) map[uuid.UUID]uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(items))
	var ids []uuid.UUID
	for i := range items {
		if !seen[items[i].AmbulanceID] {
			seen[items[i].AmbulanceID] = true
			ids = append(ids, items[i].AmbulanceID)
		}
	}

	assignees := make(map[uuid.UUID]uuid.UUID)
	if len(ids) == 0 {
		return assignees
	}

	var ambulances []models.Ambulance
	if err := jr.db.Where("id IN ?", ids).Find(&ambulances).Error; err != nil {
		log.Printf("⚠️  Failed to load ambulance assignees: %v", err)
		return assignees
	}
	for i := range ambulances {
		if ambulances[i].AssignedUserID != nil {
			assignees[ambulances[i].ID] = *ambulances[i].AssignedUserID
		}
	}
	return assignees
}

// hasActiveIncident reports whether an OPEN/IN_PROGRESS incident of the
// given type already references the item.
func hasActiveIncident(active []models.Incident, itemID uuid.UUID, kind models.IncidentType) bool {
	for i := range active {
		inc := &active[i]
		if inc.Type == kind && inc.ItemID != nil && *inc.ItemID == itemID && inc.IsActive() {
			return true
		}
	}
	return false
}

// planExpiryIncidents returns the EXPIRED-type incidents the daily pass
// should open: one per item expiring within the 7-day window that has no
// active incident of that type yet.
func planExpiryIncidents(items []models.InventoryItem, active []models.Incident,
	assignees map[uuid.UUID]uuid.UUID, now time.Time) []models.Incident {

	var planned []models.Incident
	for i := range items {
		item := &items[i]
		days, ok := item.DaysUntilExpiry(now)
		if !ok || days > expiringSoonDays {
			continue
		}
		if hasActiveIncident(active, item.ID, models.IncidentTypeExpired) {
			continue
		}

		severity := models.SeverityMedium
		due := now.Add(3 * 24 * time.Hour)
		switch {
		case days < 0:
			severity = models.SeverityCritical
			due = now.Add(24 * time.Hour)
		case days <= 3:
			severity = models.SeverityHigh
			due = now.Add(24 * time.Hour)
		}

		incident := models.Incident{
			Type:        models.IncidentTypeExpired,
			Severity:    severity,
			Status:      models.IncidentOpen,
			Title:       fmt.Sprintf("Material caducado o próximo a caducar: %s", item.Name),
			Description: fmt.Sprintf("Caducidad a %d días (cantidad %d)", days, item.Quantity),
			AmbulanceID: &item.AmbulanceID,
			ItemID:      &item.ID,
			DueDate:     &due,
		}
		if assignee, ok := assignees[item.AmbulanceID]; ok {
			responsible := assignee
			incident.ResponsibleID = &responsible
		}
		planned = append(planned, incident)
	}
	return planned
}

// planStockIncidents returns the MISSING-type incidents for items at or
// below minimum stock, deduplicated against active incidents.
func planStockIncidents(items []models.InventoryItem, active []models.Incident,
	assignees map[uuid.UUID]uuid.UUID, now time.Time) []models.Incident {

	var planned []models.Incident
	for i := range items {
		item := &items[i]
		if item.MinStock <= 0 || item.Quantity > item.MinStock {
			continue
		}
		if hasActiveIncident(active, item.ID, models.IncidentTypeMissing) {
			continue
		}

		severity := models.SeverityMedium
		switch {
		case item.Quantity == 0:
			severity = models.SeverityCritical
		case item.Quantity <= item.MinStock/2:
			severity = models.SeverityHigh
		}
		due := now.Add(2 * 24 * time.Hour)

		incident := models.Incident{
			Type:        models.IncidentTypeMissing,
			Severity:    severity,
			Status:      models.IncidentOpen,
			Title:       fmt.Sprintf("Stock insuficiente: %s", item.Name),
			Description: fmt.Sprintf("Quedan %d unidades (mínimo %d)", item.Quantity, item.MinStock),
			AmbulanceID: &item.AmbulanceID,
			ItemID:      &item.ID,
			DueDate:     &due,
		}
		if assignee, ok := assignees[item.AmbulanceID]; ok {
			responsible := assignee
			incident.ResponsibleID = &responsible
		}
		planned = append(planned, incident)
	}
	return planned
}

// TriggerDailyPass is the admin endpoint that runs the daily pass
// synchronously and reports its summary.
func (jr *JobRunner) TriggerDailyPass(w http.ResponseWriter, r *http.Request) {
	summary, err := jr.RunDailyPass(time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// TriggerHourlyPass is the admin endpoint for the hourly pass.
func (jr *JobRunner) TriggerHourlyPass(w http.ResponseWriter, r *http.Request) {
	summary, err := jr.RunHourlyPass(time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
