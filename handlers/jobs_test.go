package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"p9e.in/ambufleet/models"
)

func itemExpiringIn(days int, now time.Time) models.InventoryItem {
	return models.InventoryItem{
		ID:          uuid.New(),
		AmbulanceID: uuid.New(),
		Name:        "Adrenalina 1mg",
		Kind:        models.ItemKindConsumable,
		Quantity:    4,
		Expiry:      expiryIn(days, now),
	}
}

func TestPlanExpiryIncidentsSeverity(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		days         int
		wantPlanned  bool
		wantSeverity models.IncidentSeverity
		wantDueHours float64
	}{
		{"already expired", -2, true, models.SeverityCritical, 24},
		{"expires in 2 days", 2, true, models.SeverityHigh, 24},
		{"expires in 3 days", 3, true, models.SeverityHigh, 24},
		{"expires in 5 days", 5, true, models.SeverityMedium, 72},
		{"expires in 7 days", 7, true, models.SeverityMedium, 72},
		{"outside the window", 8, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := itemExpiringIn(tt.days, now)
			planned := planExpiryIncidents([]models.InventoryItem{item}, nil, nil, now)

			if !tt.wantPlanned {
				if len(planned) != 0 {
					t.Fatalf("planned %d incidents, want none", len(planned))
				}
				return
			}
			if len(planned) != 1 {
				t.Fatalf("planned %d incidents, want 1", len(planned))
			}
			inc := planned[0]
			if inc.Type != models.IncidentTypeExpired {
				t.Errorf("type = %s, want EXPIRED", inc.Type)
			}
			if inc.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", inc.Severity, tt.wantSeverity)
			}
			if inc.Status != models.IncidentOpen {
				t.Errorf("status = %s, want OPEN", inc.Status)
			}
			if inc.DueDate == nil {
				t.Fatal("DueDate not set")
			}
			if got := inc.DueDate.Sub(now).Hours(); got != tt.wantDueHours {
				t.Errorf("due in %.0f hours, want %.0f", got, tt.wantDueHours)
			}
			if inc.ItemID == nil || *inc.ItemID != item.ID {
				t.Error("incident does not reference the item")
			}
		})
	}
}

func TestPlanStockIncidentsSeverity(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		quantity     int
		minStock     int
		wantPlanned  bool
		wantSeverity models.IncidentSeverity
	}{
		{"out of stock", 0, 6, true, models.SeverityCritical},
		{"at half minimum", 3, 6, true, models.SeverityHigh},
		{"below minimum above half", 5, 6, true, models.SeverityMedium},
		{"at minimum", 6, 6, true, models.SeverityMedium},
		{"above minimum", 7, 6, false, ""},
		{"no minimum configured", 0, 0, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.InventoryItem{
				ID:          uuid.New(),
				AmbulanceID: uuid.New(),
				Name:        "Suero fisiológico",
				Quantity:    tt.quantity,
				MinStock:    tt.minStock,
			}
			planned := planStockIncidents([]models.InventoryItem{item}, nil, nil, now)

			if !tt.wantPlanned {
				if len(planned) != 0 {
					t.Fatalf("planned %d incidents, want none", len(planned))
				}
				return
			}
			if len(planned) != 1 {
				t.Fatalf("planned %d incidents, want 1", len(planned))
			}
			if planned[0].Type != models.IncidentTypeMissing {
				t.Errorf("type = %s, want MISSING", planned[0].Type)
			}
			if planned[0].Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", planned[0].Severity, tt.wantSeverity)
			}
		})
	}
}

// Running the planner a second time with the first run's output as the
// active set must plan nothing: the daily pass stays idempotent even when a
// manual trigger overlaps the scheduler.
func TestPlanIncidentsDeduplication(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	expiring := itemExpiringIn(1, now)
	low := models.InventoryItem{
		ID: uuid.New(), AmbulanceID: uuid.New(),
		Name: "Guantes nitrilo", Quantity: 1, MinStock: 10,
	}
	items := []models.InventoryItem{expiring, low}

	first := planExpiryIncidents(items, nil, nil, now)
	first = append(first, planStockIncidents(items, nil, nil, now)...)
	if len(first) != 2 {
		t.Fatalf("first run planned %d incidents, want 2", len(first))
	}

	second := planExpiryIncidents(items, first, nil, now)
	second = append(second, planStockIncidents(items, first, nil, now)...)
	if len(second) != 0 {
		t.Fatalf("second run planned %d incidents, want 0: %+v", len(second), second)
	}
}

// A resolved incident no longer suppresses a new one for the same item.
func TestPlanIncidentsResolvedDoesNotSuppress(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	item := itemExpiringIn(1, now)

	resolved := models.Incident{
		Type: models.IncidentTypeExpired, Status: models.IncidentResolved, ItemID: &item.ID,
	}
	planned := planExpiryIncidents([]models.InventoryItem{item}, []models.Incident{resolved}, nil, now)
	if len(planned) != 1 {
		t.Fatalf("planned %d incidents, want 1", len(planned))
	}
}

// An active incident of a different type does not suppress creation.
func TestPlanIncidentsTypeScopedDedup(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	item := itemExpiringIn(1, now)
	item.MinStock = 10
	item.Quantity = 2

	missing := models.Incident{
		Type: models.IncidentTypeMissing, Status: models.IncidentOpen, ItemID: &item.ID,
	}
	planned := planExpiryIncidents([]models.InventoryItem{item}, []models.Incident{missing}, nil, now)
	if len(planned) != 1 {
		t.Fatalf("EXPIRED plan suppressed by MISSING incident: %d planned", len(planned))
	}
}

func TestPlanIncidentsAssignsResponsible(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	item := itemExpiringIn(1, now)
	assignee := uuid.New()
	assignees := map[uuid.UUID]uuid.UUID{item.AmbulanceID: assignee}

	planned := planExpiryIncidents([]models.InventoryItem{item}, nil, assignees, now)
	if len(planned) != 1 {
		t.Fatalf("planned %d incidents, want 1", len(planned))
	}
	if planned[0].ResponsibleID == nil || *planned[0].ResponsibleID != assignee {
		t.Errorf("ResponsibleID = %v, want %s", planned[0].ResponsibleID, assignee)
	}
}
