package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"p9e.in/ambufleet/models"
)

func countByType(alerts []models.Alert, kind models.AlertType) int {
	n := 0
	for _, a := range alerts {
		if a.Type == kind {
			n++
		}
	}
	return n
}

func expiryIn(days int, today time.Time) *models.JSONTime {
	jt := models.JSONTime(today.AddDate(0, 0, days))
	return &jt
}

func TestDeriveAlertsWorkflowSingleAlert(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ambulance models.Ambulance
		wantType  models.AlertType
		wantNone  bool
	}{
		{
			"nothing done yet",
			models.Ambulance{Code: "A-01"},
			models.AlertDailyCheckPending, false,
		},
		{
			"daily done, review pending",
			models.Ambulance{Code: "A-02", DailyCheckCompleted: true},
			models.AlertReviewPending, false,
		},
		{
			"cleaning pending",
			models.Ambulance{Code: "A-03", DailyCheckCompleted: true, MechanicalReviewCompleted: true},
			models.AlertCleaningPending, false,
		},
		{
			"only inventory pending emits nothing",
			models.Ambulance{Code: "A-04", DailyCheckCompleted: true, MechanicalReviewCompleted: true, CleaningCompleted: true},
			"", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ambulance.ID = uuid.New()
			alerts := DeriveAlerts([]models.Ambulance{tt.ambulance}, nil, today)
			if tt.wantNone {
				if len(alerts) != 0 {
					t.Fatalf("got %d alerts, want none: %+v", len(alerts), alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("got %d alerts, want exactly one: %+v", len(alerts), alerts)
			}
			if alerts[0].Type != tt.wantType {
				t.Errorf("alert type = %s, want %s", alerts[0].Type, tt.wantType)
			}
			if alerts[0].Severity != models.AlertSeverityMedium {
				t.Errorf("workflow alert severity = %s, want medium", alerts[0].Severity)
			}
		})
	}
}

func TestDeriveAlertsInventoryConditions(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	ambulanceID := uuid.New()
	ambulance := models.Ambulance{
		ID: ambulanceID, Code: "A-01",
		DailyCheckCompleted: true, MechanicalReviewCompleted: true, CleaningCompleted: true,
	}

	tests := []struct {
		name         string
		item         models.InventoryItem
		wantType     models.AlertType
		wantSeverity models.AlertSeverity
	}{
		{
			"zero stock is high",
			models.InventoryItem{Name: "Suero", Quantity: 0, MinStock: 5},
			models.AlertLowStockAmbulance, models.AlertSeverityHigh,
		},
		{
			"at minimum is medium",
			models.InventoryItem{Name: "Gasas", Quantity: 5, MinStock: 5},
			models.AlertLowStockAmbulance, models.AlertSeverityMedium,
		},
		{
			"expired consumable",
			models.InventoryItem{Name: "Adrenalina", Quantity: 3, Kind: models.ItemKindConsumable, Expiry: expiryIn(-1, today)},
			models.AlertExpiredMaterial, models.AlertSeverityHigh,
		},
		{
			"expiring within window",
			models.InventoryItem{Name: "Atropina", Quantity: 3, Kind: models.ItemKindConsumable, Expiry: expiryIn(5, today)},
			models.AlertExpiringSoon, models.AlertSeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.item.ID = uuid.New()
			tt.item.AmbulanceID = ambulanceID
			alerts := DeriveAlerts([]models.Ambulance{ambulance}, []models.InventoryItem{tt.item}, today)
			if len(alerts) != 1 {
				t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
			}
			if alerts[0].Type != tt.wantType || alerts[0].Severity != tt.wantSeverity {
				t.Errorf("alert = %s/%s, want %s/%s",
					alerts[0].Type, alerts[0].Severity, tt.wantType, tt.wantSeverity)
			}
		})
	}
}

func TestDeriveAlertsItemConditionsStack(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	ambulanceID := uuid.New()
	ambulance := models.Ambulance{
		ID: ambulanceID, Code: "A-01",
		DailyCheckCompleted: true, MechanicalReviewCompleted: true, CleaningCompleted: true,
	}

	// Low stock AND expired on the same item: both alerts emitted.
	item := models.InventoryItem{
		ID: uuid.New(), AmbulanceID: ambulanceID,
		Name: "Adrenalina", Quantity: 1, MinStock: 5,
		Kind: models.ItemKindConsumable, Expiry: expiryIn(-2, today),
	}

	alerts := DeriveAlerts([]models.Ambulance{ambulance}, []models.InventoryItem{item}, today)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2: %+v", len(alerts), alerts)
	}
	if countByType(alerts, models.AlertLowStockAmbulance) != 1 {
		t.Error("missing low-stock alert")
	}
	if countByType(alerts, models.AlertExpiredMaterial) != 1 {
		t.Error("missing expired-material alert")
	}
}

func TestDeriveAlertsEquipmentHasNoExpiryAlerts(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	ambulanceID := uuid.New()
	ambulance := models.Ambulance{
		ID: ambulanceID, Code: "A-01",
		DailyCheckCompleted: true, MechanicalReviewCompleted: true, CleaningCompleted: true,
	}
	item := models.InventoryItem{
		ID: uuid.New(), AmbulanceID: ambulanceID,
		Name: "Aspirador", Quantity: 1,
		Kind: models.ItemKindNonConsumable, Expiry: expiryIn(-30, today),
	}

	alerts := DeriveAlerts([]models.Ambulance{ambulance}, []models.InventoryItem{item}, today)
	if len(alerts) != 0 {
		t.Errorf("equipment produced expiry alerts: %+v", alerts)
	}
}

func TestDeriveAmpularioAlerts(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	spaceID := uuid.New()

	materials := []models.AmpularioMaterial{
		{ID: uuid.New(), SpaceID: spaceID, Name: "Midazolam", Quantity: 0, MinStock: 3},
		{ID: uuid.New(), SpaceID: spaceID, Name: "Fentanilo", Quantity: 10, Expiry: expiryIn(2, today)},
		{ID: uuid.New(), SpaceID: spaceID, Name: "Diazepam", Quantity: 10, Expiry: expiryIn(30, today)},
	}

	alerts := DeriveAmpularioAlerts(materials, today)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2: %+v", len(alerts), alerts)
	}
	if countByType(alerts, models.AlertLowStockAmpulario) != 1 {
		t.Error("missing ampulario low-stock alert")
	}
	if countByType(alerts, models.AlertExpiringSoon) != 1 {
		t.Error("missing expiring-soon alert")
	}
}

func TestAlertsFromIncidentsSkipsInactive(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	incidents := []models.Incident{
		{ID: uuid.New(), Status: models.IncidentOpen, Severity: models.SeverityCritical, Title: "Sin adrenalina", CreatedAt: created},
		{ID: uuid.New(), Status: models.IncidentInProgress, Severity: models.SeverityMedium, Title: "Caducidad próxima", CreatedAt: created},
		{ID: uuid.New(), Status: models.IncidentResolved, Severity: models.SeverityHigh, Title: "Resuelto", CreatedAt: created},
		{ID: uuid.New(), Status: models.IncidentClosed, Severity: models.SeverityHigh, Title: "Cerrado", CreatedAt: created},
	}

	alerts := AlertsFromIncidents(incidents)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2: %+v", len(alerts), alerts)
	}
	if alerts[0].Severity != models.AlertSeverityHigh {
		t.Errorf("critical incident mapped to %s, want high", alerts[0].Severity)
	}
	if !alerts[0].CreatedAt.Equal(created) {
		t.Errorf("alert CreatedAt = %v, want incident creation time %v", alerts[0].CreatedAt, created)
	}
}
