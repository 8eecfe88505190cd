package models

import (
	"testing"
	"time"
)

func TestSortAlerts(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	alerts := []Alert{
		{Type: AlertExpiringSoon, Severity: AlertSeverityMedium, CreatedAt: base.Add(-2 * time.Hour)},
		{Type: AlertIncidentOpen, Severity: AlertSeverityLow, CreatedAt: base},
		{Type: AlertExpiredMaterial, Severity: AlertSeverityHigh, CreatedAt: base.Add(-24 * time.Hour)},
		{Type: AlertLowStockAmbulance, Severity: AlertSeverityHigh, CreatedAt: base.Add(-1 * time.Hour)},
		{Type: AlertDailyCheckPending, Severity: AlertSeverityMedium, CreatedAt: base},
	}

	SortAlerts(alerts)

	wantOrder := []AlertType{
		AlertLowStockAmbulance, // high, newest
		AlertExpiredMaterial,   // high, older
		AlertDailyCheckPending, // medium, newest
		AlertExpiringSoon,      // medium, older
		AlertIncidentOpen,      // low
	}
	for i, want := range wantOrder {
		if alerts[i].Type != want {
			t.Errorf("alerts[%d].Type = %s, want %s", i, alerts[i].Type, want)
		}
	}
}

func TestAlertSeverityForIncident(t *testing.T) {
	tests := []struct {
		in   IncidentSeverity
		want AlertSeverity
	}{
		{SeverityCritical, AlertSeverityHigh},
		{SeverityHigh, AlertSeverityHigh},
		{SeverityMedium, AlertSeverityMedium},
		{SeverityLow, AlertSeverityLow},
	}
	for _, tt := range tests {
		if got := AlertSeverityForIncident(tt.in); got != tt.want {
			t.Errorf("AlertSeverityForIncident(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
