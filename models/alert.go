package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// AlertType names the condition an alert surfaces.
type AlertType string

const (
	AlertDailyCheckPending AlertType = "daily_check_pending"
	AlertReviewPending     AlertType = "review_pending"
	AlertCleaningPending   AlertType = "cleaning_pending"
	AlertLowStockAmbulance AlertType = "low_stock_ambulance"
	AlertLowStockAmpulario AlertType = "low_stock_ampulario"
	AlertExpiredMaterial   AlertType = "expired_material"
	AlertExpiringSoon      AlertType = "expiring_soon"
	AlertIncidentOpen      AlertType = "incident_open"
)

// AlertSeverity orders alerts on the dashboard. Distinct from
// IncidentSeverity: alerts only use three levels.
type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "low"
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

// Alert is an ephemeral, request-time projection of current entity state.
// It is never persisted: dashboards re-derive the list on every read.
type Alert struct {
	Type     AlertType     `json:"type"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`

	AmbulanceID *uuid.UUID `json:"ambulanceId,omitempty"`
	ItemID      *uuid.UUID `json:"itemId,omitempty"`
	SpaceID     *uuid.UUID `json:"spaceId,omitempty"`
	IncidentID  *uuid.UUID `json:"incidentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"` // derivation time, or incident creation time
}

var alertSeverityRank = map[AlertSeverity]int{
	AlertSeverityHigh:   0,
	AlertSeverityMedium: 1,
	AlertSeverityLow:    2,
}

// SortAlerts orders alerts by severity (high first), ties broken by most
// recent first. The same total order is used for every merged stream.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := alertSeverityRank[alerts[i].Severity], alertSeverityRank[alerts[j].Severity]
		if ri != rj {
			return ri < rj
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}

// AlertSeverityForIncident maps the four incident levels onto the three
// alert levels used for display.
func AlertSeverityForIncident(s IncidentSeverity) AlertSeverity {
	switch s {
	case SeverityCritical, SeverityHigh:
		return AlertSeverityHigh
	case SeverityMedium:
		return AlertSeverityMedium
	default:
		return AlertSeverityLow
	}
}
