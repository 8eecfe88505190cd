package handlers

import (
	"fmt"
	"time"

	"p9e.in/ambufleet/models"
)

// expiringSoonDays is the look-ahead window for expiry warnings.
const expiringSoonDays = 7

// DeriveAlerts recomputes the dashboard alert list from current ambulance
// and inventory state. Pure: no caching, re-run on every read.
//
// Per ambulance only the single most-urgent pending-workflow alert is
// emitted (the checks chain as else-if). Inventory conditions are emitted
// independently per item.
func DeriveAlerts(ambulances []models.Ambulance, items []models.InventoryItem, today time.Time) []models.Alert {
	var alerts []models.Alert

	codes := make(map[string]string, len(ambulances))
	for i := range ambulances {
		a := &ambulances[i]
		codes[a.ID.String()] = a.Code

		if !a.DailyCheckCompleted {
			alerts = append(alerts, models.Alert{
				Type:        models.AlertDailyCheckPending,
				Severity:    models.AlertSeverityMedium,
				Message:     fmt.Sprintf("Chequeo diario pendiente en %s", a.Code),
				AmbulanceID: &a.ID,
				CreatedAt:   today,
			})
		} else if !a.MechanicalReviewCompleted {
			alerts = append(alerts, models.Alert{
				Type:        models.AlertReviewPending,
				Severity:    models.AlertSeverityMedium,
				Message:     fmt.Sprintf("Revisión mecánica pendiente en %s", a.Code),
				AmbulanceID: &a.ID,
				CreatedAt:   today,
			})
		} else if !a.CleaningCompleted {
			alerts = append(alerts, models.Alert{
				Type:        models.AlertCleaningPending,
				Severity:    models.AlertSeverityMedium,
				Message:     fmt.Sprintf("Limpieza pendiente en %s", a.Code),
				AmbulanceID: &a.ID,
				CreatedAt:   today,
			})
		}
	}

	for i := range items {
		item := &items[i]
		code := codes[item.AmbulanceID.String()]
		if code == "" {
			code = item.AmbulanceID.String()
		}

		if item.MinStock > 0 && item.Quantity <= item.MinStock {
			severity := models.AlertSeverityMedium
			if item.Quantity == 0 {
				severity = models.AlertSeverityHigh
			}
			alerts = append(alerts, models.Alert{
				Type:        models.AlertLowStockAmbulance,
				Severity:    severity,
				Message:     fmt.Sprintf("Stock bajo de %s en %s (%d/%d)", item.Name, code, item.Quantity, item.MinStock),
				AmbulanceID: &item.AmbulanceID,
				ItemID:      &item.ID,
				CreatedAt:   today,
			})
		}

		if item.Kind == models.ItemKindConsumable {
			if days, ok := item.DaysUntilExpiry(today); ok {
				if days < 0 {
					alerts = append(alerts, models.Alert{
						Type:        models.AlertExpiredMaterial,
						Severity:    models.AlertSeverityHigh,
						Message:     fmt.Sprintf("%s caducado en %s", item.Name, code),
						AmbulanceID: &item.AmbulanceID,
						ItemID:      &item.ID,
						CreatedAt:   today,
					})
				} else if days <= expiringSoonDays {
					alerts = append(alerts, models.Alert{
						Type:        models.AlertExpiringSoon,
						Severity:    models.AlertSeverityMedium,
						Message:     fmt.Sprintf("%s caduca en %d días en %s", item.Name, days, code),
						AmbulanceID: &item.AmbulanceID,
						ItemID:      &item.ID,
						CreatedAt:   today,
					})
				}
			}
		}
	}

	return alerts
}

// DeriveAmpularioAlerts applies the same expiry/stock rules to the central
// store, referenced by space instead of ambulance.
func DeriveAmpularioAlerts(materials []models.AmpularioMaterial, today time.Time) []models.Alert {
	var alerts []models.Alert

	for i := range materials {
		m := &materials[i]

		if m.MinStock > 0 && m.Quantity <= m.MinStock {
			severity := models.AlertSeverityMedium
			if m.Quantity == 0 {
				severity = models.AlertSeverityHigh
			}
			alerts = append(alerts, models.Alert{
				Type:      models.AlertLowStockAmpulario,
				Severity:  severity,
				Message:   fmt.Sprintf("Stock bajo de %s en ampulario (%d/%d)", m.Name, m.Quantity, m.MinStock),
				SpaceID:   &m.SpaceID,
				ItemID:    &m.ID,
				CreatedAt: today,
			})
		}

		if exp := m.ExpiryTime(); exp != nil {
			days := models.DaysUntil(*exp, today)
			if days < 0 {
				alerts = append(alerts, models.Alert{
					Type:      models.AlertExpiredMaterial,
					Severity:  models.AlertSeverityHigh,
					Message:   fmt.Sprintf("%s caducado en ampulario", m.Name),
					SpaceID:   &m.SpaceID,
					ItemID:    &m.ID,
					CreatedAt: today,
				})
			} else if days <= expiringSoonDays {
				alerts = append(alerts, models.Alert{
					Type:      models.AlertExpiringSoon,
					Severity:  models.AlertSeverityMedium,
					Message:   fmt.Sprintf("%s caduca en %d días en ampulario", m.Name, days),
					SpaceID:   &m.SpaceID,
					ItemID:    &m.ID,
					CreatedAt: today,
				})
			}
		}
	}

	return alerts
}

// AlertsFromIncidents projects still-active incidents into the merged
// alert stream, keeping their real creation time so recency ordering holds
// across streams.
func AlertsFromIncidents(incidents []models.Incident) []models.Alert {
	var alerts []models.Alert
	for i := range incidents {
		inc := &incidents[i]
		if !inc.IsActive() {
			continue
		}
		alerts = append(alerts, models.Alert{
			Type:        models.AlertIncidentOpen,
			Severity:    models.AlertSeverityForIncident(inc.Severity),
			Message:     inc.Title,
			AmbulanceID: inc.AmbulanceID,
			ItemID:      inc.ItemID,
			IncidentID:  &inc.ID,
			CreatedAt:   inc.CreatedAt,
		})
	}
	return alerts
}
