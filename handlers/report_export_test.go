package handlers

import (
	"testing"
	"time"

	"p9e.in/ambufleet/models"
)

func TestInventoryExportRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	items := []models.InventoryItem{
		{Name: "Gasas", Category: "Curas", Location: "Mochila 1", Quantity: 20, MinStock: 5},
		{Name: "Adrenalina", Quantity: 2, MinStock: 4, Expiry: expiryIn(-1, now), Status: models.ItemStatusOK},
	}

	rows := inventoryExportRows(items, now)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0][0] != "Gasas" || rows[0][3] != "20" || rows[0][6] != "OK" {
		t.Errorf("row[0] = %v", rows[0])
	}

	// The stored status says OK but the export derives fresh: expired wins.
	if rows[1][6] != "EXPIRED" {
		t.Errorf("row[1] status = %s, want EXPIRED (derived, not cached)", rows[1][6])
	}
	if rows[1][5] != now.AddDate(0, 0, -1).Format("2006-01-02") {
		t.Errorf("row[1] expiry = %s", rows[1][5])
	}

	for i, row := range rows {
		if len(row) != len(inventoryExportHeader) {
			t.Errorf("row[%d] has %d columns, header has %d", i, len(row), len(inventoryExportHeader))
		}
	}
}
