package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/models"
)

var inventoryExportHeader = []string{"Material", "Categoría", "Ubicación", "Cantidad", "Mínimo", "Caducidad", "Estado"}

// inventoryExportRows flattens an ambulance's inventory for export, with
// the status column derived at export time rather than trusting the
// stored projection.
func inventoryExportRows(items []models.InventoryItem, now time.Time) [][]string {
	rows := make([][]string, 0, len(items))
	for i := range items {
		item := &items[i]
		expiry := ""
		if exp := item.ExpiryTime(); exp != nil {
			expiry = exp.Format("2006-01-02")
		}
		status := models.DeriveItemStatus(item.Quantity, item.MinStock, item.ExpiryTime(), now)
		rows = append(rows, []string{
			item.Name,
			item.Category,
			item.Location,
			strconv.Itoa(item.Quantity),
			strconv.Itoa(item.MinStock),
			expiry,
			string(status),
		})
	}
	return rows
}

// ExportInventoryToExcel downloads one ambulance's inventory as .xlsx.
func ExportInventoryToExcel(w http.ResponseWriter, r *http.Request) {
	ambulanceID := mux.Vars(r)["id"]

	var ambulance models.Ambulance
	if err := config.DB.First(&ambulance, "id = ?", ambulanceID).Error; err != nil {
		http.Error(w, "ambulance not found", http.StatusNotFound)
		return
	}

	var items []models.InventoryItem
	if err := config.DB.Where("ambulance_id = ?", ambulance.ID).
		Order("name ASC").Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	file := excelize.NewFile()
	sheet := "Inventario"
	file.SetSheetName("Sheet1", sheet)

	for col, title := range inventoryExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, title)
	}
	for rowIdx, row := range inventoryExportRows(items, time.Now()) {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("inventario_%s_%s.xlsx", ambulance.Code, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportAmpularioToCSV downloads the central store stock as CSV.
func ExportAmpularioToCSV(w http.ResponseWriter, r *http.Request) {
	var materials []models.AmpularioMaterial
	if err := config.DB.Preload("Space").Order("name ASC").Find(&materials).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("ampulario_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	now := time.Now()
	writer := csv.NewWriter(w)
	writer.Write([]string{"Material", "Espacio", "Dosis", "Cantidad", "Mínimo", "Caducidad", "Estado"})
	for i := range materials {
		m := &materials[i]
		expiry := ""
		if exp := m.ExpiryTime(); exp != nil {
			expiry = exp.Format("2006-01-02")
		}
		status := models.DeriveItemStatus(m.Quantity, m.MinStock, m.ExpiryTime(), now)
		writer.Write([]string{
			m.Name,
			m.Space.Name,
			m.Dose,
			strconv.Itoa(m.Quantity),
			strconv.Itoa(m.MinStock),
			expiry,
			string(status),
		})
	}
	writer.Flush()
}
