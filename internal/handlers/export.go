// internal/handlers/export.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// ExportHandler handles inventory export operations
type ExportHandler struct {
	store  ports.InventoryStore
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(store ports.InventoryStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve inventory for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("inventory_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "excel export completed",
		slog.Int("total_rows", len(items)),
		slog.String("filename", filename))
}

// generateExcelFile creates an Excel workbook in memory from the inventory.
func (h *ExportHandler) generateExcelFile(items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"ID", "Name", "Category", "Price", "Quantity",
		"Stock Status", "Perishable", "Expiry", "Value",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range items {
		row := sheet.AddRow()
		for _, value := range h.itemToExcelRow(&item) {
			cell := row.AddCell()
			cell.Value = value
		}
	}

	for i := 0; i < len(headers); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

// itemToExcelRow converts an item to Excel row values
func (h *ExportHandler) itemToExcelRow(item *domain.Item) []string {
	return []string{
		strconv.Itoa(item.ID),
		item.Name,
		item.Category,
		item.Price.StringFixed(2),
		strconv.Itoa(item.Quantity),
		string(domain.StockStatusOf(item.Quantity)),
		h.boolValue(item.Perishable),
		item.Expiry,
		item.Value().StringFixed(2),
	}
}

func (h *ExportHandler) boolValue(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
