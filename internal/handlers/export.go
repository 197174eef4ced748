package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

// ExportHandler renders a work summary as a spreadsheet download.
type ExportHandler struct {
	agg *services.AggregateService
}

func NewExportHandler(agg *services.AggregateService) *ExportHandler {
	return &ExportHandler{agg: agg}
}

func (h *ExportHandler) WorkSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	sum, err := h.agg.WorkSummary(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sheet := "Resumen"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		writeError(w, err)
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	setCell := func(cell string, value any) {
		_ = f.SetCellValue(sheet, cell, value)
	}
	setCell("A1", "Obra")
	setCell("B1", sum.Obra.Nombre)
	setCell("A2", "Número")
	setCell("B2", sum.Obra.Numero)
	setCell("A3", "Presupuesto")
	setCell("B3", sum.Obra.PresupuestoTotal)

	setCell("A5", "Fecha")
	setCell("B5", "Horas")
	setCell("C5", "Gastos")
	row := 6
	for _, d := range sum.PorFecha {
		setCell(fmt.Sprintf("A%d", row), d.Fecha)
		setCell(fmt.Sprintf("B%d", row), d.TotalHoras)
		setCell(fmt.Sprintf("C%d", row), d.TotalGastos)
		row++
	}
	row++
	setCell(fmt.Sprintf("A%d", row), "Total horas")
	setCell(fmt.Sprintf("B%d", row), sum.TotalHoras)
	row++
	setCell(fmt.Sprintf("A%d", row), "Total gastos")
	setCell(fmt.Sprintf("B%d", row), sum.TotalGastos)
	row++
	setCell(fmt.Sprintf("A%d", row), "Total general")
	setCell(fmt.Sprintf("B%d", row), sum.TotalGeneral)

	buf, err := f.WriteToBuffer()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	name := fmt.Sprintf("resumen_%s.xlsx", sum.Obra.Numero)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		_ = err
	}
}

// WorkSummaryJSON returns the same aggregation as JSON for the summary view.
func (h *ExportHandler) WorkSummaryJSON(w http.ResponseWriter, r *http.Request) {
	sum, err := h.agg.WorkSummary(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}
