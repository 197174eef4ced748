package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

// ReportHandler exposes daily work reports.
type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// List filters by any combination of obraId, fecha and operarioId query
// parameters.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	httpx.JSON(w, http.StatusOK, h.svc.List(q.Get("obraId"), q.Get("fecha"), q.Get("operarioId")))
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ReportInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ReportInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Update(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Parte diario eliminado correctamente"})
}
