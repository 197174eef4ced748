package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

// PaymentHandler exposes the two money ledgers and the read-side views built
// over them.
type PaymentHandler struct {
	pay *services.PaymentService
	agg *services.AggregateService
}

func NewPaymentHandler(pay *services.PaymentService, agg *services.AggregateService) *PaymentHandler {
	return &PaymentHandler{pay: pay, agg: agg}
}

func (h *PaymentHandler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.agg.AdvancePayments(r.URL.Query().Get("obraId")))
}

func (h *PaymentHandler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	var in services.AdvanceInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.pay.CreateAdvance(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	if err := h.pay.DeleteAdvance(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Pago a cuenta eliminado correctamente"})
}

func (h *PaymentHandler) ListOverheads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gastos, total, err := h.agg.OverheadExpenses(q.Get("desde"), q.Get("hasta"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": gastos, "total": total})
}

func (h *PaymentHandler) CreateOverhead(w http.ResponseWriter, r *http.Request) {
	var in services.OverheadInput
	if !decode(w, r, &in) {
		return
	}
	g, err := h.pay.CreateOverhead(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, g)
}

func (h *PaymentHandler) DeleteOverhead(w http.ResponseWriter, r *http.Request) {
	if err := h.pay.DeleteOverhead(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Gasto eliminado correctamente"})
}

func (h *PaymentHandler) Totals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := h.agg.PaymentTotals(q.Get("desde"), q.Get("hasta"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *PaymentHandler) All(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.agg.AllPayments())
}
