package handlers

import (
	"net/http"

	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

// SettlementHandler exposes the settlement workflow: the pending view, the
// settle action and the reconstructed history.
type SettlementHandler struct {
	svc *services.SettlementService
}

func NewSettlementHandler(svc *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

func (h *SettlementHandler) Pending(w http.ResponseWriter, r *http.Request) {
	operarioID := r.URL.Query().Get("operarioId")
	if operarioID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"operarioId": "required"})
		return
	}
	httpx.JSON(w, http.StatusOK, h.svc.PendingGroups(operarioID))
}

func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OperarioID string   `json:"operarioId"`
		Fechas     []string `json:"fechas"`
		Nota       string   `json:"nota"`
	}
	if !decode(w, r, &in) {
		return
	}
	res, err := h.svc.Settle(in.OperarioID, in.Fechas, in.Nota)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *SettlementHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	batches, err := h.svc.HistoricalBatches(q.Get("operarioId"), q.Get("desde"), q.Get("hasta"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, batches)
}

// Workers lists worker ids with settlement history, for the history
// selector.
func (h *SettlementHandler) Workers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.SettledWorkerIDs())
}
