package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

// CatalogHandler exposes the four reference collections.
type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.Clients())
}

func (h *CatalogHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in services.ClientInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.CreateClient(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var in services.ClientInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.UpdateClient(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClient(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Cliente eliminado correctamente"})
}

func (h *CatalogHandler) ListWorks(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.Works())
}

func (h *CatalogHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	var in services.WorkInput
	if !decode(w, r, &in) {
		return
	}
	o, err := h.svc.CreateWork(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *CatalogHandler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	var in services.WorkInput
	if !decode(w, r, &in) {
		return
	}
	o, err := h.svc.UpdateWork(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *CatalogHandler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteWork(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Obra eliminada correctamente"})
}

func (h *CatalogHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.Workers())
}

func (h *CatalogHandler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var in services.WorkerInput
	if !decode(w, r, &in) {
		return
	}
	op, err := h.svc.CreateWorker(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, op)
}

func (h *CatalogHandler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var in services.WorkerInput
	if !decode(w, r, &in) {
		return
	}
	op, err := h.svc.UpdateWorker(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, op)
}

func (h *CatalogHandler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteWorker(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Operario eliminado correctamente"})
}

func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.Suppliers())
}

func (h *CatalogHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in services.SupplierInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.CreateSupplier(in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var in services.SupplierInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.UpdateSupplier(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSupplier(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Proveedor eliminado correctamente"})
}
