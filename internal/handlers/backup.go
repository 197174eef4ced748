package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

// maxBackupBytes bounds an uploaded backup document.
const maxBackupBytes = 64 << 20

// BackupHandler exposes whole-store export and restore.
type BackupHandler struct {
	svc *services.BackupService
}

func NewBackupHandler(svc *services.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Export streams the snapshot as a downloadable JSON document.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	raw, err := h.svc.Export()
	if err != nil {
		writeError(w, err)
		return
	}
	name := fmt.Sprintf("backup_gestion_obras_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		_ = err
	}
}

// Import replaces the entire store with the uploaded document.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "read_failed", nil)
		return
	}
	if err := h.svc.Import(raw); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Copia de seguridad restaurada correctamente"})
}
