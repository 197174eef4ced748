package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gestionobras/backend/internal/attachments"
	"github.com/gestionobras/backend/internal/httpx"
	"github.com/gestionobras/backend/internal/services"
)

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}

// writeError maps service errors onto the HTTP surface. Anything
// unrecognised is a 500 with no internals leaked.
func writeError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	var ierr *services.IntegrityError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
	case errors.As(err, &ierr):
		httpx.JSONError(w, http.StatusConflict, "has_dependent_records", ierr.Error())
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, attachments.ErrTooLarge):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "attachment_too_large", attachments.ErrTooLarge.Error())
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
