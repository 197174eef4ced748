package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gestionobras/backend/internal/validation"
)

// ErrNotFound is returned when an operation targets an identity that no
// longer resolves. The store is left untouched.
var ErrNotFound = errors.New("registro no encontrado")

// ValidationError carries the per-field violations of a rejected input.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "campos inválidos: " + strings.Join(fields, ", ")
}

// IntegrityError reports a delete blocked by dependent records.
type IntegrityError struct {
	Entity string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("no se puede eliminar: %s tiene registros asociados", e.Entity)
}

func invalid(v validation.Violations) error {
	return &ValidationError{Violations: v}
}
