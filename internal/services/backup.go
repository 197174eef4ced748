package services

import (
	"encoding/json"
	"fmt"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
)

// BackupService exports the whole record store as one JSON document and
// restores from such a document wholesale.
type BackupService struct {
	store *store.Store
}

func NewBackupService(s *store.Store) *BackupService {
	return &BackupService{store: s}
}

// Export returns the pretty-printed snapshot for download.
func (s *BackupService) Export() ([]byte, error) {
	return s.store.SerializeIndent()
}

// coreCollections must all be present as JSON arrays for a document to be
// accepted as a backup. The payment ledgers are optional: backups predating
// them restore with empty ledgers.
var coreCollections = []string{"clientes", "obras", "operarios", "proveedores", "partesDiarios"}

// Import validates the document's shape and replaces the entire store with
// it. A rejected document leaves the store untouched.
func (s *BackupService) Import(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ValidationError{Violations: map[string]string{"backup": "invalid_json"}}
	}
	for _, key := range coreCollections {
		val, ok := doc[key]
		if !ok || !isJSONArray(val) {
			return &ValidationError{Violations: map[string]string{key: "missing_collection"}}
		}
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}
	s.store.Replace(snap)
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b == '['
	}
	return false
}
