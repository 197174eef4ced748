// Package store owns the in-process record store. All collections live in
// memory and are persisted wholesale to a local key-value slot after every
// successful mutation, mirroring how earlier versions of the application
// kept the whole dataset under a single localStorage key.
package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gestionobras/backend/internal/models"
)

// Slot is the local key-value slot the snapshot is persisted to.
type Slot interface {
	Load() ([]byte, bool, error)
	Save([]byte) error
}

// Store holds the record collections and the monotonic work-numbering
// counter. The HTTP surface is concurrent, so access goes through a RWMutex;
// mutations hold the write lock for their full span, which keeps the
// single-writer model of the data intact (readers never observe a partial
// mutation).
type Store struct {
	mu            sync.RWMutex
	data          models.Snapshot
	contadorObras int
	slot          Slot
	log           zerolog.Logger
}

func New(slot Slot, log zerolog.Logger) *Store {
	return &Store{
		data:          emptySnapshot(),
		contadorObras: 1,
		slot:          slot,
		log:           log,
	}
}

// Open loads the snapshot from the slot, if one exists, and hydrates it.
func (s *Store) Open() error {
	if s.slot == nil {
		return nil
	}
	raw, found, err := s.slot.Load()
	if err != nil {
		return fmt.Errorf("load slot: %w", err)
	}
	if !found {
		return nil
	}
	return s.Hydrate(raw)
}

// Tx gives a store operation access to the snapshot and the work counter.
type Tx struct {
	Data  *models.Snapshot
	store *Store
}

// NextWorkNumber allocates the next sequential display number. The counter
// never decreases, so numbers are never reused even if the surrounding
// operation later fails.
func (tx *Tx) NextWorkNumber() string {
	n := fmt.Sprintf("OBR-%03d", tx.store.contadorObras)
	tx.store.contadorObras++
	return n
}

// View runs fn with shared read access to the snapshot. fn must not mutate.
func (s *Store) View(fn func(tx *Tx)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&Tx{Data: &s.data, store: s})
}

// Update runs fn with exclusive access. When fn returns nil the snapshot is
// flushed to the slot; when it returns an error the in-memory state is
// expected to be untouched (operations validate before mutating) and nothing
// is written.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&Tx{Data: &s.data, store: s}); err != nil {
		return err
	}
	s.flushLocked()
	return nil
}

// Serialize returns the whole record store as a JSON snapshot.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(&s.data)
}

// SerializeIndent is Serialize in the pretty-printed form used for backup
// documents.
func (s *Store) SerializeIndent() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(&s.data, "", "  ")
}

// Hydrate replaces the store contents with the given snapshot, filling the
// defaults older snapshots are missing: liquidation fields on every daily
// report, the payment-ledger collections, identities on works that lack one.
// The work-numbering counter is recomputed from the highest display number.
func (s *Store) Hydrate(raw []byte) error {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("hydrate snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	normalize(&snap)
	s.data = snap
	s.contadorObras = recomputeCounter(snap.Obras)
	return nil
}

// Replace swaps in an already-parsed snapshot (backup restore) and persists
// it to the slot.
func (s *Store) Replace(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalize(&snap)
	s.data = snap
	s.contadorObras = recomputeCounter(snap.Obras)
	s.flushLocked()
}

// flushLocked writes the snapshot to the slot. Slot failures are logged and
// not surfaced: persistence is fire-and-forget, the in-memory store remains
// the source of truth for the running process.
func (s *Store) flushLocked() {
	if s.slot == nil {
		return
	}
	raw, err := json.Marshal(&s.data)
	if err != nil {
		s.log.Error().Err(err).Msg("serialize snapshot")
		return
	}
	if err := s.slot.Save(raw); err != nil {
		s.log.Error().Err(err).Msg("persist snapshot to slot")
	}
}

func emptySnapshot() models.Snapshot {
	return models.Snapshot{
		Clientes:      []models.Client{},
		Obras:         []models.Work{},
		Operarios:     []models.Worker{},
		Proveedores:   []models.Supplier{},
		PartesDiarios: []models.DailyReport{},
		PagosAcuenta:  []models.AdvancePayment{},
		PagosPB:       []models.OverheadExpense{},
	}
}

func normalize(snap *models.Snapshot) {
	if snap.Clientes == nil {
		snap.Clientes = []models.Client{}
	}
	if snap.Obras == nil {
		snap.Obras = []models.Work{}
	}
	if snap.Operarios == nil {
		snap.Operarios = []models.Worker{}
	}
	if snap.Proveedores == nil {
		snap.Proveedores = []models.Supplier{}
	}
	if snap.PartesDiarios == nil {
		snap.PartesDiarios = []models.DailyReport{}
	}
	if snap.PagosAcuenta == nil {
		snap.PagosAcuenta = []models.AdvancePayment{}
	}
	if snap.PagosPB == nil {
		snap.PagosPB = []models.OverheadExpense{}
	}
	for i := range snap.Obras {
		if snap.Obras[i].ID == "" {
			snap.Obras[i].ID = uuid.NewString()
		}
	}
	for i := range snap.PartesDiarios {
		p := &snap.PartesDiarios[i]
		if p.Fotos == nil {
			p.Fotos = []string{}
		}
		if !p.Liquidado {
			// Invariant: settlement date present iff settled.
			p.FechaLiquidacion = ""
		}
	}
}

// recomputeCounter derives the next work number from the highest numeric
// suffix present, so that numbers stay strictly increasing across restores.
func recomputeCounter(obras []models.Work) int {
	next := 1
	for _, o := range obras {
		n, err := strconv.Atoi(strings.TrimPrefix(o.Numero, "OBR-"))
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next
}
