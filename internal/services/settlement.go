package services

import (
	"sort"
	"strings"
	"time"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
	"github.com/gestionobras/backend/internal/validation"
)

// SettlementService settles a worker's pending daily reports and rebuilds
// the settlement history from the report collection itself. There is no
// separate settlement table: a settlement batch is whatever shares a worker
// and a settlement date.
type SettlementService struct {
	store *store.Store
	now   func() time.Time
}

func NewSettlementService(s *store.Store) *SettlementService {
	return &SettlementService{store: s, now: time.Now}
}

// PendingGroup is one unsettled calendar date of one worker, with the
// totals across all of that day's reports.
type PendingGroup struct {
	Fecha       string   `json:"fecha"`
	TotalHoras  float64  `json:"totalHoras"`
	TotalGastos float64  `json:"totalGastos"`
	ParteIDs    []string `json:"parteIds"`
}

// PendingGroups returns the worker's unsettled dates, oldest first.
func (s *SettlementService) PendingGroups(operarioID string) []PendingGroup {
	byDate := map[string]*PendingGroup{}
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PartesDiarios {
			if p.OperarioID != operarioID || p.Liquidado {
				continue
			}
			g, ok := byDate[p.Fecha]
			if !ok {
				g = &PendingGroup{Fecha: p.Fecha}
				byDate[p.Fecha] = g
			}
			g.TotalHoras += p.Horas
			g.TotalGastos += p.Gasto
			g.ParteIDs = append(g.ParteIDs, p.ID)
		}
	})
	out := make([]PendingGroup, 0, len(byDate))
	for _, g := range byDate {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}

// SettleResult reports what a settlement actually did. PartesLiquidadas can
// be lower than the selection implied when some reports were settled or
// removed in the meantime; those are skipped silently.
type SettleResult struct {
	FechaLiquidacion string   `json:"fechaLiquidacion"`
	DiasLiquidados   int      `json:"diasLiquidados"`
	PartesLiquidadas int      `json:"partesLiquidadas"`
	Fechas           []string `json:"fechas"`
}

// Settle marks every still-pending report of the worker on the selected
// dates as settled, stamping today's date and the shared note on each.
func (s *SettlementService) Settle(operarioID string, fechas []string, nota string) (SettleResult, error) {
	v := validation.Violations{}
	validation.Required("operarioId", operarioID, v)
	if len(fechas) == 0 {
		v["fechas"] = "required"
	}
	for _, f := range fechas {
		validation.Date("fechas", f, v)
	}
	if !v.Empty() {
		return SettleResult{}, invalid(v)
	}
	selected := map[string]bool{}
	for _, f := range fechas {
		selected[f] = true
	}
	res := SettleResult{
		FechaLiquidacion: s.now().Format("2006-01-02"),
		DiasLiquidados:   len(selected),
		Fechas:           fechas,
	}
	nota = strings.TrimSpace(nota)
	err := s.store.Update(func(tx *store.Tx) error {
		if !workerExists(tx.Data, operarioID) {
			return ErrNotFound
		}
		for i := range tx.Data.PartesDiarios {
			p := &tx.Data.PartesDiarios[i]
			if p.OperarioID != operarioID || p.Liquidado || !selected[p.Fecha] {
				continue
			}
			p.Liquidado = true
			p.NotaLiquidacion = nota
			p.FechaLiquidacion = res.FechaLiquidacion
			res.PartesLiquidadas++
		}
		return nil
	})
	return res, err
}

// BatchDay is one worked date inside a settlement batch.
type BatchDay struct {
	Fecha       string  `json:"fecha"`
	TotalHoras  float64 `json:"totalHoras"`
	TotalGastos float64 `json:"totalGastos"`
}

// Batch is a reconstructed settlement: every report of one worker settled
// on the same date. NumDias counts distinct worked dates, not reports.
type Batch struct {
	OperarioID       string               `json:"operarioId"`
	FechaLiquidacion string               `json:"fechaLiquidacion"`
	NotaLiquidacion  string               `json:"notaLiquidacion"`
	Dias             []BatchDay           `json:"dias"`
	NumDias          int                  `json:"numDias"`
	TotalHoras       float64              `json:"totalHoras"`
	TotalGastos      float64              `json:"totalGastos"`
	Partes           []models.DailyReport `json:"partes"`
}

type batchKey struct {
	operarioID       string
	fechaLiquidacion string
}

// HistoricalBatches rebuilds the settlement history, most recent settlement
// first. An empty operarioID spans every worker; desde/hasta bound the
// settlement date inclusively, an empty bound is open.
func (s *SettlementService) HistoricalBatches(operarioID, desde, hasta string) ([]Batch, error) {
	v := validation.Violations{}
	validation.OptionalDate("desde", desde, v)
	validation.OptionalDate("hasta", hasta, v)
	if !v.Empty() {
		return nil, invalid(v)
	}
	byKey := map[batchKey]*Batch{}
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PartesDiarios {
			if !p.Liquidado || (operarioID != "" && p.OperarioID != operarioID) {
				continue
			}
			// A settled report without a settlement date is corrupt data;
			// it belongs to no batch.
			if p.FechaLiquidacion == "" {
				continue
			}
			if desde != "" && p.FechaLiquidacion < desde {
				continue
			}
			if hasta != "" && p.FechaLiquidacion > hasta {
				continue
			}
			key := batchKey{operarioID: p.OperarioID, fechaLiquidacion: p.FechaLiquidacion}
			b, ok := byKey[key]
			if !ok {
				b = &Batch{
					OperarioID:       p.OperarioID,
					FechaLiquidacion: p.FechaLiquidacion,
					NotaLiquidacion:  p.NotaLiquidacion,
				}
				byKey[key] = b
			}
			b.TotalHoras += p.Horas
			b.TotalGastos += p.Gasto
			b.Partes = append(b.Partes, p)
		}
	})
	out := make([]Batch, 0, len(byKey))
	for _, b := range byKey {
		days := map[string]*BatchDay{}
		for _, p := range b.Partes {
			d, ok := days[p.Fecha]
			if !ok {
				d = &BatchDay{Fecha: p.Fecha}
				days[p.Fecha] = d
			}
			d.TotalHoras += p.Horas
			d.TotalGastos += p.Gasto
		}
		for _, d := range days {
			b.Dias = append(b.Dias, *d)
		}
		sort.Slice(b.Dias, func(i, j int) bool { return b.Dias[i].Fecha < b.Dias[j].Fecha })
		b.NumDias = len(b.Dias)
		sort.SliceStable(b.Partes, func(i, j int) bool { return b.Partes[i].Fecha < b.Partes[j].Fecha })
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FechaLiquidacion != out[j].FechaLiquidacion {
			return out[i].FechaLiquidacion > out[j].FechaLiquidacion
		}
		return out[i].OperarioID < out[j].OperarioID
	})
	return out, nil
}

// SettledWorkerIDs lists the workers that have at least one settled report,
// for populating the history selector.
func (s *SettlementService) SettledWorkerIDs() []string {
	seen := map[string]bool{}
	out := []string{}
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PartesDiarios {
			if p.Liquidado && !seen[p.OperarioID] {
				seen[p.OperarioID] = true
				out = append(out, p.OperarioID)
			}
		}
	})
	sort.Strings(out)
	return out
}
