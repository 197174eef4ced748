package services

import (
	"sort"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
	"github.com/gestionobras/backend/internal/validation"
)

// AggregateService builds the read-side views: per-work summaries, payment
// totals and the merged payment listing. It never mutates the store.
type AggregateService struct {
	store *store.Store
}

func NewAggregateService(s *store.Store) *AggregateService {
	return &AggregateService{store: s}
}

// DateDetail is one calendar date of a work, with that day's reports and
// their totals.
type DateDetail struct {
	Fecha       string               `json:"fecha"`
	TotalHoras  float64              `json:"totalHoras"`
	TotalGastos float64              `json:"totalGastos"`
	Partes      []models.DailyReport `json:"partes"`
}

// WorkSummary aggregates every report of a work by date. TotalGeneral
// equals TotalGastos: hours carry no monetary rate here, so the grand total
// is the expense total.
type WorkSummary struct {
	Obra         models.Work  `json:"obra"`
	PorFecha     []DateDetail `json:"porFecha"`
	TotalHoras   float64      `json:"totalHoras"`
	TotalGastos  float64      `json:"totalGastos"`
	TotalGeneral float64      `json:"totalGeneral"`
}

// WorkSummary returns the work's activity grouped by date, oldest first.
func (s *AggregateService) WorkSummary(obraID string) (WorkSummary, error) {
	var sum WorkSummary
	byDate := map[string]*DateDetail{}
	found := false
	s.store.View(func(tx *store.Tx) {
		for _, o := range tx.Data.Obras {
			if o.ID == obraID {
				sum.Obra = o
				found = true
				break
			}
		}
		if !found {
			return
		}
		for _, p := range tx.Data.PartesDiarios {
			if p.ObraID != obraID {
				continue
			}
			d, ok := byDate[p.Fecha]
			if !ok {
				d = &DateDetail{Fecha: p.Fecha}
				byDate[p.Fecha] = d
			}
			d.TotalHoras += p.Horas
			d.TotalGastos += p.Gasto
			d.Partes = append(d.Partes, p)
			sum.TotalHoras += p.Horas
			sum.TotalGastos += p.Gasto
		}
	})
	if !found {
		return WorkSummary{}, ErrNotFound
	}
	sum.PorFecha = make([]DateDetail, 0, len(byDate))
	for _, d := range byDate {
		sum.PorFecha = append(sum.PorFecha, *d)
	}
	sort.Slice(sum.PorFecha, func(i, j int) bool { return sum.PorFecha[i].Fecha < sum.PorFecha[j].Fecha })
	sum.TotalGeneral = sum.TotalGastos
	return sum, nil
}

// PaymentTotals is the pair of ledger totals shown side by side. The
// advance total spans the whole ledger; only the overhead total honours the
// date range. That asymmetry matches how the totals have always been
// computed and is kept deliberately.
type PaymentTotals struct {
	TotalAcuenta float64 `json:"totalAcuenta"`
	TotalPB      float64 `json:"totalPB"`
	Total        float64 `json:"total"`
}

func (s *AggregateService) PaymentTotals(desde, hasta string) (PaymentTotals, error) {
	v := validation.Violations{}
	validation.OptionalDate("desde", desde, v)
	validation.OptionalDate("hasta", hasta, v)
	if !v.Empty() {
		return PaymentTotals{}, invalid(v)
	}
	var t PaymentTotals
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PagosAcuenta {
			t.TotalAcuenta += p.Monto
		}
		for _, g := range tx.Data.PagosPB {
			if desde != "" && g.Fecha < desde {
				continue
			}
			if hasta != "" && g.Fecha > hasta {
				continue
			}
			t.TotalPB += g.Precio
		}
	})
	t.Total = t.TotalAcuenta + t.TotalPB
	return t, nil
}

// AdvancePayments lists the payments recorded against one work, newest
// first.
func (s *AggregateService) AdvancePayments(obraID string) []models.AdvancePayment {
	out := []models.AdvancePayment{}
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PagosAcuenta {
			if obraID == "" || p.ObraID == obraID {
				out = append(out, p)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha > out[j].Fecha })
	return out
}

// OverheadExpenses lists the general expenses within the inclusive date
// range, newest first, with their total.
func (s *AggregateService) OverheadExpenses(desde, hasta string) ([]models.OverheadExpense, float64, error) {
	v := validation.Violations{}
	validation.OptionalDate("desde", desde, v)
	validation.OptionalDate("hasta", hasta, v)
	if !v.Empty() {
		return nil, 0, invalid(v)
	}
	out := []models.OverheadExpense{}
	total := 0.0
	s.store.View(func(tx *store.Tx) {
		for _, g := range tx.Data.PagosPB {
			if desde != "" && g.Fecha < desde {
				continue
			}
			if hasta != "" && g.Fecha > hasta {
				continue
			}
			out = append(out, g)
			total += g.Precio
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha > out[j].Fecha })
	return out, total, nil
}

// PaymentEntry is one row of the merged payment listing, tagged by ledger.
type PaymentEntry struct {
	ID       string  `json:"id"`
	Tipo     string  `json:"tipo"`
	Fecha    string  `json:"fecha"`
	Concepto string  `json:"concepto"`
	ObraID   string  `json:"obraId,omitempty"`
	Importe  float64 `json:"importe"`
}

// AllPayments merges both ledgers into one listing, newest first.
func (s *AggregateService) AllPayments() []PaymentEntry {
	out := []PaymentEntry{}
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PagosAcuenta {
			out = append(out, PaymentEntry{
				ID:       p.ID,
				Tipo:     "A Cuenta",
				Fecha:    p.Fecha,
				Concepto: p.Documento,
				ObraID:   p.ObraID,
				Importe:  p.Monto,
			})
		}
		for _, g := range tx.Data.PagosPB {
			out = append(out, PaymentEntry{
				ID:       g.ID,
				Tipo:     "Gasto PB",
				Fecha:    g.Fecha,
				Concepto: g.Concepto,
				Importe:  g.Precio,
			})
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha > out[j].Fecha })
	return out
}
