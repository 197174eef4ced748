package services

import (
	"errors"
	"testing"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
)

func seedAggregates(t *testing.T, st *store.Store) {
	seed(t, st, func(d *models.Snapshot) {
		d.Obras = append(d.Obras, models.Work{ID: "o1", ClienteID: "c1", Nombre: "Reforma", Numero: "OBR-001", PresupuestoTotal: 5000})
		d.PartesDiarios = append(d.PartesDiarios,
			models.DailyReport{ID: "p1", Fecha: "2025-08-02", ObraID: "o1", OperarioID: "w1", Horas: 8, ProveedorID: "s1", Gasto: 70},
			models.DailyReport{ID: "p2", Fecha: "2025-08-01", ObraID: "o1", OperarioID: "w2", Horas: 4, ProveedorID: "s1", Gasto: 30},
			models.DailyReport{ID: "p3", Fecha: "2025-08-01", ObraID: "otra", OperarioID: "w1", Horas: 6, Gasto: 999},
		)
	})
}

func TestWorkSummary(t *testing.T) {
	st := newTestStore(t)
	seedAggregates(t, st)
	svc := NewAggregateService(st)

	sum, err := svc.WorkSummary("o1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalHoras != 12 || sum.TotalGastos != 100 {
		t.Errorf("totals = %v h, %v €", sum.TotalHoras, sum.TotalGastos)
	}
	// The grand total is the expense total; hours carry no rate.
	if sum.TotalGeneral != sum.TotalGastos {
		t.Errorf("totalGeneral = %v, want %v", sum.TotalGeneral, sum.TotalGastos)
	}
	if len(sum.PorFecha) != 2 || sum.PorFecha[0].Fecha != "2025-08-01" {
		t.Errorf("porFecha = %+v", sum.PorFecha)
	}
	if sum.PorFecha[0].TotalGastos != 30 || sum.PorFecha[1].TotalGastos != 70 {
		t.Errorf("per-date gastos = %v, %v", sum.PorFecha[0].TotalGastos, sum.PorFecha[1].TotalGastos)
	}
}

func TestWorkSummaryUnknownWork(t *testing.T) {
	svc := NewAggregateService(newTestStore(t))
	if _, err := svc.WorkSummary("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("summary = %v, want ErrNotFound", err)
	}
}

func seedLedgers(t *testing.T, st *store.Store) {
	seed(t, st, func(d *models.Snapshot) {
		d.PagosAcuenta = append(d.PagosAcuenta,
			models.AdvancePayment{ID: "a1", ObraID: "o1", Fecha: "2025-01-10", Monto: 1000, Documento: "transferencia"},
			models.AdvancePayment{ID: "a2", ObraID: "o1", Fecha: "2025-08-10", Monto: 500, Documento: "efectivo"},
		)
		d.PagosPB = append(d.PagosPB,
			models.OverheadExpense{ID: "g1", Fecha: "2025-01-15", Concepto: "Seguro", Precio: 200},
			models.OverheadExpense{ID: "g2", Fecha: "2025-08-15", Concepto: "Gasoil", Precio: 80},
		)
	})
}

// The advance total spans the whole ledger regardless of the date range;
// only the overhead total is filtered.
func TestPaymentTotalsRangeAsymmetry(t *testing.T) {
	st := newTestStore(t)
	seedLedgers(t, st)
	svc := NewAggregateService(st)

	tot, err := svc.PaymentTotals("2025-08-01", "2025-08-31")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if tot.TotalAcuenta != 1500 {
		t.Errorf("totalAcuenta = %v, want 1500 (unfiltered)", tot.TotalAcuenta)
	}
	if tot.TotalPB != 80 {
		t.Errorf("totalPB = %v, want 80 (filtered)", tot.TotalPB)
	}
	if tot.Total != 1580 {
		t.Errorf("total = %v, want 1580", tot.Total)
	}
}

func TestOverheadExpensesRangeInclusive(t *testing.T) {
	st := newTestStore(t)
	seedLedgers(t, st)
	svc := NewAggregateService(st)

	items, total, err := svc.OverheadExpenses("2025-01-15", "2025-01-15")
	if err != nil {
		t.Fatalf("expenses: %v", err)
	}
	if len(items) != 1 || items[0].ID != "g1" || total != 200 {
		t.Errorf("items = %v, total = %v", items, total)
	}
}

func TestAdvancePaymentsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	seedLedgers(t, st)
	svc := NewAggregateService(st)

	got := svc.AdvancePayments("o1")
	if len(got) != 2 || got[0].ID != "a2" {
		t.Errorf("advances = %+v", got)
	}
}

func TestAllPaymentsMergedNewestFirst(t *testing.T) {
	st := newTestStore(t)
	seedLedgers(t, st)
	svc := NewAggregateService(st)

	got := svc.AllPayments()
	if len(got) != 4 {
		t.Fatalf("entries = %d, want 4", len(got))
	}
	if got[0].Fecha != "2025-08-15" || got[0].Tipo != "Gasto PB" {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[3].Fecha != "2025-01-10" || got[3].Tipo != "A Cuenta" {
		t.Errorf("last entry = %+v", got[3])
	}
}

func TestExpenseIndependentOfSettlement(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, func(d *models.Snapshot) {
		d.Obras = append(d.Obras, models.Work{ID: "o1", Numero: "OBR-001"})
		d.PartesDiarios = append(d.PartesDiarios,
			models.DailyReport{ID: "p1", Fecha: "2025-08-01", ObraID: "o1", OperarioID: "w1", Gasto: 30, Liquidado: true, FechaLiquidacion: "2025-08-05"},
			models.DailyReport{ID: "p2", Fecha: "2025-08-02", ObraID: "o1", OperarioID: "w1", Gasto: 70},
		)
	})
	sum, err := NewAggregateService(st).WorkSummary("o1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalGastos != 100 {
		t.Errorf("settled and pending expenses must both count: %v", sum.TotalGastos)
	}
}
