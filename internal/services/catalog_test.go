package services

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(nil, zerolog.Nop())
}

func seed(t *testing.T, st *store.Store, fn func(d *models.Snapshot)) {
	t.Helper()
	if err := st.Update(func(tx *store.Tx) error {
		fn(tx.Data)
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestCreateWorkAllocatesSequentialNumbers(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	c, err := svc.CreateClient(ClientInput{Nombre: "Construcciones Ruiz"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	first, err := svc.CreateWork(WorkInput{ClienteID: c.ID, Nombre: "Nave industrial"})
	if err != nil {
		t.Fatalf("create work: %v", err)
	}
	second, err := svc.CreateWork(WorkInput{ClienteID: c.ID, Nombre: "Reforma oficina"})
	if err != nil {
		t.Fatalf("create work: %v", err)
	}
	if first.Numero != "OBR-001" || second.Numero != "OBR-002" {
		t.Errorf("numbers = %q, %q", first.Numero, second.Numero)
	}
	if first.FechaCreacion.IsZero() {
		t.Error("creation date not stamped")
	}
}

func TestWorkNumbersNeverReused(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	c, _ := svc.CreateClient(ClientInput{Nombre: "Cliente"})
	w1, _ := svc.CreateWork(WorkInput{ClienteID: c.ID, Nombre: "Primera"})
	if err := svc.DeleteWork(w1.ID); err != nil {
		t.Fatalf("delete work: %v", err)
	}
	w2, err := svc.CreateWork(WorkInput{ClienteID: c.ID, Nombre: "Segunda"})
	if err != nil {
		t.Fatalf("create work: %v", err)
	}
	if w2.Numero != "OBR-002" {
		t.Errorf("number reused: got %q, want OBR-002", w2.Numero)
	}
}

func TestUpdateWorkKeepsNumberAndCreationDate(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	c, _ := svc.CreateClient(ClientInput{Nombre: "Cliente"})
	w, _ := svc.CreateWork(WorkInput{ClienteID: c.ID, Nombre: "Original", PresupuestoTotal: 1000})
	upd, err := svc.UpdateWork(w.ID, WorkInput{ClienteID: c.ID, Nombre: "Renombrada", PresupuestoTotal: 2500})
	if err != nil {
		t.Fatalf("update work: %v", err)
	}
	if upd.Numero != w.Numero {
		t.Errorf("numero changed on update: %q -> %q", w.Numero, upd.Numero)
	}
	if !upd.FechaCreacion.Equal(w.FechaCreacion) {
		t.Error("creation date changed on update")
	}
	if upd.Nombre != "Renombrada" || upd.PresupuestoTotal != 2500 {
		t.Errorf("editable fields not applied: %+v", upd)
	}
}

func TestDeleteClientBlockedWhileWorksExist(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	c, _ := svc.CreateClient(ClientInput{Nombre: "Cliente"})
	w, _ := svc.CreateWork(WorkInput{ClienteID: c.ID, Nombre: "Obra"})

	err := svc.DeleteClient(c.ID)
	var ierr *IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("delete = %v, want IntegrityError", err)
	}
	if len(svc.Clients()) != 1 {
		t.Fatal("blocked delete mutated the store")
	}

	if err := svc.DeleteWork(w.ID); err != nil {
		t.Fatalf("delete work: %v", err)
	}
	if err := svc.DeleteClient(c.ID); err != nil {
		t.Fatalf("delete after works removed: %v", err)
	}
	if len(svc.Clients()) != 0 {
		t.Error("client not removed")
	}
}

func TestDeleteWorkerBlockedByReports(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	op, _ := svc.CreateWorker(WorkerInput{Nombre: "Luis"})
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios, models.DailyReport{ID: "p1", Fecha: "2025-05-01", ObraID: "o1", OperarioID: op.ID, Horas: 8})
	})
	err := svc.DeleteWorker(op.ID)
	var ierr *IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("delete = %v, want IntegrityError", err)
	}
}

// A worker referenced only as the payer of an expense stays deletable.
func TestPayingWorkerReferenceDoesNotBlockDelete(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	payer, _ := svc.CreateWorker(WorkerInput{Nombre: "Marta"})
	other, _ := svc.CreateWorker(WorkerInput{Nombre: "Luis"})
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios, models.DailyReport{
			ID: "p1", Fecha: "2025-05-01", ObraID: "o1",
			OperarioID: other.ID, Horas: 8,
			ProveedorID: "s1", Gasto: 40, OperarioPagaID: payer.ID,
		})
	})
	if err := svc.DeleteWorker(payer.ID); err != nil {
		t.Fatalf("delete paying worker: %v", err)
	}
}

func TestDeleteSupplierBlockedByReports(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	sup, _ := svc.CreateSupplier(SupplierInput{Nombre: "Ferretería Sol"})
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios, models.DailyReport{ID: "p1", Fecha: "2025-05-01", ObraID: "o1", OperarioID: "w1", ProveedorID: sup.ID, Gasto: 20})
	})
	var ierr *IntegrityError
	if err := svc.DeleteSupplier(sup.ID); !errors.As(err, &ierr) {
		t.Fatalf("delete = %v, want IntegrityError", err)
	}
}

func TestCatalogNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	if err := svc.DeleteClient("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete client = %v, want ErrNotFound", err)
	}
	if _, err := svc.UpdateWorker("missing", WorkerInput{Nombre: "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update worker = %v, want ErrNotFound", err)
	}
}

func TestListsSortedByName(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	for _, n := range []string{"Zúñiga", "alvarez", "Benito"} {
		if _, err := svc.CreateWorker(WorkerInput{Nombre: n}); err != nil {
			t.Fatalf("create worker %s: %v", n, err)
		}
	}
	got := svc.Workers()
	want := []string{"alvarez", "Benito", "Zúñiga"}
	for i, w := range got {
		if w.Nombre != want[i] {
			t.Fatalf("order[%d] = %q, want %q", i, w.Nombre, want[i])
		}
	}
}

func TestCreateWorkRequiresExistingClient(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st)
	_, err := svc.CreateWork(WorkInput{ClienteID: "ghost", Nombre: "Obra"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("create = %v, want ValidationError", err)
	}
	if _, ok := verr.Violations["clienteId"]; !ok {
		t.Errorf("violations = %v, want clienteId", verr.Violations)
	}
}
