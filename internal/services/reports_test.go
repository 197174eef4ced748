package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/gestionobras/backend/internal/attachments"
	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
)

// pngUpload builds a small valid upload payload.
func pngUpload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func seedReportRefs(t *testing.T, st *store.Store) {
	seed(t, st, func(d *models.Snapshot) {
		d.Obras = append(d.Obras, models.Work{ID: "o1", ClienteID: "c1", Nombre: "Obra", Numero: "OBR-001"})
		d.Operarios = append(d.Operarios, models.Worker{ID: "w1", Nombre: "Luis"})
		d.Proveedores = append(d.Proveedores, models.Supplier{ID: "s1", Nombre: "Ferretería"})
	})
}

func TestCreateReport(t *testing.T) {
	st := newTestStore(t)
	seedReportRefs(t, st)
	svc := NewReportService(st)

	p, err := svc.Create(ReportInput{
		Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1", Horas: 8,
		Descripcion: "Encofrado planta baja",
		Fotos:       []string{pngUpload(t)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.Liquidado || p.FechaLiquidacion != "" {
		t.Errorf("created report = %+v", p)
	}
	if len(p.Fotos) != 1 || !strings.HasPrefix(p.Fotos[0], "data:image/jpeg;base64,") {
		t.Errorf("foto not re-encoded: %v", p.Fotos)
	}
}

func TestCreateReportExpenseRequiresSupplier(t *testing.T) {
	st := newTestStore(t)
	seedReportRefs(t, st)
	svc := NewReportService(st)

	_, err := svc.Create(ReportInput{Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1", Horas: 8, Descripcion: "Material", Gasto: 30})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("create = %v, want ValidationError", err)
	}
	if _, ok := verr.Violations["proveedorId"]; !ok {
		t.Errorf("violations = %v", verr.Violations)
	}
}

func TestCreateReportUnknownReferences(t *testing.T) {
	st := newTestStore(t)
	seedReportRefs(t, st)
	svc := NewReportService(st)

	_, err := svc.Create(ReportInput{Fecha: "2025-07-01", ObraID: "ghost", OperarioID: "nadie", Horas: 8, Descripcion: "Trabajo"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("create = %v, want ValidationError", err)
	}
	for _, field := range []string{"obraId", "operarioId"} {
		if _, ok := verr.Violations[field]; !ok {
			t.Errorf("missing violation for %s: %v", field, verr.Violations)
		}
	}
}

func TestOversizeAttachmentAbortsWholeReport(t *testing.T) {
	st := newTestStore(t)
	seedReportRefs(t, st)
	svc := NewReportService(st)

	big := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, attachments.MaxSize+1))
	_, err := svc.Create(ReportInput{
		Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1", Horas: 8,
		Descripcion: "Solado",
		Fotos:       []string{big},
	})
	if !errors.Is(err, attachments.ErrTooLarge) {
		t.Fatalf("create = %v, want ErrTooLarge", err)
	}
	if got := svc.List("", "", ""); len(got) != 0 {
		t.Errorf("rejected report was stored: %v", got)
	}
}

func TestUpdateReportPreservesSettlementFields(t *testing.T) {
	st := newTestStore(t)
	seedReportRefs(t, st)
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios, models.DailyReport{
			ID: "p1", Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1", Horas: 8,
			Fotos:     []string{"data:image/jpeg;base64,previa"},
			Liquidado: true, NotaLiquidacion: "pagado en julio", FechaLiquidacion: "2025-07-15",
		})
	})
	svc := NewReportService(st)

	upd, err := svc.Update("p1", ReportInput{Fecha: "2025-07-02", ObraID: "o1", OperarioID: "w1", Horas: 6, Descripcion: "Alicatado"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !upd.Liquidado || upd.NotaLiquidacion != "pagado en julio" || upd.FechaLiquidacion != "2025-07-15" {
		t.Errorf("settlement fields lost: %+v", upd)
	}
	if upd.Fecha != "2025-07-02" || upd.Horas != 6 {
		t.Errorf("editable fields not applied: %+v", upd)
	}
	// No new upload: the stored photo stays.
	if len(upd.Fotos) != 1 || upd.Fotos[0] != "data:image/jpeg;base64,previa" {
		t.Errorf("stored photos replaced without new upload: %v", upd.Fotos)
	}
}

func TestUpdateReportReplacesPhotosOnlyWhenUploaded(t *testing.T) {
	st := newTestStore(t)
	seedReportRefs(t, st)
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios, models.DailyReport{
			ID: "p1", Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1", Horas: 8,
			Fotos: []string{"data:image/jpeg;base64,previa"},
		})
	})
	svc := NewReportService(st)

	upd, err := svc.Update("p1", ReportInput{
		Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1", Horas: 8,
		Descripcion: "Pintura",
		Fotos:       []string{pngUpload(t)},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(upd.Fotos) != 1 || upd.Fotos[0] == "data:image/jpeg;base64,previa" {
		t.Errorf("new upload did not replace stored photos: %v", upd.Fotos)
	}
}

func TestDeleteReportUnconditional(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios, models.DailyReport{
			ID: "p1", Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1",
			Liquidado: true, FechaLiquidacion: "2025-07-15",
		})
	})
	svc := NewReportService(st)
	if err := svc.Delete("p1"); err != nil {
		t.Fatalf("delete settled report: %v", err)
	}
	if err := svc.Delete("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestListReportsFiltersAndOrder(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, func(d *models.Snapshot) {
		d.PartesDiarios = append(d.PartesDiarios,
			models.DailyReport{ID: "p1", Fecha: "2025-07-01", ObraID: "o1", OperarioID: "w1"},
			models.DailyReport{ID: "p2", Fecha: "2025-07-03", ObraID: "o1", OperarioID: "w2"},
			models.DailyReport{ID: "p3", Fecha: "2025-07-02", ObraID: "o2", OperarioID: "w1"},
		)
	})
	svc := NewReportService(st)

	all := svc.List("", "", "")
	if len(all) != 3 || all[0].ID != "p2" || all[2].ID != "p1" {
		t.Errorf("unfiltered order = %v", ids(all))
	}
	byWork := svc.List("o1", "", "")
	if len(byWork) != 2 {
		t.Errorf("obra filter = %v", ids(byWork))
	}
	combined := svc.List("o1", "2025-07-01", "w1")
	if len(combined) != 1 || combined[0].ID != "p1" {
		t.Errorf("combined filter = %v", ids(combined))
	}
}

func ids(ps []models.DailyReport) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
