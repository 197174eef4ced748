package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gestionobras/backend/internal/attachments"
	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
	"github.com/gestionobras/backend/internal/validation"
)

// ReportService manages daily work reports: one worker's hours on one work
// for one date, optionally carrying a supplier expense with its receipt.
type ReportService struct {
	store   *store.Store
	encoder attachments.Encoder
}

func NewReportService(s *store.Store) *ReportService {
	return &ReportService{store: s}
}

// ReportInput is the submitted form of a daily report. Fotos and FotoGasto
// carry freshly uploaded payloads (data URLs); on update, an empty slice or
// empty string means "keep what is stored".
type ReportInput struct {
	Fecha          string   `json:"fecha"`
	ObraID         string   `json:"obraId"`
	OperarioID     string   `json:"operarioId"`
	Horas          float64  `json:"horas"`
	Descripcion    string   `json:"descripcion"`
	Fotos          []string `json:"fotos"`
	ProveedorID    string   `json:"proveedorId"`
	Gasto          float64  `json:"gasto"`
	FotoGasto      string   `json:"fotoGasto"`
	DocumentoGasto string   `json:"documentoGasto"`
	OperarioPagaID string   `json:"operarioPagaId"`
}

func (s *ReportService) validate(in ReportInput) validation.Violations {
	v := validation.Violations{}
	validation.Date("fecha", in.Fecha, v)
	validation.Required("obraId", in.ObraID, v)
	validation.Required("operarioId", in.OperarioID, v)
	validation.Required("descripcion", in.Descripcion, v)
	validation.PositiveFloat("horas", in.Horas, v)
	validation.NonNegativeFloat("gasto", in.Gasto, v)
	if in.Gasto > 0 && strings.TrimSpace(in.ProveedorID) == "" {
		v["proveedorId"] = "required_with_expense"
	}
	return v
}

// Create validates and encodes before mutating: a rejected attachment aborts
// the whole report, nothing is stored.
func (s *ReportService) Create(in ReportInput) (models.DailyReport, error) {
	v := s.validate(in)
	if !v.Empty() {
		return models.DailyReport{}, invalid(v)
	}
	var created models.DailyReport
	err := s.store.Update(func(tx *store.Tx) error {
		if err := s.checkReferences(tx.Data, in, v); err != nil {
			return err
		}
		fotos, fotoGasto, err := s.encodeAttachments(in)
		if err != nil {
			return err
		}
		created = models.DailyReport{
			ID:             uuid.NewString(),
			Fecha:          in.Fecha,
			ObraID:         in.ObraID,
			OperarioID:     in.OperarioID,
			Horas:          in.Horas,
			Descripcion:    strings.TrimSpace(in.Descripcion),
			Fotos:          fotos,
			Gasto:          in.Gasto,
			DocumentoGasto: strings.TrimSpace(in.DocumentoGasto),
		}
		if in.Gasto > 0 {
			created.ProveedorID = in.ProveedorID
			created.FotoGasto = fotoGasto
			created.OperarioPagaID = in.OperarioPagaID
		}
		tx.Data.PartesDiarios = append(tx.Data.PartesDiarios, created)
		return nil
	})
	return created, err
}

// Update replaces the editable fields of a report. Settlement fields are
// carried over untouched; attachments are replaced only when new payloads
// are supplied.
func (s *ReportService) Update(id string, in ReportInput) (models.DailyReport, error) {
	v := s.validate(in)
	if !v.Empty() {
		return models.DailyReport{}, invalid(v)
	}
	var updated models.DailyReport
	err := s.store.Update(func(tx *store.Tx) error {
		idx := -1
		for i := range tx.Data.PartesDiarios {
			if tx.Data.PartesDiarios[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}
		if err := s.checkReferences(tx.Data, in, v); err != nil {
			return err
		}
		fotos, fotoGasto, err := s.encodeAttachments(in)
		if err != nil {
			return err
		}
		prev := tx.Data.PartesDiarios[idx]
		updated = models.DailyReport{
			ID:               id,
			Fecha:            in.Fecha,
			ObraID:           in.ObraID,
			OperarioID:       in.OperarioID,
			Horas:            in.Horas,
			Descripcion:      strings.TrimSpace(in.Descripcion),
			Fotos:            prev.Fotos,
			Gasto:            in.Gasto,
			DocumentoGasto:   strings.TrimSpace(in.DocumentoGasto),
			Liquidado:        prev.Liquidado,
			NotaLiquidacion:  prev.NotaLiquidacion,
			FechaLiquidacion: prev.FechaLiquidacion,
		}
		if len(fotos) > 0 {
			updated.Fotos = fotos
		}
		if in.Gasto > 0 {
			updated.ProveedorID = in.ProveedorID
			updated.OperarioPagaID = in.OperarioPagaID
			updated.FotoGasto = prev.FotoGasto
			if fotoGasto != "" {
				updated.FotoGasto = fotoGasto
			}
		}
		tx.Data.PartesDiarios[idx] = updated
		return nil
	})
	return updated, err
}

// Delete removes a report unconditionally, settled or not.
func (s *ReportService) Delete(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		partes := tx.Data.PartesDiarios[:0]
		found := false
		for _, p := range tx.Data.PartesDiarios {
			if p.ID == id {
				found = true
				continue
			}
			partes = append(partes, p)
		}
		if !found {
			return ErrNotFound
		}
		tx.Data.PartesDiarios = partes
		return nil
	})
}

// List returns reports matching every filter given (empty filters match
// all), newest date first.
func (s *ReportService) List(obraID, fecha, operarioID string) []models.DailyReport {
	out := []models.DailyReport{}
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PartesDiarios {
			if obraID != "" && p.ObraID != obraID {
				continue
			}
			if fecha != "" && p.Fecha != fecha {
				continue
			}
			if operarioID != "" && p.OperarioID != operarioID {
				continue
			}
			out = append(out, p)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha > out[j].Fecha })
	return out
}

func (s *ReportService) Get(id string) (models.DailyReport, error) {
	var found models.DailyReport
	err := ErrNotFound
	s.store.View(func(tx *store.Tx) {
		for _, p := range tx.Data.PartesDiarios {
			if p.ID == id {
				found = p
				err = nil
				return
			}
		}
	})
	return found, err
}

func (s *ReportService) checkReferences(d *models.Snapshot, in ReportInput, v validation.Violations) error {
	if !workExists(d, in.ObraID) {
		v["obraId"] = "unknown_work"
	}
	if !workerExists(d, in.OperarioID) {
		v["operarioId"] = "unknown_worker"
	}
	if in.Gasto > 0 && in.ProveedorID != "" && !supplierExists(d, in.ProveedorID) {
		v["proveedorId"] = "unknown_supplier"
	}
	if in.OperarioPagaID != "" && !workerExists(d, in.OperarioPagaID) {
		v["operarioPagaId"] = "unknown_worker"
	}
	if !v.Empty() {
		return invalid(v)
	}
	return nil
}

// encodeAttachments processes every uploaded payload before any of them is
// stored. The expense receipt is only encoded when the report actually
// carries an expense.
func (s *ReportService) encodeAttachments(in ReportInput) ([]string, string, error) {
	fotos := []string{}
	for _, f := range in.Fotos {
		if strings.TrimSpace(f) == "" {
			continue
		}
		enc, err := s.encoder.Encode(f)
		if err != nil {
			return nil, "", err
		}
		fotos = append(fotos, enc)
	}
	fotoGasto := ""
	if in.Gasto > 0 && in.ProveedorID != "" && strings.TrimSpace(in.FotoGasto) != "" {
		enc, err := s.encoder.Encode(in.FotoGasto)
		if err != nil {
			return nil, "", err
		}
		fotoGasto = enc
	}
	return fotos, fotoGasto, nil
}
