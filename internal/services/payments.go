package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
	"github.com/gestionobras/backend/internal/validation"
)

// PaymentService writes the two money ledgers: advance payments against a
// work's budget and general overhead expenses.
type PaymentService struct {
	store *store.Store
}

func NewPaymentService(s *store.Store) *PaymentService {
	return &PaymentService{store: s}
}

type AdvanceInput struct {
	ObraID    string  `json:"obraId"`
	Fecha     string  `json:"fecha"`
	Monto     float64 `json:"monto"`
	Documento string  `json:"documento"`
}

func (s *PaymentService) CreateAdvance(in AdvanceInput) (models.AdvancePayment, error) {
	v := validation.Violations{}
	validation.Required("obraId", in.ObraID, v)
	validation.Date("fecha", in.Fecha, v)
	validation.PositiveFloat("monto", in.Monto, v)
	if !v.Empty() {
		return models.AdvancePayment{}, invalid(v)
	}
	var created models.AdvancePayment
	err := s.store.Update(func(tx *store.Tx) error {
		if !workExists(tx.Data, in.ObraID) {
			v["obraId"] = "unknown_work"
			return invalid(v)
		}
		created = models.AdvancePayment{
			ID:        uuid.NewString(),
			ObraID:    in.ObraID,
			Fecha:     in.Fecha,
			Monto:     in.Monto,
			Documento: strings.TrimSpace(in.Documento),
		}
		tx.Data.PagosAcuenta = append(tx.Data.PagosAcuenta, created)
		return nil
	})
	return created, err
}

func (s *PaymentService) DeleteAdvance(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		pagos := tx.Data.PagosAcuenta[:0]
		found := false
		for _, p := range tx.Data.PagosAcuenta {
			if p.ID == id {
				found = true
				continue
			}
			pagos = append(pagos, p)
		}
		if !found {
			return ErrNotFound
		}
		tx.Data.PagosAcuenta = pagos
		return nil
	})
}

type OverheadInput struct {
	Fecha    string  `json:"fecha"`
	Concepto string  `json:"concepto"`
	Precio   float64 `json:"precio"`
}

func (s *PaymentService) CreateOverhead(in OverheadInput) (models.OverheadExpense, error) {
	v := validation.Violations{}
	validation.Date("fecha", in.Fecha, v)
	validation.Required("concepto", in.Concepto, v)
	validation.PositiveFloat("precio", in.Precio, v)
	if !v.Empty() {
		return models.OverheadExpense{}, invalid(v)
	}
	created := models.OverheadExpense{
		ID:       uuid.NewString(),
		Fecha:    in.Fecha,
		Concepto: strings.TrimSpace(in.Concepto),
		Precio:   in.Precio,
	}
	err := s.store.Update(func(tx *store.Tx) error {
		tx.Data.PagosPB = append(tx.Data.PagosPB, created)
		return nil
	})
	return created, err
}

func (s *PaymentService) DeleteOverhead(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		gastos := tx.Data.PagosPB[:0]
		found := false
		for _, g := range tx.Data.PagosPB {
			if g.ID == id {
				found = true
				continue
			}
			gastos = append(gastos, g)
		}
		if !found {
			return ErrNotFound
		}
		tx.Data.PagosPB = gastos
		return nil
	})
}
