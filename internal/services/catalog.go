package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestionobras/backend/internal/models"
	"github.com/gestionobras/backend/internal/store"
	"github.com/gestionobras/backend/internal/validation"
)

// CatalogService owns the four reference collections (clients, works,
// workers, suppliers) and enforces referential integrity on their deletion.
type CatalogService struct {
	store *store.Store
}

func NewCatalogService(s *store.Store) *CatalogService {
	return &CatalogService{store: s}
}

type ClientInput struct {
	Nombre          string `json:"nombre"`
	Direccion       string `json:"direccion"`
	Poblacion       string `json:"poblacion"`
	Provincia       string `json:"provincia"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
}

func (s *CatalogService) CreateClient(in ClientInput) (models.Client, error) {
	v := validation.Violations{}
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Client{}, invalid(v)
	}
	c := models.Client{
		ID:              uuid.NewString(),
		Nombre:          strings.TrimSpace(in.Nombre),
		Direccion:       strings.TrimSpace(in.Direccion),
		Poblacion:       strings.TrimSpace(in.Poblacion),
		Provincia:       strings.TrimSpace(in.Provincia),
		TipoDocumento:   in.TipoDocumento,
		NumeroDocumento: strings.TrimSpace(in.NumeroDocumento),
		Telefono:        strings.TrimSpace(in.Telefono),
		Email:           strings.TrimSpace(in.Email),
	}
	err := s.store.Update(func(tx *store.Tx) error {
		tx.Data.Clientes = append(tx.Data.Clientes, c)
		return nil
	})
	return c, err
}

func (s *CatalogService) UpdateClient(id string, in ClientInput) (models.Client, error) {
	v := validation.Violations{}
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Client{}, invalid(v)
	}
	var updated models.Client
	err := s.store.Update(func(tx *store.Tx) error {
		for i := range tx.Data.Clientes {
			if tx.Data.Clientes[i].ID != id {
				continue
			}
			updated = models.Client{
				ID:              id,
				Nombre:          strings.TrimSpace(in.Nombre),
				Direccion:       strings.TrimSpace(in.Direccion),
				Poblacion:       strings.TrimSpace(in.Poblacion),
				Provincia:       strings.TrimSpace(in.Provincia),
				TipoDocumento:   in.TipoDocumento,
				NumeroDocumento: strings.TrimSpace(in.NumeroDocumento),
				Telefono:        strings.TrimSpace(in.Telefono),
				Email:           strings.TrimSpace(in.Email),
			}
			tx.Data.Clientes[i] = updated
			return nil
		}
		return ErrNotFound
	})
	return updated, err
}

func (s *CatalogService) DeleteClient(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		if !clientExists(tx.Data, id) {
			return ErrNotFound
		}
		if clientHasWorks(tx.Data, id) {
			return &IntegrityError{Entity: "el cliente"}
		}
		tx.Data.Clientes = deleteClientByID(tx.Data.Clientes, id)
		return nil
	})
}

// CanDeleteClient reports whether DeleteClient would pass the integrity
// check, without mutating anything.
func (s *CatalogService) CanDeleteClient(id string) bool {
	ok := false
	s.store.View(func(tx *store.Tx) {
		ok = clientExists(tx.Data, id) && !clientHasWorks(tx.Data, id)
	})
	return ok
}

// Clients returns all clients sorted by name.
func (s *CatalogService) Clients() []models.Client {
	var out []models.Client
	s.store.View(func(tx *store.Tx) {
		out = append(out, tx.Data.Clientes...)
	})
	sortByNombre(out, func(c models.Client) string { return c.Nombre })
	return out
}

type WorkInput struct {
	ClienteID        string  `json:"clienteId"`
	Nombre           string  `json:"nombre"`
	PresupuestoTotal float64 `json:"presupuestoTotal"`
}

// CreateWork assigns the next sequential display number at creation time.
func (s *CatalogService) CreateWork(in WorkInput) (models.Work, error) {
	v := validation.Violations{}
	validation.Required("clienteId", in.ClienteID, v)
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Work{}, invalid(v)
	}
	var created models.Work
	err := s.store.Update(func(tx *store.Tx) error {
		if !clientExists(tx.Data, in.ClienteID) {
			v["clienteId"] = "unknown_client"
			return invalid(v)
		}
		created = models.Work{
			ID:               uuid.NewString(),
			ClienteID:        in.ClienteID,
			Nombre:           strings.TrimSpace(in.Nombre),
			Numero:           tx.NextWorkNumber(),
			FechaCreacion:    time.Now().UTC(),
			PresupuestoTotal: in.PresupuestoTotal,
		}
		tx.Data.Obras = append(tx.Data.Obras, created)
		return nil
	})
	return created, err
}

// UpdateWork keeps the original display number and creation date.
func (s *CatalogService) UpdateWork(id string, in WorkInput) (models.Work, error) {
	v := validation.Violations{}
	validation.Required("clienteId", in.ClienteID, v)
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Work{}, invalid(v)
	}
	var updated models.Work
	err := s.store.Update(func(tx *store.Tx) error {
		if !clientExists(tx.Data, in.ClienteID) {
			v["clienteId"] = "unknown_client"
			return invalid(v)
		}
		for i := range tx.Data.Obras {
			if tx.Data.Obras[i].ID != id {
				continue
			}
			updated = tx.Data.Obras[i]
			updated.ClienteID = in.ClienteID
			updated.Nombre = strings.TrimSpace(in.Nombre)
			updated.PresupuestoTotal = in.PresupuestoTotal
			tx.Data.Obras[i] = updated
			return nil
		}
		return ErrNotFound
	})
	return updated, err
}

func (s *CatalogService) DeleteWork(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		if !workExists(tx.Data, id) {
			return ErrNotFound
		}
		if workHasReports(tx.Data, id) {
			return &IntegrityError{Entity: "la obra"}
		}
		obras := tx.Data.Obras[:0]
		for _, o := range tx.Data.Obras {
			if o.ID != id {
				obras = append(obras, o)
			}
		}
		tx.Data.Obras = obras
		return nil
	})
}

func (s *CatalogService) CanDeleteWork(id string) bool {
	ok := false
	s.store.View(func(tx *store.Tx) {
		ok = workExists(tx.Data, id) && !workHasReports(tx.Data, id)
	})
	return ok
}

func (s *CatalogService) Works() []models.Work {
	var out []models.Work
	s.store.View(func(tx *store.Tx) {
		out = append(out, tx.Data.Obras...)
	})
	sortByNombre(out, func(o models.Work) string { return o.Nombre })
	return out
}

type WorkerInput struct {
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Poblacion string `json:"poblacion"`
	Provincia string `json:"provincia"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
}

func (s *CatalogService) CreateWorker(in WorkerInput) (models.Worker, error) {
	v := validation.Violations{}
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Worker{}, invalid(v)
	}
	op := models.Worker{
		ID:        uuid.NewString(),
		Nombre:    strings.TrimSpace(in.Nombre),
		Direccion: strings.TrimSpace(in.Direccion),
		Poblacion: strings.TrimSpace(in.Poblacion),
		Provincia: strings.TrimSpace(in.Provincia),
		Telefono:  strings.TrimSpace(in.Telefono),
		Email:     strings.TrimSpace(in.Email),
	}
	err := s.store.Update(func(tx *store.Tx) error {
		tx.Data.Operarios = append(tx.Data.Operarios, op)
		return nil
	})
	return op, err
}

func (s *CatalogService) UpdateWorker(id string, in WorkerInput) (models.Worker, error) {
	v := validation.Violations{}
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Worker{}, invalid(v)
	}
	var updated models.Worker
	err := s.store.Update(func(tx *store.Tx) error {
		for i := range tx.Data.Operarios {
			if tx.Data.Operarios[i].ID != id {
				continue
			}
			updated = models.Worker{
				ID:        id,
				Nombre:    strings.TrimSpace(in.Nombre),
				Direccion: strings.TrimSpace(in.Direccion),
				Poblacion: strings.TrimSpace(in.Poblacion),
				Provincia: strings.TrimSpace(in.Provincia),
				Telefono:  strings.TrimSpace(in.Telefono),
				Email:     strings.TrimSpace(in.Email),
			}
			tx.Data.Operarios[i] = updated
			return nil
		}
		return ErrNotFound
	})
	return updated, err
}

func (s *CatalogService) DeleteWorker(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		if !workerExists(tx.Data, id) {
			return ErrNotFound
		}
		if workerHasReports(tx.Data, id) {
			return &IntegrityError{Entity: "el operario"}
		}
		ops := tx.Data.Operarios[:0]
		for _, op := range tx.Data.Operarios {
			if op.ID != id {
				ops = append(ops, op)
			}
		}
		tx.Data.Operarios = ops
		return nil
	})
}

func (s *CatalogService) CanDeleteWorker(id string) bool {
	ok := false
	s.store.View(func(tx *store.Tx) {
		ok = workerExists(tx.Data, id) && !workerHasReports(tx.Data, id)
	})
	return ok
}

func (s *CatalogService) Workers() []models.Worker {
	var out []models.Worker
	s.store.View(func(tx *store.Tx) {
		out = append(out, tx.Data.Operarios...)
	})
	sortByNombre(out, func(o models.Worker) string { return o.Nombre })
	return out
}

type SupplierInput struct {
	Nombre          string `json:"nombre"`
	Direccion       string `json:"direccion"`
	Poblacion       string `json:"poblacion"`
	Provincia       string `json:"provincia"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
}

func (s *CatalogService) CreateSupplier(in SupplierInput) (models.Supplier, error) {
	v := validation.Violations{}
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Supplier{}, invalid(v)
	}
	p := models.Supplier{
		ID:              uuid.NewString(),
		Nombre:          strings.TrimSpace(in.Nombre),
		Direccion:       strings.TrimSpace(in.Direccion),
		Poblacion:       strings.TrimSpace(in.Poblacion),
		Provincia:       strings.TrimSpace(in.Provincia),
		TipoDocumento:   in.TipoDocumento,
		NumeroDocumento: strings.TrimSpace(in.NumeroDocumento),
		Telefono:        strings.TrimSpace(in.Telefono),
		Email:           strings.TrimSpace(in.Email),
	}
	err := s.store.Update(func(tx *store.Tx) error {
		tx.Data.Proveedores = append(tx.Data.Proveedores, p)
		return nil
	})
	return p, err
}

func (s *CatalogService) UpdateSupplier(id string, in SupplierInput) (models.Supplier, error) {
	v := validation.Violations{}
	validation.Required("nombre", in.Nombre, v)
	if !v.Empty() {
		return models.Supplier{}, invalid(v)
	}
	var updated models.Supplier
	err := s.store.Update(func(tx *store.Tx) error {
		for i := range tx.Data.Proveedores {
			if tx.Data.Proveedores[i].ID != id {
				continue
			}
			updated = models.Supplier{
				ID:              id,
				Nombre:          strings.TrimSpace(in.Nombre),
				Direccion:       strings.TrimSpace(in.Direccion),
				Poblacion:       strings.TrimSpace(in.Poblacion),
				Provincia:       strings.TrimSpace(in.Provincia),
				TipoDocumento:   in.TipoDocumento,
				NumeroDocumento: strings.TrimSpace(in.NumeroDocumento),
				Telefono:        strings.TrimSpace(in.Telefono),
				Email:           strings.TrimSpace(in.Email),
			}
			tx.Data.Proveedores[i] = updated
			return nil
		}
		return ErrNotFound
	})
	return updated, err
}

func (s *CatalogService) DeleteSupplier(id string) error {
	return s.store.Update(func(tx *store.Tx) error {
		if !supplierExists(tx.Data, id) {
			return ErrNotFound
		}
		if supplierHasReports(tx.Data, id) {
			return &IntegrityError{Entity: "el proveedor"}
		}
		ps := tx.Data.Proveedores[:0]
		for _, p := range tx.Data.Proveedores {
			if p.ID != id {
				ps = append(ps, p)
			}
		}
		tx.Data.Proveedores = ps
		return nil
	})
}

func (s *CatalogService) CanDeleteSupplier(id string) bool {
	ok := false
	s.store.View(func(tx *store.Tx) {
		ok = supplierExists(tx.Data, id) && !supplierHasReports(tx.Data, id)
	})
	return ok
}

func (s *CatalogService) Suppliers() []models.Supplier {
	var out []models.Supplier
	s.store.View(func(tx *store.Tx) {
		out = append(out, tx.Data.Proveedores...)
	})
	sortByNombre(out, func(p models.Supplier) string { return p.Nombre })
	return out
}

func deleteClientByID(cs []models.Client, id string) []models.Client {
	out := cs[:0]
	for _, c := range cs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func sortByNombre[T any](xs []T, name func(T) string) {
	sort.SliceStable(xs, func(i, j int) bool {
		return strings.ToLower(name(xs[i])) < strings.ToLower(name(xs[j]))
	})
}
