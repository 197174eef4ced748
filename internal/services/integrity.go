package services

import "github.com/gestionobras/backend/internal/models"

// Referential integrity checks. An entity is deletable only while nothing
// depends on it:
//
//	client   <- work.clienteId
//	work     <- dailyReport.obraId
//	worker   <- dailyReport.operarioId
//	supplier <- dailyReport.proveedorId
//
// A worker referenced only as the paying worker of an expense
// (operarioPagaId) does not block deletion. That asymmetry is inherited
// behaviour and is kept for compatibility with existing data.

func clientHasWorks(d *models.Snapshot, clienteID string) bool {
	for _, o := range d.Obras {
		if o.ClienteID == clienteID {
			return true
		}
	}
	return false
}

func workHasReports(d *models.Snapshot, obraID string) bool {
	for _, p := range d.PartesDiarios {
		if p.ObraID == obraID {
			return true
		}
	}
	return false
}

func workerHasReports(d *models.Snapshot, operarioID string) bool {
	for _, p := range d.PartesDiarios {
		if p.OperarioID == operarioID {
			return true
		}
	}
	return false
}

func supplierHasReports(d *models.Snapshot, proveedorID string) bool {
	for _, p := range d.PartesDiarios {
		if p.ProveedorID == proveedorID {
			return true
		}
	}
	return false
}

func workExists(d *models.Snapshot, id string) bool {
	for _, o := range d.Obras {
		if o.ID == id {
			return true
		}
	}
	return false
}

func clientExists(d *models.Snapshot, id string) bool {
	for _, c := range d.Clientes {
		if c.ID == id {
			return true
		}
	}
	return false
}

func workerExists(d *models.Snapshot, id string) bool {
	for _, op := range d.Operarios {
		if op.ID == id {
			return true
		}
	}
	return false
}

func supplierExists(d *models.Snapshot, id string) bool {
	for _, p := range d.Proveedores {
		if p.ID == id {
			return true
		}
	}
	return false
}
