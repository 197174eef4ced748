package models

import "time"

// Snapshot is the whole record store as persisted to the local slot and to
// backup files. JSON keys match the documents written by earlier versions of
// the application, so existing data hydrates unchanged.
type Snapshot struct {
	Clientes      []Client          `json:"clientes"`
	Obras         []Work            `json:"obras"`
	Operarios     []Worker          `json:"operarios"`
	Proveedores   []Supplier        `json:"proveedores"`
	PartesDiarios []DailyReport     `json:"partesDiarios"`
	PagosAcuenta  []AdvancePayment  `json:"pagosAcuenta"`
	PagosPB       []OverheadExpense `json:"pagosPB"`
}

type Client struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	Direccion       string `json:"direccion"`
	Poblacion       string `json:"poblacion"`
	Provincia       string `json:"provincia"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
}

// Work carries a sequential display number (OBR-001, OBR-002, ...). The
// counter behind it only moves forward, so numbers are never reused even
// after deletions.
type Work struct {
	ID               string    `json:"id"`
	ClienteID        string    `json:"clienteId"`
	Nombre           string    `json:"nombre"`
	Numero           string    `json:"numero"`
	FechaCreacion    time.Time `json:"fechaCreacion"`
	PresupuestoTotal float64   `json:"presupuestoTotal"`
}

type Worker struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Poblacion string `json:"poblacion"`
	Provincia string `json:"provincia"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
}

type Supplier struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	Direccion       string `json:"direccion"`
	Poblacion       string `json:"poblacion"`
	Provincia       string `json:"provincia"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
}

// DailyReport is one worker's hours (and optional supplier expense) on one
// work for one calendar date. Dates are plain YYYY-MM-DD strings; reports
// are grouped and compared by the exact date value.
//
// Invariant: FechaLiquidacion is non-empty if and only if Liquidado is true.
// Only the settlement engine writes the three liquidation fields after
// creation; editing other fields never touches them.
type DailyReport struct {
	ID               string   `json:"id"`
	Fecha            string   `json:"fecha"`
	ObraID           string   `json:"obraId"`
	OperarioID       string   `json:"operarioId"`
	Horas            float64  `json:"horas"`
	Descripcion      string   `json:"descripcion"`
	Fotos            []string `json:"fotos"`
	ProveedorID      string   `json:"proveedorId,omitempty"`
	Gasto            float64  `json:"gasto"`
	FotoGasto        string   `json:"fotoGasto,omitempty"`
	DocumentoGasto   string   `json:"documentoGasto"`
	OperarioPagaID   string   `json:"operarioPagaId,omitempty"`
	Liquidado        bool     `json:"liquidado"`
	NotaLiquidacion  string   `json:"notaLiquidacion"`
	FechaLiquidacion string   `json:"fechaLiquidacion,omitempty"`
}

// AdvancePayment is a payment made against a specific work's budget.
type AdvancePayment struct {
	ID        string  `json:"id"`
	ObraID    string  `json:"obraId"`
	Fecha     string  `json:"fecha"`
	Monto     float64 `json:"monto"`
	Documento string  `json:"documento"`
}

// OverheadExpense is a general expense not attributable to any single work.
type OverheadExpense struct {
	ID       string  `json:"id"`
	Fecha    string  `json:"fecha"`
	Concepto string  `json:"concepto"`
	Precio   float64 `json:"precio"`
}
