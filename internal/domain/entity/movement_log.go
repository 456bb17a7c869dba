package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de movimiento. Derivadas de la ruta (from, to), nunca elegidas por
// el usuario, salvo receive (entrada externa) y adjust (ajuste de auditoría).
const (
	MovementTransfer = "transfer"
	MovementConsume  = "consume"
	MovementReturn   = "return"
	MovementReceive  = "receive"
	MovementAdjust   = "adjust"
)

// MovementLog es un hecho inmutable del libro de movimientos: qué cantidad se
// movió, de dónde a dónde, de qué proveedor, quién lo hizo y a qué precio
// estaba el repuesto en ese momento. Nunca se actualiza ni se borra; es el
// registro de "qué pasó" aunque el catálogo cambie después.
type MovementLog struct {
	ID            int64
	BatchID       string // agrupa las líneas ejecutadas en un mismo lote
	PartID        int64
	Qty           int
	FromType      *LocationType // nil en receive (entrada externa)
	FromID        *int64
	ToType        *LocationType // nil en consumos sin destino discreto
	ToID          *int64
	SupplierID    *int64
	SupplierName  string // snapshot del nombre al momento del movimiento
	Kind          string // transfer, consume, return, receive, adjust
	Reason        string
	Reference     string
	JobID         *int64
	PerformedBy   string
	PhotoPath     *string
	ScanConfirmed bool
	UnitCost      decimal.Decimal // snapshot del costo al momento del movimiento
	UnitSell      decimal.Decimal // snapshot del precio de venta
	CreatedAt     time.Time
}
