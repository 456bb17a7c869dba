package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa un repuesto del catálogo. La ascendencia category/style/type
// alimenta la cascada de preferencias de proveedor; los niveles min/max/target
// alimentan pronósticos y alertas de stock bajo.
type Part struct {
	ID            int64
	Name          string
	PartNumber    string // código del fabricante
	CategoryID    *int64
	StyleID       *int64
	TypeID        *int64
	UnitCost      decimal.Decimal // costo de compra vigente
	UnitSell      decimal.Decimal // precio de venta vigente
	MinStock      int             // piso antes de alerta (0 = sin piso)
	MaxStock      int             // techo sugerido (0 = sin techo)
	TargetStock   int             // nivel objetivo; 0 = en desmonte (winding down)
	ShelfLocation *string         // estante en bodega, ej. "A-3"
	BinLocation   *string
	Deprecated    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WindingDown reporta si el repuesto está en desmonte deliberado
// (target 0): se excluye de alertas y de faltantes del dashboard.
func (p *Part) WindingDown() bool {
	return p.TargetStock == 0
}
