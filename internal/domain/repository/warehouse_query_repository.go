package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// InventoryRow fila cruda de la grilla de inventario de bodega.
// La produce la DB; el use case la convierte en DTO con estado calculado.
type InventoryRow struct {
	PartID        int64
	Name          string
	PartNumber    string
	ShelfLocation *string
	WarehouseQty  int
	StagedQty     int
	MinStock      int
	MaxStock      int
	TargetStock   int
	UnitCost      decimal.Decimal
}

// ActivityRow fila cruda del feed de actividad (movimiento + nombres).
type ActivityRow struct {
	LogID         int64
	Kind          string
	Qty           int
	PartName      string
	PerformerName string
	FromType      *entity.LocationType
	FromID        *int64
	ToType        *entity.LocationType
	ToID          *int64
	CreatedAt     time.Time
}

// StagingRow fila cruda del área de preparación (stock + etiqueta si existe).
type StagingRow struct {
	StockID          int64
	PartID           int64
	PartName         string
	PartNumber       string
	Qty              int
	SupplierName     *string
	DestinationType  *entity.LocationType
	DestinationID    *int64
	DestinationLabel *string
	TaggedBy         *string
	StagedAt         time.Time
}

// LowStockRow repuesto por debajo de su mínimo (para tareas pendientes).
type LowStockRow struct {
	PartID         int64
	Name           string
	WarehouseQty   int
	MinStock       int
	SuggestedOrder *int // del pronóstico, si existe
}

// WarehouseQueryRepository define las consultas de lectura para el dashboard
// y las vistas de bodega. Las implementaciones son read-only.
type WarehouseQueryRepository interface {
	// TotalWarehouseUnits unidades totales en la bodega principal.
	TotalWarehouseUnits(ctx context.Context) (int, error)
	// WarehouseValue valor del inventario de bodega (qty * costo unitario).
	WarehouseValue(ctx context.Context) (decimal.Decimal, error)
	// StockHealthCounts cuántos repuestos están dentro de su rango min..max,
	// sobre cuántos se consideran (excluye deprecados y en desmonte).
	StockHealthCounts(ctx context.Context) (within, considered int, err error)
	// ShortfallCount repuestos por debajo del mínimo (excluye en desmonte).
	ShortfallCount(ctx context.Context) (int, error)

	InventoryRows(ctx context.Context) ([]InventoryRow, error)
	ActivityRows(ctx context.Context, limit int) ([]ActivityRow, error)
	StagingRows(ctx context.Context) ([]StagingRow, error)
	BelowMinRows(ctx context.Context, limit int) ([]LowStockRow, error)
}
