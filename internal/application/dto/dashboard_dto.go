package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardKPIs cifras de cabecera del dashboard de bodega.
type DashboardKPIs struct {
	StockHealthPct   float64          `json:"stock_health_pct"` // % de repuestos dentro de su rango min..max
	TotalUnits       int              `json:"total_units"`
	WarehouseValue   *decimal.Decimal `json:"warehouse_value,omitempty"` // solo admin
	ShortfallCount   int              `json:"shortfall_count"`           // bajo mínimo (excluye en desmonte)
	PendingTaskCount int              `json:"pending_task_count"`
}

// ActivityEntry línea del feed de actividad reciente.
type ActivityEntry struct {
	ID            int64     `json:"id"`
	Summary       string    `json:"summary"` // ej. "Mike movió 12× GFCI Blanco a Camión de Mike"
	Kind          string    `json:"movement_kind"`
	PerformerName string    `json:"performer_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingTask acción pendiente para el dashboard.
type PendingTask struct {
	TaskType string `json:"task_type"` // staging | audit | low_stock
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	RefID    int64  `json:"ref_id"`
	Priority string `json:"priority"` // normal | warning | critical
}

// Estados de stock de la grilla de inventario.
const (
	StockStatusOut         = "out"
	StockStatusLow         = "low"
	StockStatusOK          = "ok"
	StockStatusOver        = "over"
	StockStatusWindingDown = "winding_down"
)

// WarehouseInventoryItem fila de la grilla de inventario de bodega.
type WarehouseInventoryItem struct {
	PartID        int64           `json:"part_id"`
	Name          string          `json:"name"`
	PartNumber    string          `json:"part_number,omitempty"`
	ShelfLocation *string         `json:"shelf_location,omitempty"`
	WarehouseQty  int             `json:"warehouse_qty"`
	StagedQty     int             `json:"staged_qty"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
	TargetStock   int             `json:"target_stock"`
	Status        string          `json:"status"` // out | low | ok | over | winding_down
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Value         decimal.Decimal `json:"value"` // qty * unit_cost
}

// WarehouseInventoryResponse grilla completa más agregados.
type WarehouseInventoryResponse struct {
	Items      []WarehouseInventoryItem `json:"items"`
	HealthPct  float64                  `json:"health_pct"`
	TotalUnits int                      `json:"total_units"`
	TotalValue decimal.Decimal          `json:"total_value"`
}

// StagingItem una fila de stock en preparación con su envejecimiento.
type StagingItem struct {
	StockID      int64   `json:"stock_id"`
	PartID       int64   `json:"part_id"`
	PartName     string  `json:"part_name"`
	PartNumber   string  `json:"part_number,omitempty"`
	Qty          int     `json:"qty"`
	SupplierName *string `json:"supplier_name,omitempty"`
	TaggedBy     *string `json:"tagged_by,omitempty"`
	HoursStaged  float64 `json:"hours_staged"`
	AgingStatus  string  `json:"aging_status"` // normal | warning (24h) | critical (48h)
}

// StagingGroup material en preparación agrupado por destino previsto.
type StagingGroup struct {
	DestinationType  string        `json:"destination_type,omitempty"` // vacío = sin destino
	DestinationID    int64         `json:"destination_id,omitempty"`
	DestinationLabel string        `json:"destination_label"`
	Items            []StagingItem `json:"items"`
	TotalQty         int           `json:"total_qty"`
	OldestHours      float64       `json:"oldest_hours"`
	AgingStatus      string        `json:"aging_status"`
}

// StagingResponse vista completa del área de preparación.
type StagingResponse struct {
	Groups     []StagingGroup `json:"groups"`
	TotalItems int            `json:"total_items"`
	TotalQty   int            `json:"total_qty"`
}
