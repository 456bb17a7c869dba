package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLine una línea del lote: repuesto, cantidad y proveedor opcional.
// Sin proveedor explícito, el resolutor decide (preferido o FIFO).
type MovementLine struct {
	PartID     int64  `json:"part_id" validate:"required,gt=0"`
	Qty        int    `json:"qty" validate:"required,gte=1"`
	SupplierID *int64 `json:"supplier_id,omitempty"`
}

// DestinationHint destino previsto del material que entra a preparación.
// Solo alimenta la etiqueta de staging; no afecta cantidades.
type DestinationHint struct {
	Type  string `json:"type" validate:"required,oneof=truck job"`
	ID    int64  `json:"id" validate:"required,gt=0"`
	Label string `json:"label,omitempty"`
}

// MovementRequest lote de movimiento: una sola ruta origen -> destino y
// hasta 20 líneas.
type MovementRequest struct {
	FromType        string           `json:"from_type" validate:"required,oneof=warehouse staging truck job"`
	FromID          int64            `json:"from_id" validate:"required,gt=0"`
	ToType          string           `json:"to_type" validate:"required,oneof=warehouse staging truck job"`
	ToID            int64            `json:"to_id" validate:"required,gt=0"`
	Items           []MovementLine   `json:"items" validate:"required,min=1,max=20,dive"`
	ReasonCategory  string           `json:"reason_category,omitempty"`
	ReasonDetail    string           `json:"reason_detail,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	JobID           *int64           `json:"job_id,omitempty"`
	PhotoPath       *string          `json:"photo_path,omitempty"`
	ScanConfirmed   bool             `json:"scan_confirmed,omitempty"`
	DestinationHint *DestinationHint `json:"destination_hint,omitempty"`
}

// MovementValidationError error estructurado de validación de una línea
// (o de la ruta completa si PartID es 0).
type MovementValidationError struct {
	PartID    int64  `json:"part_id,omitempty"`
	Field     string `json:"field"`
	Message   string `json:"message"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

// MovementValidation resultado de la validación previa (sin ejecutar nada).
type MovementValidation struct {
	Valid    bool                      `json:"valid"`
	Errors   []MovementValidationError `json:"errors"`
	Warnings []string                  `json:"warnings"`
}

// MovementPreviewLine antes/después por línea con proveedor resuelto y valor.
type MovementPreviewLine struct {
	PartID         int64           `json:"part_id"`
	PartName       string          `json:"part_name"`
	Qty            int             `json:"qty"`
	SupplierID     *int64          `json:"supplier_id,omitempty"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	SupplierSource string          `json:"supplier_source"` // explicit | preferred | fifo | none
	SourceBefore   int             `json:"source_before"`
	SourceAfter    int             `json:"source_after"`
	DestBefore     int             `json:"dest_before"`
	DestAfter      int             `json:"dest_after"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	LineValue      decimal.Decimal `json:"line_value"`
}

// MovementPreview pantalla de confirmación: nada se muta al calcularla.
type MovementPreview struct {
	Kind          string                `json:"movement_kind"`
	PhotoRequired bool                  `json:"photo_required"`
	Lines         []MovementPreviewLine `json:"lines"`
	TotalQty      int                   `json:"total_qty"`
	TotalValue    decimal.Decimal       `json:"total_value"`
	Warnings      []string              `json:"warnings"`
}

// MovementResult resultado de un lote ejecutado y confirmado.
type MovementResult struct {
	BatchID     string   `json:"batch_id"`
	Kind        string   `json:"movement_kind"`
	MovementIDs []int64  `json:"movement_ids"`
	TotalItems  int      `json:"total_items"`
	TotalQty    int      `json:"total_qty"`
	Warnings    []string `json:"warnings,omitempty"` // efectos post-commit fallidos
}

// ReceiveItem mercancía que entra desde fuera del sistema (sin origen).
type ReceiveItem struct {
	PartID        int64   `json:"part_id" validate:"required,gt=0"`
	Qty           int     `json:"qty" validate:"required,gte=1"`
	SupplierID    *int64  `json:"supplier_id,omitempty"`
	ShelfLocation *string `json:"shelf_location,omitempty"`
	BinLocation   *string `json:"bin_location,omitempty"`
}

// ReceiveRequest recepción de hasta 50 ítems hacia la bodega principal.
type ReceiveRequest struct {
	Items     []ReceiveItem `json:"items" validate:"required,min=1,max=50,dive"`
	Reference string        `json:"reference,omitempty"`
	Notes     string        `json:"notes,omitempty"`
}

// ReceiveResult resultado de una recepción.
type ReceiveResult struct {
	ItemsReceived int     `json:"items_received"`
	TotalQty      int     `json:"total_qty"`
	MovementIDs   []int64 `json:"movement_ids"`
}

// MovementHistoryFilter filtros del historial; todos opcionales. El filtro de
// ubicación coincide contra origen o destino del movimiento.
type MovementHistoryFilter struct {
	PartID       *int64
	LocationType *string
	LocationID   *int64
	Kind         *string
	JobID        *int64
	Reference    *string
	Limit        int
}

// MovementLogEntry entrada del historial para respuestas HTTP.
type MovementLogEntry struct {
	ID            int64           `json:"id"`
	BatchID       string          `json:"batch_id,omitempty"`
	PartID        int64           `json:"part_id"`
	Qty           int             `json:"qty"`
	FromType      *string         `json:"from_type,omitempty"`
	FromID        *int64          `json:"from_id,omitempty"`
	ToType        *string         `json:"to_type,omitempty"`
	ToID          *int64          `json:"to_id,omitempty"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	Kind          string          `json:"movement_kind"`
	Reason        string          `json:"reason,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	JobID         *int64          `json:"job_id,omitempty"`
	PerformedBy   string          `json:"performed_by"`
	PhotoPath     *string         `json:"photo_path,omitempty"`
	ScanConfirmed bool            `json:"scan_confirmed"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitSell      decimal.Decimal `json:"unit_sell"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReasonCategoryResponse categoría de motivo con sus sub-motivos para el
// asistente de movimientos.
type ReasonCategoryResponse struct {
	Category string   `json:"category"`
	Details  []string `json:"details"`
}
