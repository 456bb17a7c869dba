package dto

import "time"

// AuditStartRequest inicio de sesión de conteo. Según audit_type:
// spot_check exige part_ids, category exige category_id, rolling no
// necesita nada (el sistema elige el lote).
type AuditStartRequest struct {
	AuditType    string  `json:"audit_type" validate:"required,oneof=spot_check category rolling"`
	LocationType string  `json:"location_type,omitempty" validate:"omitempty,oneof=warehouse staging truck job"`
	LocationID   int64   `json:"location_id,omitempty"`
	PartIDs      []int64 `json:"part_ids,omitempty"`
	CategoryID   *int64  `json:"category_id,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// AuditCountRequest conteo de un ítem: cantidad real, o skip explícito.
type AuditCountRequest struct {
	ActualQty *int    `json:"actual_qty,omitempty" validate:"omitempty,gte=0"`
	Skip      bool    `json:"skip,omitempty"`
	Note      string  `json:"note,omitempty"`
	PhotoPath *string `json:"photo_path,omitempty"`
}

// AuditItemResponse un ítem de la sesión.
type AuditItemResponse struct {
	ID            int64      `json:"id"`
	PartID        int64      `json:"part_id"`
	PartName      string     `json:"part_name"`
	PartNumber    string     `json:"part_number,omitempty"`
	ShelfLocation *string    `json:"shelf_location,omitempty"`
	ExpectedQty   int        `json:"expected_qty"`
	ActualQty     *int       `json:"actual_qty,omitempty"`
	Result        string     `json:"result"`
	Note          string     `json:"note,omitempty"`
	CountedAt     *time.Time `json:"counted_at,omitempty"`
}

// AuditResponse cabecera de la sesión con progreso.
type AuditResponse struct {
	ID            int64      `json:"id"`
	AuditType     string     `json:"audit_type"`
	LocationType  string     `json:"location_type"`
	LocationID    int64      `json:"location_id"`
	CategoryID    *int64     `json:"category_id,omitempty"`
	Status        string     `json:"status"`
	StartedBy     string     `json:"started_by"`
	Notes         string     `json:"notes,omitempty"`
	TotalItems    int        `json:"total_items"`
	CountedItems  int        `json:"counted_items"`
	Matched       int        `json:"matched"`
	Discrepancies int        `json:"discrepancies"`
	PctComplete   float64    `json:"pct_complete"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// AuditDetailResponse sesión completa con sus ítems.
type AuditDetailResponse struct {
	AuditResponse
	Items []AuditItemResponse `json:"items"`
}

// AuditSummary resumen final al completar una sesión.
type AuditSummary struct {
	AuditID                 int64   `json:"audit_id"`
	TotalItems              int     `json:"total_items"`
	Counted                 int     `json:"counted"`
	Matched                 int     `json:"matched"`
	Discrepancies           int     `json:"discrepancies"`
	Skipped                 int     `json:"skipped"`
	Pending                 int     `json:"pending"`
	PctComplete             float64 `json:"pct_complete"`
	HasUnappliedAdjustments bool    `json:"has_unapplied_adjustments"`
}

// AdjustmentsResult cuántas discrepancias se aplicaron al libro mayor.
// Las fallidas no bloquean a las demás.
type AdjustmentsResult struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
}

// RollingPreviewResponse qué cubriría el próximo lote rolling.
type RollingPreviewResponse struct {
	CategoryID *int64              `json:"category_id,omitempty"`
	Parts      []RollingPreviewRow `json:"parts"`
}

// RollingPreviewRow repuesto candidato del próximo lote rolling.
type RollingPreviewRow struct {
	PartID        int64   `json:"part_id"`
	Name          string  `json:"name"`
	ShelfLocation *string `json:"shelf_location,omitempty"`
}
