package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartResponse repuesto del catálogo para respuestas HTTP.
type PartResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	PartNumber    string          `json:"part_number,omitempty"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	StyleID       *int64          `json:"style_id,omitempty"`
	TypeID        *int64          `json:"type_id,omitempty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitSell      decimal.Decimal `json:"unit_sell"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
	TargetStock   int             `json:"target_stock"`
	ShelfLocation *string         `json:"shelf_location,omitempty"`
	BinLocation   *string         `json:"bin_location,omitempty"`
	Deprecated    bool            `json:"deprecated"`
}

// CategoryResponse categoría del catálogo.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SupplierResponse proveedor del directorio.
type SupplierResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PreferenceRequest alta/cambio de preferencia de proveedor para un ámbito.
type PreferenceRequest struct {
	Scope      string `json:"scope" validate:"required,oneof=part type style category"`
	ScopeID    int64  `json:"scope_id" validate:"required,gt=0"`
	SupplierID int64  `json:"supplier_id" validate:"required,gt=0"`
}

// ScopePreference preferencia configurada en un ámbito concreto.
type ScopePreference struct {
	Scope        string    `json:"scope"`
	ScopeID      int64     `json:"scope_id"`
	SupplierID   int64     `json:"supplier_id"`
	SupplierName string    `json:"supplier_name,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EffectivePreference proveedor que gana la cascada para un repuesto.
type EffectivePreference struct {
	SupplierID   int64  `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Scope        string `json:"scope"` // ámbito que ganó
}

// PartPreferencesResponse cascada completa de un repuesto: quién gana y qué
// hay configurado en cada ámbito de su ascendencia.
type PartPreferencesResponse struct {
	PartID     int64                `json:"part_id"`
	Effective  *EffectivePreference `json:"effective,omitempty"`
	Configured []ScopePreference    `json:"configured"`
}
