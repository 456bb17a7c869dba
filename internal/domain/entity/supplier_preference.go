package entity

import "time"

// Ámbitos de preferencia de proveedor, del más específico al más general.
// La resolución cascadea part -> type -> style -> category.
const (
	PrefScopePart     = "part"
	PrefScopeType     = "type"
	PrefScopeStyle    = "style"
	PrefScopeCategory = "category"
)

// PrefScopes orden de resolución de la cascada.
var PrefScopes = []string{PrefScopePart, PrefScopeType, PrefScopeStyle, PrefScopeCategory}

// ValidPrefScope reporta si el ámbito es uno de los cuatro soportados.
func ValidPrefScope(scope string) bool {
	for _, s := range PrefScopes {
		if s == scope {
			return true
		}
	}
	return false
}

// SupplierPreference asocia un ámbito del catálogo con su proveedor preferido.
type SupplierPreference struct {
	ID         int64
	Scope      string // part, type, style, category
	ScopeID    int64
	SupplierID int64
	UpdatedBy  string
	UpdatedAt  time.Time
}
