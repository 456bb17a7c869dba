package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// PreferenceRepository define el puerto de preferencias de proveedor.
// La cascada (part -> type -> style -> category) la arma el resolutor
// consultando GetByScope en orden.
type PreferenceRepository interface {
	GetByScope(ctx context.Context, scope string, scopeID int64) (*entity.SupplierPreference, error)
	Upsert(ctx context.Context, pref *entity.SupplierPreference) error
	Delete(ctx context.Context, scope string, scopeID int64) error
}
