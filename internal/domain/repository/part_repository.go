package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// PartRepository define el puerto de consulta del catálogo de repuestos.
// El motor de movimientos lo usa solo como lookup (id -> precios, niveles,
// ascendencia); el catálogo en sí lo administra otro sistema.
type PartRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Part, error)
	List(ctx context.Context, categoryID *int64, includeDeprecated bool, limit int) ([]*entity.Part, error)
	// ListByCategory repuestos no deprecados de una categoría (auditorías de categoría).
	ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Part, error)
	// UpdateLocationHints actualiza estante/cajón sugeridos al recibir mercancía.
	UpdateLocationHints(ctx context.Context, partID int64, shelf, bin *string) error
}
