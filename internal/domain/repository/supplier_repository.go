package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// SupplierRepository define el puerto del directorio de proveedores.
type SupplierRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error)
}
