package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// CategoryRepository define el puerto de consulta de la jerarquía del
// catálogo (categoría > estilo > tipo). Solo lectura: el catálogo se
// administra fuera del motor de movimientos.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
}
