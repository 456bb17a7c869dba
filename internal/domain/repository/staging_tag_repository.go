package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// StagingTagRepository define el puerto de las etiquetas de preparación.
type StagingTagRepository interface {
	// Upsert crea o reemplaza la etiqueta de la fila de stock (una por fila).
	Upsert(ctx context.Context, tag *entity.StagingTag) error
	Get(ctx context.Context, stockID int64) (*entity.StagingTag, error)
	// ClearForPart elimina las etiquetas de las filas del repuesto/proveedor
	// en esa área de preparación (el material salió de preparación).
	ClearForPart(ctx context.Context, partID, locationID int64, supplierID *int64) error
}
