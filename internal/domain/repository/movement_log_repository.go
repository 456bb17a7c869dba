package repository

import (
	"context"
	"time"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// MovementLogFilter filtros opcionales del historial de movimientos.
type MovementLogFilter struct {
	PartID       *int64
	LocationType *entity.LocationType // coincide contra origen O destino
	LocationID   *int64
	Kind         *string
	JobID        *int64
	Reference    *string
	Limit        int
}

// MovementLogRepository define el puerto del libro de movimientos.
// Solo inserta y consulta: las entradas jamás se actualizan ni se borran.
type MovementLogRepository interface {
	Create(ctx context.Context, log *entity.MovementLog) error
	List(ctx context.Context, filter MovementLogFilter) ([]*entity.MovementLog, error)
	// ConsumedQtySince suma las cantidades de movimientos consume/transfer
	// con destino truck o job desde la fecha dada (base del pronóstico ADU).
	ConsumedQtySince(ctx context.Context, partID int64, since time.Time) (int, error)
}
