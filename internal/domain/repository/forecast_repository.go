package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// ForecastRepository define el puerto de los pronósticos por repuesto.
type ForecastRepository interface {
	Get(ctx context.Context, partID int64) (*entity.Forecast, error)
	Upsert(ctx context.Context, forecast *entity.Forecast) error
}
