package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

// ForecastRepo implementación de ForecastRepository sobre PostgreSQL.
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador. Acepta pool o tx (Querier).
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

func (r *ForecastRepo) Get(ctx context.Context, partID int64) (*entity.Forecast, error) {
	query := `
		SELECT part_id, adu_30, adu_90, reorder_point, suggested_order, days_until_low, computed_at
		FROM forecasts WHERE part_id = $1`
	var f entity.Forecast
	err := r.q.QueryRow(ctx, query, partID).Scan(
		&f.PartID, &f.ADU30, &f.ADU90, &f.ReorderPoint,
		&f.SuggestedOrder, &f.DaysUntilLow, &f.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get forecast: %w", err)
	}
	return &f, nil
}

// Upsert reemplaza el pronóstico completo del repuesto. El recálculo es
// idempotente, así que pisar la fila entera es siempre correcto.
func (r *ForecastRepo) Upsert(ctx context.Context, f *entity.Forecast) error {
	query := `
		INSERT INTO forecasts (part_id, adu_30, adu_90, reorder_point, suggested_order, days_until_low, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (part_id)
		DO UPDATE SET adu_30 = EXCLUDED.adu_30,
			adu_90 = EXCLUDED.adu_90,
			reorder_point = EXCLUDED.reorder_point,
			suggested_order = EXCLUDED.suggested_order,
			days_until_low = EXCLUDED.days_until_low,
			computed_at = now()`
	_, err := r.q.Exec(ctx, query,
		f.PartID, f.ADU30, f.ADU90, f.ReorderPoint, f.SuggestedOrder, f.DaysUntilLow,
	)
	if err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}
	return nil
}
