package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.StagingTagRepository = (*StagingTagRepo)(nil)

// StagingTagRepo implementación de StagingTagRepository sobre PostgreSQL.
type StagingTagRepo struct {
	q Querier
}

// NewStagingTagRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStagingTagRepository(q Querier) *StagingTagRepo {
	return &StagingTagRepo{q: q}
}

// Upsert crea o reemplaza la etiqueta de destino de una fila de stock en
// preparación. Mover más material del mismo repuesto renueva la etiqueta.
func (r *StagingTagRepo) Upsert(ctx context.Context, tag *entity.StagingTag) error {
	query := `
		INSERT INTO staging_tags (stock_id, destination_type, destination_id, destination_label, tagged_by, tagged_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (stock_id)
		DO UPDATE SET destination_type = EXCLUDED.destination_type,
			destination_id = EXCLUDED.destination_id,
			destination_label = EXCLUDED.destination_label,
			tagged_by = EXCLUDED.tagged_by,
			tagged_at = now()`
	_, err := r.q.Exec(ctx, query,
		tag.StockID, tag.DestinationType, tag.DestinationID, tag.DestinationLabel, tag.TaggedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert staging tag: %w", err)
	}
	return nil
}

func (r *StagingTagRepo) Get(ctx context.Context, stockID int64) (*entity.StagingTag, error) {
	query := `
		SELECT stock_id, destination_type, destination_id, destination_label, tagged_by, tagged_at
		FROM staging_tags WHERE stock_id = $1`
	var t entity.StagingTag
	err := r.q.QueryRow(ctx, query, stockID).Scan(
		&t.StockID, &t.DestinationType, &t.DestinationID, &t.DestinationLabel, &t.TaggedBy, &t.TaggedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staging tag: %w", err)
	}
	return &t, nil
}

// ClearForPart elimina las etiquetas de las filas del repuesto/proveedor en el
// área de preparación indicada. Se llama cuando el material sale de preparación.
func (r *StagingTagRepo) ClearForPart(ctx context.Context, partID, locationID int64, supplierID *int64) error {
	query := `
		DELETE FROM staging_tags
		WHERE stock_id IN (
			SELECT id FROM stock
			WHERE part_id = $1 AND location_type = $2 AND location_id = $3
			  AND supplier_id IS NOT DISTINCT FROM $4
		)`
	_, err := r.q.Exec(ctx, query, partID, entity.LocationStaging, locationID, supplierID)
	if err != nil {
		return fmt.Errorf("clear staging tags: %w", err)
	}
	return nil
}
