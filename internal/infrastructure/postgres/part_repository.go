package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación de PartRepository sobre PostgreSQL.
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, name, part_number, category_id, style_id, type_id, unit_cost, unit_sell,
	min_stock, max_stock, target_stock, shelf_location, bin_location, deprecated, created_at, updated_at`

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(
		&p.ID, &p.Name, &p.PartNumber, &p.CategoryID, &p.StyleID, &p.TypeID,
		&p.UnitCost, &p.UnitSell, &p.MinStock, &p.MaxStock, &p.TargetStock,
		&p.ShelfLocation, &p.BinLocation, &p.Deprecated, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartRepo) GetByID(ctx context.Context, id int64) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	p, err := scanPart(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

func (r *PartRepo) List(ctx context.Context, categoryID *int64, includeDeprecated bool, limit int) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE 1=1`
	var args []any
	pos := 1
	if categoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, *categoryID)
		pos++
	}
	if !includeDeprecated {
		query += " AND deprecated = false"
	}
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PartRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Part, error) {
	query := `
		SELECT ` + partColumns + `
		FROM parts
		WHERE category_id = $1 AND deprecated = false
		ORDER BY shelf_location ASC NULLS LAST, name ASC`
	rows, err := r.q.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list parts by category: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateLocationHints guarda estante/cajón sugeridos; los valores nil no tocan
// la columna correspondiente.
func (r *PartRepo) UpdateLocationHints(ctx context.Context, partID int64, shelf, bin *string) error {
	query := `
		UPDATE parts
		SET shelf_location = COALESCE($2, shelf_location),
		    bin_location = COALESCE($3, bin_location),
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, partID, shelf, bin)
	if err != nil {
		return fmt.Errorf("update part location hints: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update part location hints: %w", pgx.ErrNoRows)
	}
	return nil
}
