package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Acepta pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = `id, audit_type, location_type, location_id, category_id, status, started_by,
	notes, total_items, counted_items, matched, discrepancies, created_at, completed_at`

func scanAudit(row pgx.Row) (*entity.Audit, error) {
	var a entity.Audit
	err := row.Scan(
		&a.ID, &a.AuditType, &a.LocationType, &a.LocationID, &a.CategoryID,
		&a.Status, &a.StartedBy, &a.Notes, &a.TotalItems, &a.CountedItems,
		&a.Matched, &a.Discrepancies, &a.CreatedAt, &a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuditRepo) Create(ctx context.Context, audit *entity.Audit) error {
	query := `
		INSERT INTO audits (audit_type, location_type, location_id, category_id, status, started_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		audit.AuditType, audit.LocationType, audit.LocationID, audit.CategoryID,
		audit.Status, audit.StartedBy, audit.Notes,
	).Scan(&audit.ID, &audit.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit: %w", err)
	}
	return nil
}

func (r *AuditRepo) GetByID(ctx context.Context, id int64) (*entity.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE id = $1`
	a, err := scanAudit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return a, nil
}

func (r *AuditRepo) List(ctx context.Context, status *string, limit int) ([]*entity.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits`
	var args []any
	pos := 1
	if status != nil {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, *status)
		pos++
	}
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AuditRepo) UpdateStatus(ctx context.Context, id int64, status string, completedAt *time.Time) error {
	query := `UPDATE audits SET status = $2, completed_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, completedAt)
	if err != nil {
		return fmt.Errorf("update audit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update audit status: %w", pgx.ErrNoRows)
	}
	return nil
}

// RefreshSummary recalcula los contadores cacheados desde los ítems. counted
// son los ítems que dejaron pending (incluye los saltados: avanzan la sesión).
func (r *AuditRepo) RefreshSummary(ctx context.Context, id int64) error {
	query := `
		UPDATE audits SET
			total_items = agg.total,
			counted_items = agg.counted,
			matched = agg.matched,
			discrepancies = agg.discrepancies
		FROM (
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE result <> 'pending') AS counted,
				COUNT(*) FILTER (WHERE result = 'match') AS matched,
				COUNT(*) FILTER (WHERE result = 'discrepancy') AS discrepancies
			FROM audit_items WHERE audit_id = $1
		) agg
		WHERE audits.id = $1`
	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("refresh audit summary: %w", err)
	}
	return nil
}

// InsertItems inserta los ítems en el orden recibido; ese orden es el de la
// estrategia de selección, así que listar por id lo preserva.
func (r *AuditRepo) InsertItems(ctx context.Context, auditID int64, items []*entity.AuditItem) error {
	query := `
		INSERT INTO audit_items (audit_id, part_id, expected_qty, result, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	for _, it := range items {
		it.AuditID = auditID
		if it.Result == "" {
			it.Result = entity.AuditResultPending
		}
		if err := r.q.QueryRow(ctx, query, auditID, it.PartID, it.ExpectedQty, it.Result, it.Note).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert audit item: %w", err)
		}
	}
	return nil
}

const auditItemColumns = `id, audit_id, part_id, expected_qty, actual_qty, result, note, photo_path, counted_at`

func scanAuditItem(row pgx.Row) (*entity.AuditItem, error) {
	var it entity.AuditItem
	err := row.Scan(
		&it.ID, &it.AuditID, &it.PartID, &it.ExpectedQty, &it.ActualQty,
		&it.Result, &it.Note, &it.PhotoPath, &it.CountedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *AuditRepo) Items(ctx context.Context, auditID int64) ([]*entity.AuditItem, error) {
	query := `SELECT ` + auditItemColumns + ` FROM audit_items WHERE audit_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(ctx, query, auditID)
	if err != nil {
		return nil, fmt.Errorf("list audit items: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditItem
	for rows.Next() {
		it, err := scanAuditItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ItemsDetailed ítems con los datos del repuesto, en orden de inserción.
func (r *AuditRepo) ItemsDetailed(ctx context.Context, auditID int64) ([]*repository.AuditItemDetail, error) {
	query := `
		SELECT i.id, i.audit_id, i.part_id, i.expected_qty, i.actual_qty, i.result, i.note, i.photo_path, i.counted_at,
			p.name, p.part_number, p.shelf_location
		FROM audit_items i
		JOIN parts p ON p.id = i.part_id
		WHERE i.audit_id = $1
		ORDER BY i.id ASC`
	rows, err := r.q.Query(ctx, query, auditID)
	if err != nil {
		return nil, fmt.Errorf("list audit items detailed: %w", err)
	}
	defer rows.Close()
	var list []*repository.AuditItemDetail
	for rows.Next() {
		var d repository.AuditItemDetail
		err := rows.Scan(
			&d.ID, &d.AuditID, &d.PartID, &d.ExpectedQty, &d.ActualQty,
			&d.Result, &d.Note, &d.PhotoPath, &d.CountedAt,
			&d.PartName, &d.PartNumber, &d.ShelfLocation,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit item detailed: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *AuditRepo) GetItem(ctx context.Context, auditID, itemID int64) (*entity.AuditItem, error) {
	query := `SELECT ` + auditItemColumns + ` FROM audit_items WHERE audit_id = $1 AND id = $2`
	it, err := scanAuditItem(r.q.QueryRow(ctx, query, auditID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit item: %w", err)
	}
	return it, nil
}

// NextPendingItem devuelve el siguiente ítem pendiente en orden de pasillo:
// primero los repuestos con estante asignado, luego por nombre.
func (r *AuditRepo) NextPendingItem(ctx context.Context, auditID int64) (*entity.AuditItem, error) {
	query := `
		SELECT i.id, i.audit_id, i.part_id, i.expected_qty, i.actual_qty, i.result, i.note, i.photo_path, i.counted_at
		FROM audit_items i
		JOIN parts p ON p.id = i.part_id
		WHERE i.audit_id = $1 AND i.result = 'pending'
		ORDER BY p.shelf_location ASC NULLS LAST, p.name ASC
		LIMIT 1`
	it, err := scanAuditItem(r.q.QueryRow(ctx, query, auditID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("next pending audit item: %w", err)
	}
	return it, nil
}

func (r *AuditRepo) RecordCount(ctx context.Context, itemID int64, actualQty *int, result, note string, photoPath *string) error {
	query := `
		UPDATE audit_items
		SET actual_qty = $2, result = $3, note = $4, photo_path = $5, counted_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, itemID, actualQty, result, note, photoPath)
	if err != nil {
		return fmt.Errorf("record audit count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record audit count: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *AuditRepo) OpenSpotCheckExistsForPart(ctx context.Context, partID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM audits a
			JOIN audit_items i ON i.audit_id = a.id
			WHERE a.audit_type = 'spot_check'
			  AND a.status IN ('in_progress', 'paused')
			  AND i.part_id = $1
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, partID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open spot check: %w", err)
	}
	return exists, nil
}

// LeastAuditedCategory elige la categoría cuyo conteo más reciente es el más
// antiguo. Las categorías jamás contadas ordenan primero (fecha centinela).
func (r *AuditRepo) LeastAuditedCategory(ctx context.Context) (*int64, error) {
	query := `
		SELECT p.category_id
		FROM parts p
		LEFT JOIN stock s ON s.part_id = p.id
			AND s.location_type = 'warehouse' AND s.location_id = $1
		WHERE p.deprecated = false AND p.category_id IS NOT NULL
		GROUP BY p.category_id
		ORDER BY MAX(COALESCE(s.last_counted, '2000-01-01'::timestamptz)) ASC
		LIMIT 1`
	var categoryID int64
	err := r.q.QueryRow(ctx, query, entity.MainWarehouseID).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("least audited category: %w", err)
	}
	return &categoryID, nil
}

// RollingParts arma el próximo lote: repuestos de la categoría con el conteo
// más antiguo primero, luego por estante y nombre.
func (r *AuditRepo) RollingParts(ctx context.Context, categoryID int64, limit int) ([]*entity.Part, error) {
	query := `
		SELECT p.id, p.name, p.part_number, p.category_id, p.style_id, p.type_id,
			p.unit_cost, p.unit_sell, p.min_stock, p.max_stock, p.target_stock,
			p.shelf_location, p.bin_location, p.deprecated, p.created_at, p.updated_at
		FROM parts p
		LEFT JOIN stock s ON s.part_id = p.id
			AND s.location_type = 'warehouse' AND s.location_id = $1
		WHERE p.category_id = $2 AND p.deprecated = false
		GROUP BY p.id
		ORDER BY MAX(COALESCE(s.last_counted, '2000-01-01'::timestamptz)) ASC,
			p.shelf_location ASC NULLS LAST, p.name ASC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, entity.MainWarehouseID, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("rolling parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rolling part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
