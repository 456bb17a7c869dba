package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)

// MovementLogRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: las entradas nunca se actualizan ni se borran.
type MovementLogRepo struct {
	q Querier
}

// NewMovementLogRepository construye el adaptador. Acepta pool o tx (Querier).
func NewMovementLogRepository(q Querier) *MovementLogRepo {
	return &MovementLogRepo{q: q}
}

const movementLogColumns = `id, batch_id, part_id, qty, from_type, from_id, to_type, to_id,
	supplier_id, supplier_name, kind, reason, reference, job_id, performed_by,
	photo_path, scan_confirmed, unit_cost, unit_sell, created_at`

// Create persiste una entrada del libro y completa ID y CreatedAt.
func (r *MovementLogRepo) Create(ctx context.Context, log *entity.MovementLog) error {
	query := `
		INSERT INTO movement_logs (batch_id, part_id, qty, from_type, from_id, to_type, to_id,
			supplier_id, supplier_name, kind, reason, reference, job_id, performed_by,
			photo_path, scan_confirmed, unit_cost, unit_sell)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		log.BatchID, log.PartID, log.Qty, log.FromType, log.FromID, log.ToType, log.ToID,
		log.SupplierID, log.SupplierName, log.Kind, log.Reason, log.Reference, log.JobID,
		log.PerformedBy, log.PhotoPath, log.ScanConfirmed, log.UnitCost, log.UnitSell,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("create movement log: %w", err)
	}
	return nil
}

// List devuelve el historial más reciente primero, con filtros opcionales.
// El filtro de ubicación coincide contra el origen o el destino.
func (r *MovementLogRepo) List(ctx context.Context, filter repository.MovementLogFilter) ([]*entity.MovementLog, error) {
	query := `SELECT ` + movementLogColumns + ` FROM movement_logs WHERE 1=1`
	var args []any
	pos := 1
	if filter.PartID != nil {
		query += fmt.Sprintf(" AND part_id = $%d", pos)
		args = append(args, *filter.PartID)
		pos++
	}
	if filter.LocationType != nil {
		if filter.LocationID != nil {
			query += fmt.Sprintf(" AND ((from_type = $%d AND from_id = $%d) OR (to_type = $%d AND to_id = $%d))", pos, pos+1, pos, pos+1)
			args = append(args, *filter.LocationType, *filter.LocationID)
			pos += 2
		} else {
			query += fmt.Sprintf(" AND (from_type = $%d OR to_type = $%d)", pos, pos)
			args = append(args, *filter.LocationType)
			pos++
		}
	}
	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, *filter.Kind)
		pos++
	}
	if filter.JobID != nil {
		query += fmt.Sprintf(" AND job_id = $%d", pos)
		args = append(args, *filter.JobID)
		pos++
	}
	if filter.Reference != nil {
		query += fmt.Sprintf(" AND reference = $%d", pos)
		args = append(args, *filter.Reference)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementLog
	for rows.Next() {
		var m entity.MovementLog
		if err := rows.Scan(
			&m.ID, &m.BatchID, &m.PartID, &m.Qty, &m.FromType, &m.FromID, &m.ToType, &m.ToID,
			&m.SupplierID, &m.SupplierName, &m.Kind, &m.Reason, &m.Reference, &m.JobID,
			&m.PerformedBy, &m.PhotoPath, &m.ScanConfirmed, &m.UnitCost, &m.UnitSell, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement log: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ConsumedQtySince suma las salidas reales del repuesto: movimientos consume o
// transfer cuyo destino es un camión o un trabajo, desde la fecha dada.
func (r *MovementLogRepo) ConsumedQtySince(ctx context.Context, partID int64, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(qty), 0)
		FROM movement_logs
		WHERE part_id = $1
		  AND kind IN ('consume', 'transfer')
		  AND to_type IN ('truck', 'job')
		  AND created_at >= $2`
	var total int
	if err := r.q.QueryRow(ctx, query, partID, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum consumed qty: %w", err)
	}
	return total, nil
}
