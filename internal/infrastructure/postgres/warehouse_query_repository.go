package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.WarehouseQueryRepository = (*WarehouseQueryRepo)(nil)

// WarehouseQueryRepo consultas de solo lectura para el dashboard y las vistas
// de bodega. Nunca escribe; los agregados se calculan en la base.
type WarehouseQueryRepo struct {
	pool *pgxpool.Pool
}

// NewWarehouseQueryRepository construye el adaptador de lectura de bodega.
func NewWarehouseQueryRepository(pool *pgxpool.Pool) *WarehouseQueryRepo {
	return &WarehouseQueryRepo{pool: pool}
}

// TotalWarehouseUnits unidades totales en la bodega principal.
func (r *WarehouseQueryRepo) TotalWarehouseUnits(ctx context.Context) (int, error) {
	const query = `
		SELECT COALESCE(SUM(qty), 0)
		FROM stock
		WHERE location_type = 'warehouse' AND location_id = $1`
	var total int
	if err := r.pool.QueryRow(ctx, query, entity.MainWarehouseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("warehouse.TotalUnits: %w", err)
	}
	return total, nil
}

// WarehouseValue valor del inventario de bodega a costo unitario vigente.
func (r *WarehouseQueryRepo) WarehouseValue(ctx context.Context) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(s.qty * p.unit_cost), 0)
		FROM stock s
		JOIN parts p ON p.id = s.part_id
		WHERE s.location_type = 'warehouse' AND s.location_id = $1`
	var value decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, entity.MainWarehouseID).Scan(&value); err != nil {
		return decimal.Zero, fmt.Errorf("warehouse.Value: %w", err)
	}
	return value, nil
}

// StockHealthCounts cuenta repuestos dentro de su rango min..max sobre los
// considerados. Excluye deprecados y repuestos en desmonte (target 0).
func (r *WarehouseQueryRepo) StockHealthCounts(ctx context.Context) (within, considered int, err error) {
	const query = `
		SELECT
		    COUNT(*) FILTER (
		        WHERE COALESCE(w.qty, 0) >= p.min_stock
		          AND (p.max_stock = 0 OR COALESCE(w.qty, 0) <= p.max_stock)
		    )        AS within_range,
		    COUNT(*) AS considered
		FROM parts p
		LEFT JOIN (
		    SELECT part_id, SUM(qty) AS qty
		    FROM stock
		    WHERE location_type = 'warehouse' AND location_id = $1
		    GROUP BY part_id
		) w ON w.part_id = p.id
		WHERE p.deprecated = false AND p.target_stock > 0`
	err = r.pool.QueryRow(ctx, query, entity.MainWarehouseID).Scan(&within, &considered)
	if err != nil {
		return 0, 0, fmt.Errorf("warehouse.StockHealthCounts: %w", err)
	}
	return within, considered, nil
}

// ShortfallCount repuestos por debajo de su mínimo (excluye en desmonte).
func (r *WarehouseQueryRepo) ShortfallCount(ctx context.Context) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM parts p
		LEFT JOIN (
		    SELECT part_id, SUM(qty) AS qty
		    FROM stock
		    WHERE location_type = 'warehouse' AND location_id = $1
		    GROUP BY part_id
		) w ON w.part_id = p.id
		WHERE p.deprecated = false
		  AND p.target_stock > 0
		  AND COALESCE(w.qty, 0) < p.min_stock`
	var count int
	if err := r.pool.QueryRow(ctx, query, entity.MainWarehouseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("warehouse.ShortfallCount: %w", err)
	}
	return count, nil
}

// InventoryRows grilla de inventario: bodega y preparación por repuesto.
func (r *WarehouseQueryRepo) InventoryRows(ctx context.Context) ([]repository.InventoryRow, error) {
	const query = `
		SELECT
		    p.id,
		    p.name,
		    p.part_number,
		    p.shelf_location,
		    COALESCE(w.qty, 0)  AS warehouse_qty,
		    COALESCE(st.qty, 0) AS staged_qty,
		    p.min_stock,
		    p.max_stock,
		    p.target_stock,
		    p.unit_cost
		FROM parts p
		LEFT JOIN (
		    SELECT part_id, SUM(qty) AS qty
		    FROM stock
		    WHERE location_type = 'warehouse' AND location_id = $1
		    GROUP BY part_id
		) w ON w.part_id = p.id
		LEFT JOIN (
		    SELECT part_id, SUM(qty) AS qty
		    FROM stock
		    WHERE location_type = 'staging'
		    GROUP BY part_id
		) st ON st.part_id = p.id
		WHERE p.deprecated = false
		  AND (COALESCE(w.qty, 0) > 0 OR COALESCE(st.qty, 0) > 0 OR p.target_stock > 0)
		ORDER BY p.name ASC`
	rows, err := r.pool.Query(ctx, query, entity.MainWarehouseID)
	if err != nil {
		return nil, fmt.Errorf("warehouse.InventoryRows: %w", err)
	}
	defer rows.Close()

	var results []repository.InventoryRow
	for rows.Next() {
		var row repository.InventoryRow
		if err := rows.Scan(
			&row.PartID, &row.Name, &row.PartNumber, &row.ShelfLocation,
			&row.WarehouseQty, &row.StagedQty,
			&row.MinStock, &row.MaxStock, &row.TargetStock, &row.UnitCost,
		); err != nil {
			return nil, fmt.Errorf("warehouse.InventoryRows scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ActivityRows últimos movimientos con nombre de repuesto, más reciente primero.
func (r *WarehouseQueryRepo) ActivityRows(ctx context.Context, limit int) ([]repository.ActivityRow, error) {
	const query = `
		SELECT m.id, m.kind, m.qty, p.name, m.performed_by,
		    m.from_type, m.from_id, m.to_type, m.to_id, m.created_at
		FROM movement_logs m
		JOIN parts p ON p.id = m.part_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("warehouse.ActivityRows: %w", err)
	}
	defer rows.Close()

	var results []repository.ActivityRow
	for rows.Next() {
		var row repository.ActivityRow
		if err := rows.Scan(
			&row.LogID, &row.Kind, &row.Qty, &row.PartName, &row.PerformerName,
			&row.FromType, &row.FromID, &row.ToType, &row.ToID, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("warehouse.ActivityRows scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// StagingRows stock en preparación con su etiqueta de destino si existe,
// lo más antiguo primero (lo que lleva más tiempo esperando salir).
func (r *WarehouseQueryRepo) StagingRows(ctx context.Context) ([]repository.StagingRow, error) {
	const query = `
		SELECT
		    s.id,
		    s.part_id,
		    p.name,
		    p.part_number,
		    s.qty,
		    sup.name                            AS supplier_name,
		    t.destination_type,
		    t.destination_id,
		    t.destination_label,
		    t.tagged_by,
		    COALESCE(t.tagged_at, s.updated_at) AS staged_at
		FROM stock s
		JOIN parts p ON p.id = s.part_id
		LEFT JOIN suppliers sup ON sup.id = s.supplier_id
		LEFT JOIN staging_tags t ON t.stock_id = s.id
		WHERE s.location_type = 'staging' AND s.qty > 0
		ORDER BY staged_at ASC, s.id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("warehouse.StagingRows: %w", err)
	}
	defer rows.Close()

	var results []repository.StagingRow
	for rows.Next() {
		var row repository.StagingRow
		if err := rows.Scan(
			&row.StockID, &row.PartID, &row.PartName, &row.PartNumber, &row.Qty,
			&row.SupplierName, &row.DestinationType, &row.DestinationID,
			&row.DestinationLabel, &row.TaggedBy, &row.StagedAt,
		); err != nil {
			return nil, fmt.Errorf("warehouse.StagingRows scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// BelowMinRows repuestos bajo su mínimo ordenados por mayor déficit, con la
// cantidad sugerida a pedir si hay pronóstico.
func (r *WarehouseQueryRepo) BelowMinRows(ctx context.Context, limit int) ([]repository.LowStockRow, error) {
	const query = `
		SELECT
		    p.id,
		    p.name,
		    COALESCE(w.qty, 0) AS warehouse_qty,
		    p.min_stock,
		    f.suggested_order
		FROM parts p
		LEFT JOIN (
		    SELECT part_id, SUM(qty) AS qty
		    FROM stock
		    WHERE location_type = 'warehouse' AND location_id = $1
		    GROUP BY part_id
		) w ON w.part_id = p.id
		LEFT JOIN forecasts f ON f.part_id = p.id
		WHERE p.deprecated = false
		  AND p.target_stock > 0
		  AND COALESCE(w.qty, 0) < p.min_stock
		ORDER BY (p.min_stock - COALESCE(w.qty, 0)) DESC, p.name ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, entity.MainWarehouseID, limit)
	if err != nil {
		return nil, fmt.Errorf("warehouse.BelowMinRows: %w", err)
	}
	defer rows.Close()

	var results []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(
			&row.PartID, &row.Name, &row.WarehouseQty, &row.MinStock, &row.SuggestedOrder,
		); err != nil {
			return nil, fmt.Errorf("warehouse.BelowMinRows scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
