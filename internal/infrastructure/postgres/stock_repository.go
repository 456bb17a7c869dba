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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL.
//
// Las deducciones nunca leen-modifican-escriben: son UPDATEs con la guarda
// "qty >= n" en el WHERE, y el número de filas afectadas decide si la
// operación aplicó. Dos transacciones compitiendo por la misma fila jamás
// dejan cantidades negativas.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, part_id, location_type, location_id, supplier_id, qty, last_counted, updated_at`

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(
		&s.ID, &s.PartID, &s.LocationType, &s.LocationID,
		&s.SupplierID, &s.Qty, &s.LastCounted, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) Get(ctx context.Context, partID int64, loc entity.Location, supplierID *int64) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3
		  AND supplier_id IS NOT DISTINCT FROM $4`
	s, err := scanStock(r.q.QueryRow(ctx, query, partID, loc.Type, loc.ID, supplierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock row: %w", err)
	}
	return s, nil
}

func (r *StockRepo) ListAt(ctx context.Context, partID int64, loc entity.Location) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3
		ORDER BY updated_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, partID, loc.Type, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("list stock rows: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StockRepo) TotalAt(ctx context.Context, partID int64, loc entity.Location) (int, error) {
	query := `
		SELECT COALESCE(SUM(qty), 0)
		FROM stock
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3`
	var total int
	if err := r.q.QueryRow(ctx, query, partID, loc.Type, loc.ID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum stock at location: %w", err)
	}
	return total, nil
}

// DeductExact descuenta qty de la fila (repuesto, ubicación, proveedor) solo si
// esa fila aún tiene cantidad suficiente en el momento de escribir. Si otra
// transacción se adelantó, RowsAffected es 0 y se reporta applied=false.
func (r *StockRepo) DeductExact(ctx context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (bool, error) {
	query := `
		UPDATE stock
		SET qty = qty - $4, updated_at = now()
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3
		  AND supplier_id IS NOT DISTINCT FROM $5
		  AND qty >= $4`
	tag, err := r.q.Exec(ctx, query, partID, loc.Type, loc.ID, qty, supplierID)
	if err != nil {
		return false, fmt.Errorf("deduct stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StockRepo) DeductRow(ctx context.Context, stockID int64, qty int) (bool, error) {
	query := `
		UPDATE stock
		SET qty = qty - $2, updated_at = now()
		WHERE id = $1 AND qty >= $2`
	tag, err := r.q.Exec(ctx, query, stockID, qty)
	if err != nil {
		return false, fmt.Errorf("deduct stock row: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Add incrementa la fila destino o la crea si no existe. Si otra transacción
// crea la misma fila entre el UPDATE fallido y el INSERT, el INSERT choca con
// la restricción única y se reintenta el UPDATE una vez.
func (r *StockRepo) Add(ctx context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (int64, error) {
	update := `
		UPDATE stock
		SET qty = qty + $4, updated_at = now()
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3
		  AND supplier_id IS NOT DISTINCT FROM $5
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, update, partID, loc.Type, loc.ID, qty, supplierID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("add stock: %w", err)
	}

	insert := `
		INSERT INTO stock (part_id, location_type, location_id, supplier_id, qty, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id`
	err = r.q.QueryRow(ctx, insert, partID, loc.Type, loc.ID, supplierID, qty).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !isUniqueViolation(err) {
		return 0, fmt.Errorf("insert stock: %w", err)
	}
	if err := r.q.QueryRow(ctx, update, partID, loc.Type, loc.ID, qty, supplierID).Scan(&id); err != nil {
		return 0, fmt.Errorf("add stock after conflict: %w", err)
	}
	return id, nil
}

func (r *StockRepo) AdjustFloored(ctx context.Context, stockID int64, diff int) error {
	query := `
		UPDATE stock
		SET qty = GREATEST(0, qty + $2), updated_at = now()
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, stockID, diff); err != nil {
		return fmt.Errorf("adjust stock row: %w", err)
	}
	return nil
}

func (r *StockRepo) DeleteIfZero(ctx context.Context, stockID int64) error {
	query := `DELETE FROM stock WHERE id = $1 AND qty = 0`
	if _, err := r.q.Exec(ctx, query, stockID); err != nil {
		return fmt.Errorf("delete zero stock row: %w", err)
	}
	return nil
}

func (r *StockRepo) PruneZero(ctx context.Context, partID int64, loc entity.Location) error {
	query := `
		DELETE FROM stock
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3 AND qty = 0`
	if _, err := r.q.Exec(ctx, query, partID, loc.Type, loc.ID); err != nil {
		return fmt.Errorf("prune zero stock rows: %w", err)
	}
	return nil
}

func (r *StockRepo) UpdateLastCounted(ctx context.Context, partID int64, loc entity.Location, at time.Time) error {
	query := `
		UPDATE stock
		SET last_counted = $4
		WHERE part_id = $1 AND location_type = $2 AND location_id = $3`
	if _, err := r.q.Exec(ctx, query, partID, loc.Type, loc.ID, at); err != nil {
		return fmt.Errorf("update last counted: %w", err)
	}
	return nil
}

func (r *StockRepo) WarehouseQty(ctx context.Context, partID int64) (int, error) {
	return r.TotalAt(ctx, partID, entity.Location{Type: entity.LocationWarehouse, ID: entity.MainWarehouseID})
}
