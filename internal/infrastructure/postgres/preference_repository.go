package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

var _ repository.PreferenceRepository = (*PreferenceRepo)(nil)

// PreferenceRepo implementación de PreferenceRepository sobre PostgreSQL.
type PreferenceRepo struct {
	q Querier
}

// NewPreferenceRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPreferenceRepository(q Querier) *PreferenceRepo {
	return &PreferenceRepo{q: q}
}

func (r *PreferenceRepo) GetByScope(ctx context.Context, scope string, scopeID int64) (*entity.SupplierPreference, error) {
	query := `
		SELECT id, scope, scope_id, supplier_id, updated_by, updated_at
		FROM supplier_preferences
		WHERE scope = $1 AND scope_id = $2`
	var p entity.SupplierPreference
	err := r.q.QueryRow(ctx, query, scope, scopeID).Scan(
		&p.ID, &p.Scope, &p.ScopeID, &p.SupplierID, &p.UpdatedBy, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier preference: %w", err)
	}
	return &p, nil
}

// Upsert fija el proveedor preferido del ámbito; reemplaza el anterior si
// existía. Un supplier_id inexistente se reporta como entrada inválida.
func (r *PreferenceRepo) Upsert(ctx context.Context, pref *entity.SupplierPreference) error {
	query := `
		INSERT INTO supplier_preferences (scope, scope_id, supplier_id, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope, scope_id)
		DO UPDATE SET supplier_id = EXCLUDED.supplier_id,
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING id, updated_at`
	err := r.q.QueryRow(ctx, query, pref.Scope, pref.ScopeID, pref.SupplierID, pref.UpdatedBy).
		Scan(&pref.ID, &pref.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("upsert supplier preference: %w", err)
	}
	return nil
}

func (r *PreferenceRepo) Delete(ctx context.Context, scope string, scopeID int64) error {
	query := `DELETE FROM supplier_preferences WHERE scope = $1 AND scope_id = $2`
	if _, err := r.q.Exec(ctx, query, scope, scopeID); err != nil {
		return fmt.Errorf("delete supplier preference: %w", err)
	}
	return nil
}
