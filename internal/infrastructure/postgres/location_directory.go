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

var _ repository.LocationDirectory = (*LocationDirectoryRepo)(nil)

// LocationDirectoryRepo resuelve nombres de ubicaciones contra PostgreSQL.
type LocationDirectoryRepo struct {
	q Querier
}

// NewLocationDirectory construye el adaptador. Acepta pool o tx (Querier).
func NewLocationDirectory(q Querier) *LocationDirectoryRepo {
	return &LocationDirectoryRepo{q: q}
}

// DisplayName devuelve el nombre legible de la ubicación. Bodega y preparación
// son fijas; camiones y trabajos se buscan por id y devuelven ErrNotFound si
// no existen.
func (r *LocationDirectoryRepo) DisplayName(ctx context.Context, loc entity.Location) (string, error) {
	switch loc.Type {
	case entity.LocationWarehouse:
		return "Bodega", nil
	case entity.LocationStaging:
		return "Preparación", nil
	case entity.LocationTruck:
		var name, techName string
		err := r.q.QueryRow(ctx, `SELECT name, tech_name FROM trucks WHERE id = $1`, loc.ID).
			Scan(&name, &techName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", domain.ErrNotFound
			}
			return "", fmt.Errorf("get truck name: %w", err)
		}
		if techName != "" {
			return fmt.Sprintf("%s (%s)", name, techName), nil
		}
		return name, nil
	case entity.LocationJob:
		var code, name string
		err := r.q.QueryRow(ctx, `SELECT code, name FROM jobs WHERE id = $1`, loc.ID).
			Scan(&code, &name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", domain.ErrNotFound
			}
			return "", fmt.Errorf("get job name: %w", err)
		}
		return fmt.Sprintf("Trabajo #%s - %s", code, name), nil
	}
	return "", domain.ErrNotFound
}

func (r *LocationDirectoryRepo) ListTrucks(ctx context.Context) ([]*entity.Truck, error) {
	query := `SELECT id, name, tech_name, active FROM trucks WHERE active = true ORDER BY name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trucks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Truck
	for rows.Next() {
		var t entity.Truck
		if err := rows.Scan(&t.ID, &t.Name, &t.TechName, &t.Active); err != nil {
			return nil, fmt.Errorf("scan truck: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *LocationDirectoryRepo) ListJobs(ctx context.Context, onlyActive bool) ([]*entity.Job, error) {
	query := `SELECT id, code, name, active FROM jobs`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY code ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Job
	for rows.Next() {
		var j entity.Job
		if err := rows.Scan(&j.ID, &j.Code, &j.Name, &j.Active); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, &j)
	}
	return list, rows.Err()
}
