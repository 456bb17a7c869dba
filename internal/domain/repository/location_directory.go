package repository

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// LocationDirectory define el puerto, de solo lectura, hacia camiones y
// trabajos (colaboradores externos): el motor solo necesita nombres para
// mostrar y validar que el destino exista.
type LocationDirectory interface {
	// DisplayName nombre legible de la ubicación ("Bodega", "Camión de Mike",
	// "Trabajo #4512 - Casa López"). Error ErrNotFound si truck/job no existe.
	DisplayName(ctx context.Context, loc entity.Location) (string, error)
	ListTrucks(ctx context.Context) ([]*entity.Truck, error)
	ListJobs(ctx context.Context, onlyActive bool) ([]*entity.Job, error)
}
