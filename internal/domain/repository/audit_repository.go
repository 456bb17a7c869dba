package repository

import (
	"context"
	"time"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// AuditItemDetail ítem de auditoría con los datos del repuesto necesarios
// para pintar la sesión (nombre, código, estante).
type AuditItemDetail struct {
	entity.AuditItem
	PartName      string
	PartNumber    string
	ShelfLocation *string
}

// AuditRepository define el puerto de sesiones de auditoría y sus ítems.
type AuditRepository interface {
	Create(ctx context.Context, audit *entity.Audit) error // asigna audit.ID
	GetByID(ctx context.Context, id int64) (*entity.Audit, error)
	List(ctx context.Context, status *string, limit int) ([]*entity.Audit, error)
	UpdateStatus(ctx context.Context, id int64, status string, completedAt *time.Time) error
	// RefreshSummary recalcula los contadores cacheados de la sesión a partir
	// de sus ítems.
	RefreshSummary(ctx context.Context, id int64) error

	InsertItems(ctx context.Context, auditID int64, items []*entity.AuditItem) error
	Items(ctx context.Context, auditID int64) ([]*entity.AuditItem, error)
	// ItemsDetailed ítems con nombre, código y estante del repuesto, en el
	// orden de inserción (el de la estrategia de selección).
	ItemsDetailed(ctx context.Context, auditID int64) ([]*AuditItemDetail, error)
	GetItem(ctx context.Context, auditID, itemID int64) (*entity.AuditItem, error)
	// NextPendingItem siguiente ítem pendiente: primero los que tienen
	// estante (orden de pasillo), luego por nombre. nil si no quedan.
	NextPendingItem(ctx context.Context, auditID int64) (*entity.AuditItem, error)
	RecordCount(ctx context.Context, itemID int64, actualQty *int, result, note string, photoPath *string) error

	// OpenSpotCheckExistsForPart reporta si hay una revisión puntual abierta
	// (in_progress o paused) que ya incluya el repuesto.
	OpenSpotCheckExistsForPart(ctx context.Context, partID int64) (bool, error)
	// LeastAuditedCategory categoría cuyos repuestos llevan más tiempo sin
	// auditarse (estrategia rolling); nil si no hay categorías.
	LeastAuditedCategory(ctx context.Context) (*int64, error)
	// RollingParts repuestos de la categoría para el próximo lote rolling,
	// ordenados por último conteo más antiguo, estante y nombre.
	RollingParts(ctx context.Context, categoryID int64, limit int) ([]*entity.Part, error)
}
