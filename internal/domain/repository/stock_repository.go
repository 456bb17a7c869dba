package repository

import (
	"context"
	"time"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// StockRepository define el puerto del libro mayor de stock. Las deducciones
// son UPDATEs condicionados ("qty >= n" en el WHERE): si la condición ya no
// se cumple al escribir, la operación reporta applied=false y el llamador
// decide (fallback agrupado o error). Nunca leer-modificar-escribir.
type StockRepository interface {
	// Get fila exacta (part, ubicación, proveedor); nil si no existe.
	Get(ctx context.Context, partID int64, loc entity.Location, supplierID *int64) (*entity.Stock, error)
	// ListAt todas las filas de proveedor del repuesto en la ubicación,
	// ordenadas por updated_at ascendente (orden FIFO de consumo).
	ListAt(ctx context.Context, partID int64, loc entity.Location) ([]*entity.Stock, error)
	// TotalAt cantidad sumada entre todos los proveedores en la ubicación.
	TotalAt(ctx context.Context, partID int64, loc entity.Location) (int, error)

	// DeductExact descuenta qty de la fila (part, ubicación, proveedor) solo
	// si esa fila tiene qty suficiente. applied=false si no alcanzó o no existe.
	DeductExact(ctx context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (applied bool, err error)
	// DeductRow descuenta qty de una fila puntual por id, con la misma guarda.
	DeductRow(ctx context.Context, stockID int64, qty int) (applied bool, err error)
	// Add incrementa (o crea) la fila destino y devuelve su id.
	Add(ctx context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (stockID int64, err error)
	// AdjustFloored suma diff (posiblemente negativo) con piso en cero:
	// qty = GREATEST(0, qty + diff). Para ajustes de auditoría faltantes.
	AdjustFloored(ctx context.Context, stockID int64, diff int) error

	// DeleteIfZero elimina la fila si su cantidad quedó exactamente en 0.
	DeleteIfZero(ctx context.Context, stockID int64) error
	// PruneZero elimina toda fila en 0 del repuesto en la ubicación.
	PruneZero(ctx context.Context, partID int64, loc entity.Location) error

	// UpdateLastCounted marca las filas del repuesto en la ubicación como
	// contadas (auditorías).
	UpdateLastCounted(ctx context.Context, partID int64, loc entity.Location, at time.Time) error
	// WarehouseQty cantidad total del repuesto en la bodega principal.
	WarehouseQty(ctx context.Context, partID int64) (int, error)
}
