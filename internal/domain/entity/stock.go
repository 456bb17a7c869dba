package entity

import "time"

// Stock representa la cantidad disponible de un repuesto en una ubicación,
// separada por proveedor de origen (SupplierID nil = stock general sin
// proveedor conocido). Es el libro mayor del sistema: solo el ejecutor de
// movimientos lo muta, las filas con qty 0 se eliminan y qty nunca es
// negativa (UPDATE condicionado, ver StockRepository).
type Stock struct {
	ID           int64
	PartID       int64
	LocationType LocationType
	LocationID   int64
	SupplierID   *int64
	Qty          int
	LastCounted  *time.Time // última vez contado en una auditoría
	UpdatedAt    time.Time  // también define el orden FIFO de consumo
}

// Location devuelve la ubicación de la fila como value object.
func (s *Stock) Location() Location {
	return Location{Type: s.LocationType, ID: s.LocationID}
}
