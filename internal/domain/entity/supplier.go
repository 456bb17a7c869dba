package entity

import "time"

// Supplier representa un proveedor del catálogo.
type Supplier struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
}
