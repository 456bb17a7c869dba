package entity

// LocationType identifica el tipo de lugar donde puede residir stock.
type LocationType string

// Tipos de ubicación válidos. "staging" corresponde al área de preparación
// (material apartado para un destino, todavía en bodega física).
const (
	LocationWarehouse LocationType = "warehouse"
	LocationStaging   LocationType = "staging"
	LocationTruck     LocationType = "truck"
	LocationJob       LocationType = "job"
)

// MainWarehouseID id fijo de la bodega principal (sistema de bodega única).
const MainWarehouseID int64 = 1

// Valid reporta si el tipo de ubicación es uno de los cuatro soportados.
func (t LocationType) Valid() bool {
	switch t {
	case LocationWarehouse, LocationStaging, LocationTruck, LocationJob:
		return true
	}
	return false
}

// Location identifica un punto concreto (tipo + id) donde reside stock.
// Para warehouse y staging el id es el de la bodega; para truck/job, el del
// camión o trabajo.
type Location struct {
	Type LocationType
	ID   int64
}
