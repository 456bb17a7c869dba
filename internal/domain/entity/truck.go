package entity

// Truck camión de un técnico; destino u origen de movimientos.
// Colaborador externo del motor: aquí solo interesa su nombre para mostrar.
type Truck struct {
	ID       int64
	Name     string
	TechName string
	Active   bool
}
