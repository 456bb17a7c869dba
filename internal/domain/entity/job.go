package entity

// Job trabajo de campo; destino final del material consumido.
// Colaborador externo del motor: aquí solo interesa su nombre para mostrar.
type Job struct {
	ID     int64
	Code   string
	Name   string
	Active bool
}
