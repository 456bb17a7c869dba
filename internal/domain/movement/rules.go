// Package movement contiene las reglas puras del motor de movimientos:
// qué rutas (origen -> destino) son legales, qué clase de movimiento implica
// cada una y cuáles exigen foto. No depende de la capa de almacenamiento.
package movement

import "github.com/jportillac/servicampo-api/internal/domain/entity"

// Path es una ruta (tipo origen, tipo destino).
type Path struct {
	From entity.LocationType
	To   entity.LocationType
}

// Rule clase de movimiento y exigencia de foto para una ruta legal.
type Rule struct {
	Kind          string // transfer, consume, return
	PhotoRequired bool
}

// pathRules tabla cerrada de rutas legales. Cualquier par fuera de esta
// tabla se rechaza antes de validar repuestos o cantidades.
var pathRules = map[Path]Rule{
	{entity.LocationWarehouse, entity.LocationStaging}: {Kind: entity.MovementTransfer, PhotoRequired: false},
	{entity.LocationStaging, entity.LocationTruck}:     {Kind: entity.MovementTransfer, PhotoRequired: false},
	{entity.LocationWarehouse, entity.LocationTruck}:   {Kind: entity.MovementTransfer, PhotoRequired: false},
	{entity.LocationTruck, entity.LocationJob}:         {Kind: entity.MovementConsume, PhotoRequired: true},
	{entity.LocationJob, entity.LocationTruck}:         {Kind: entity.MovementReturn, PhotoRequired: true},
	{entity.LocationTruck, entity.LocationWarehouse}:   {Kind: entity.MovementReturn, PhotoRequired: false},
	{entity.LocationStaging, entity.LocationWarehouse}: {Kind: entity.MovementReturn, PhotoRequired: false},
}

// LookupRule devuelve la regla de la ruta, o ok=false si la ruta no es legal.
func LookupRule(from, to entity.LocationType) (Rule, bool) {
	r, ok := pathRules[Path{From: from, To: to}]
	return r, ok
}

// LegalPaths devuelve las rutas legales (orden no garantizado). Útil para
// exponer la tabla al frontend del asistente de movimientos.
func LegalPaths() []Path {
	paths := make([]Path, 0, len(pathRules))
	for p := range pathRules {
		paths = append(paths, p)
	}
	return paths
}
