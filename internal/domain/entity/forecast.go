package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysUntilLowNotAtRisk valor centinela de DaysUntilLow cuando no hay consumo
// y el stock está por encima del mínimo.
const DaysUntilLowNotAtRisk = 999

// Forecast estadísticas derivadas de consumo por repuesto. Se recalculan
// completas (no incrementales) después de cada movimiento que toca el
// repuesto; el recálculo es idempotente.
type Forecast struct {
	PartID         int64
	ADU30          decimal.Decimal // uso promedio diario, ventana 30 días
	ADU90          decimal.Decimal // ventana 90 días
	ReorderPoint   int             // min_stock + floor(adu_30 * 7)
	SuggestedOrder int             // max(0, target_stock - qty bodega)
	DaysUntilLow   int             // -1 = ya bajo mínimo; 999 = sin riesgo
	ComputedAt     time.Time
}
