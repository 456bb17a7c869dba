package entity

import "time"

// Estados de envejecimiento del material en preparación.
const (
	StagingAgingNormal   = "normal"
	StagingAgingWarning  = "warning"  // >= 24h sin salir de preparación
	StagingAgingCritical = "critical" // >= 48h
)

// Umbrales de envejecimiento en horas.
const (
	StagingWarningHours  = 24.0
	StagingCriticalHours = 48.0
)

// StagingTag es metadata uno-a-uno sobre una fila de stock en preparación:
// a dónde va ese material y quién lo apartó. Solo sirve para visibilidad y
// envejecimiento; jamás participa en la aritmética de cantidades.
type StagingTag struct {
	StockID          int64
	DestinationType  LocationType // truck o job
	DestinationID    int64
	DestinationLabel string
	TaggedBy         string
	TaggedAt         time.Time
}

// StagingAgingStatus clasifica horas en preparación según los umbrales.
func StagingAgingStatus(hours float64) string {
	switch {
	case hours >= StagingCriticalHours:
		return StagingAgingCritical
	case hours >= StagingWarningHours:
		return StagingAgingWarning
	default:
		return StagingAgingNormal
	}
}
