package movement

import "context"

// PostCommitRefresher recalcula pronóstico y centinela de un repuesto después
// de que el lote quedó confirmado. Es mejor esfuerzo: sus errores se registran
// y jamás revierten el movimiento ya hecho.
type PostCommitRefresher interface {
	RefreshPart(ctx context.Context, partID int64) error
}
