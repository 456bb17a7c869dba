package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Motor de movimientos.
	ErrUnsupportedPath   = errors.New("ruta de movimiento no soportada")
	ErrPartNotFound      = errors.New("repuesto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrExecutionFailure  = errors.New("fallo de ejecución del movimiento")

	// Auditorías.
	ErrAuditNotFound     = errors.New("auditoría no encontrada")
	ErrAuditNotActive    = errors.New("la auditoría no está en progreso")
	ErrAuditCompleted    = errors.New("la auditoría ya fue completada")
	ErrAuditItemNotFound = errors.New("ítem de auditoría no encontrado")
)
