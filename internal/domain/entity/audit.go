package entity

import "time"

// Tipos de auditoría (estrategia de selección de ítems).
const (
	AuditTypeSpotCheck = "spot_check" // lista explícita de repuestos
	AuditTypeCategory  = "category"   // toda una categoría
	AuditTypeRolling   = "rolling"    // lote automático de cobertura continua
)

// Estados de una sesión de auditoría. completed es terminal.
const (
	AuditStatusInProgress = "in_progress"
	AuditStatusPaused     = "paused"
	AuditStatusCompleted  = "completed"
)

// Resultados por ítem. pending es el único estado no terminal.
const (
	AuditResultPending     = "pending"
	AuditResultMatch       = "match"
	AuditResultDiscrepancy = "discrepancy"
	AuditResultSkipped     = "skipped"
)

// RollingBatchLimit máximo de repuestos por sesión rolling.
const RollingBatchLimit = 50

// Audit es una sesión de conteo físico. Los contadores de resumen
// (TotalItems..Discrepancies) se cachean y se refrescan en cada conteo.
type Audit struct {
	ID            int64
	AuditType     string
	LocationType  LocationType
	LocationID    int64
	CategoryID    *int64
	Status        string
	StartedBy     string
	Notes         string
	TotalItems    int
	CountedItems  int
	Matched       int
	Discrepancies int
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// Open reporta si la sesión sigue abierta (contando o pausada).
func (a *Audit) Open() bool {
	return a.Status == AuditStatusInProgress || a.Status == AuditStatusPaused
}

// AuditItem es un repuesto a contar dentro de una sesión. ExpectedQty se
// congela desde el libro mayor al iniciar la sesión; ActualQty lo pone el
// operario; Result es terminal una vez deja pending.
type AuditItem struct {
	ID          int64
	AuditID     int64
	PartID      int64
	ExpectedQty int
	ActualQty   *int
	Result      string
	Note        string
	PhotoPath   *string
	CountedAt   *time.Time
}

// Diff devuelve actual - esperado; 0 si aún no se contó.
func (i *AuditItem) Diff() int {
	if i.ActualQty == nil {
		return 0
	}
	return *i.ActualQty - i.ExpectedQty
}
