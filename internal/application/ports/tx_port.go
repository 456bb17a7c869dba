package ports

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// TxRepos repositorios ligados a una misma transacción. El ejecutor de
// movimientos y los ajustes de auditoría mutan el libro mayor solo a través
// de estas instancias.
type TxRepos struct {
	Stock     repository.StockRepository
	Logs      repository.MovementLogRepository
	Staging   repository.StagingTagRepository
	Parts     repository.PartRepository
	Prefs     repository.PreferenceRepository
	Suppliers repository.SupplierRepository
	Audits    repository.AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: si fn devuelve error se
// hace rollback de todo, si no, commit. Un lote de movimiento entra completo
// o no entra.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
