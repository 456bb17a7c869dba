package movement

import (
	"context"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// HistoryUseCase consulta el libro de movimientos. Solo lectura.
type HistoryUseCase struct {
	logs repository.MovementLogRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(logs repository.MovementLogRepository) *HistoryUseCase {
	return &HistoryUseCase{logs: logs}
}

// List devuelve el historial filtrado, más reciente primero.
func (uc *HistoryUseCase) List(ctx context.Context, filter dto.MovementHistoryFilter) ([]dto.MovementLogEntry, error) {
	repoFilter := repository.MovementLogFilter{
		PartID:    filter.PartID,
		Kind:      filter.Kind,
		JobID:     filter.JobID,
		Reference: filter.Reference,
		Limit:     filter.Limit,
	}
	if filter.LocationType != nil {
		lt := entity.LocationType(*filter.LocationType)
		repoFilter.LocationType = &lt
		repoFilter.LocationID = filter.LocationID
	}

	logs, err := uc.logs.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.MovementLogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, toLogEntry(l))
	}
	return entries, nil
}

func toLogEntry(l *entity.MovementLog) dto.MovementLogEntry {
	e := dto.MovementLogEntry{
		ID:            l.ID,
		BatchID:       l.BatchID,
		PartID:        l.PartID,
		Qty:           l.Qty,
		FromID:        l.FromID,
		ToID:          l.ToID,
		SupplierID:    l.SupplierID,
		SupplierName:  l.SupplierName,
		Kind:          l.Kind,
		Reason:        l.Reason,
		Reference:     l.Reference,
		JobID:         l.JobID,
		PerformedBy:   l.PerformedBy,
		PhotoPath:     l.PhotoPath,
		ScanConfirmed: l.ScanConfirmed,
		UnitCost:      l.UnitCost,
		UnitSell:      l.UnitSell,
		CreatedAt:     l.CreatedAt,
	}
	if l.FromType != nil {
		ft := string(*l.FromType)
		e.FromType = &ft
	}
	if l.ToType != nil {
		tt := string(*l.ToType)
		e.ToType = &tt
	}
	return e
}
