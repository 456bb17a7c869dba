package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// ApplyAdjustments convierte cada discrepancia de una sesión completada en un
// movimiento de ajuste: lo que sobró entra a la ubicación auditada, lo que
// faltó se descuenta con piso en cero. Cada ítem va en su propia transacción,
// así el fallo de uno no bloquea a los demás; es la única vía por la que el
// conteo físico corrige el libro mayor.
func (uc *UseCase) ApplyAdjustments(ctx context.Context, performer string, auditID int64) (*dto.AdjustmentsResult, error) {
	audit, err := uc.getAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.Status != entity.AuditStatusCompleted {
		return nil, fmt.Errorf("%w: los ajustes se aplican sobre sesiones completadas", domain.ErrConflict)
	}
	applied, err := uc.adjustmentsApplied(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, fmt.Errorf("%w: los ajustes de la auditoría %d ya fueron aplicados", domain.ErrConflict, auditID)
	}

	items, err := uc.audits.Items(ctx, auditID)
	if err != nil {
		return nil, err
	}

	loc := entity.Location{Type: audit.LocationType, ID: audit.LocationID}
	batchID := uuid.New().String()
	result := &dto.AdjustmentsResult{}
	var touched []int64
	for _, item := range items {
		if item.Result != entity.AuditResultDiscrepancy || item.ActualQty == nil {
			continue
		}
		diff := item.Diff()
		if diff == 0 {
			continue
		}
		if err := uc.applyOne(ctx, audit, item, loc, diff, batchID, performer); err != nil {
			uc.log.Warn().Err(err).
				Int64("audit_id", auditID).
				Int64("part_id", item.PartID).
				Msg("ajuste de auditoría falló")
			result.Failed++
			continue
		}
		result.Applied++
		touched = append(touched, item.PartID)
	}

	for _, partID := range touched {
		if err := uc.refresher.RefreshPart(ctx, partID); err != nil {
			uc.log.Warn().Err(err).Int64("part_id", partID).Msg("recálculo post-ajuste falló")
		}
	}
	if result.Applied > 0 {
		uc.log.Info().
			Int64("audit_id", auditID).
			Int("applied", result.Applied).
			Int("failed", result.Failed).
			Str("performed_by", performer).
			Msg("ajustes de auditoría aplicados")
	}
	return result, nil
}

func (uc *UseCase) applyOne(ctx context.Context, audit *entity.Audit, item *entity.AuditItem, loc entity.Location, diff int, batchID, performer string) error {
	return uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		part, err := repos.Parts.GetByID(ctx, item.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return fmt.Errorf("%w: %d", domain.ErrPartNotFound, item.PartID)
		}

		logEntry := &entity.MovementLog{
			BatchID:     batchID,
			PartID:      part.ID,
			Kind:        entity.MovementAdjust,
			Reference:   auditReference(audit.ID),
			PerformedBy: performer,
			PhotoPath:   item.PhotoPath,
			UnitCost:    part.UnitCost,
			UnitSell:    part.UnitSell,
		}
		if diff > 0 {
			// lo encontrado de más entra como stock anónimo: el origen se perdió
			if _, err := repos.Stock.Add(ctx, part.ID, loc, nil, diff); err != nil {
				return err
			}
			logEntry.Qty = diff
			logEntry.ToType = &loc.Type
			logEntry.ToID = &loc.ID
			logEntry.Reason = fmt.Sprintf("Auditoría #%d: %d de más en el conteo", audit.ID, diff)
		} else {
			if err := uc.deductFloored(ctx, repos, part.ID, loc, -diff); err != nil {
				return err
			}
			logEntry.Qty = -diff
			logEntry.FromType = &loc.Type
			logEntry.FromID = &loc.ID
			logEntry.Reason = fmt.Sprintf("Auditoría #%d: faltan %d en el conteo", audit.ID, -diff)
		}
		if err := repos.Stock.UpdateLastCounted(ctx, part.ID, loc, time.Now()); err != nil {
			return err
		}
		return repos.Logs.Create(ctx, logEntry)
	})
}

// deductFloored descuenta hasta qty unidades en orden FIFO sin dejar
// negativos: si el libro tiene menos que qty se descuenta lo que haya. Las
// filas vaciadas se eliminan.
func (uc *UseCase) deductFloored(ctx context.Context, repos ports.TxRepos, partID int64, loc entity.Location, qty int) error {
	rows, err := repos.Stock.ListAt(ctx, partID, loc)
	if err != nil {
		return err
	}
	remaining := qty
	for _, row := range rows {
		if remaining == 0 {
			break
		}
		take := min(row.Qty, remaining)
		if take <= 0 {
			continue
		}
		if err := repos.Stock.AdjustFloored(ctx, row.ID, -take); err != nil {
			return err
		}
		if err := repos.Stock.DeleteIfZero(ctx, row.ID); err != nil {
			return err
		}
		remaining -= take
	}
	return nil
}
