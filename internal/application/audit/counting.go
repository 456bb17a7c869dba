package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// RecordCount registra el conteo de un ítem: match si coincide con lo
// esperado, discrepancy si no, o skipped explícito. El resultado es terminal
// por ítem y el resumen cacheado de la sesión se refresca en el mismo paso.
func (uc *UseCase) RecordCount(ctx context.Context, auditID, itemID int64, req dto.AuditCountRequest) (*dto.AuditResponse, error) {
	audit, err := uc.getAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.Status != entity.AuditStatusInProgress {
		return nil, fmt.Errorf("%w: estado %s", domain.ErrAuditNotActive, audit.Status)
	}
	item, err := uc.audits.GetItem(ctx, auditID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrAuditItemNotFound, itemID)
	}
	if item.Result != entity.AuditResultPending {
		return nil, fmt.Errorf("%w: el ítem ya fue contado (%s)", domain.ErrConflict, item.Result)
	}

	var result string
	var actual *int
	switch {
	case req.Skip:
		result = entity.AuditResultSkipped
	case req.ActualQty == nil:
		return nil, fmt.Errorf("%w: falta la cantidad contada", domain.ErrInvalidInput)
	case *req.ActualQty < 0:
		return nil, fmt.Errorf("%w: la cantidad contada no puede ser negativa", domain.ErrInvalidInput)
	case *req.ActualQty == item.ExpectedQty:
		result = entity.AuditResultMatch
		actual = req.ActualQty
	default:
		result = entity.AuditResultDiscrepancy
		actual = req.ActualQty
	}

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Audits.RecordCount(ctx, itemID, actual, result, req.Note, req.PhotoPath); err != nil {
			return err
		}
		return repos.Audits.RefreshSummary(ctx, auditID)
	})
	if err != nil {
		return nil, err
	}

	refreshed, err := uc.getAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	resp := toAuditResponse(refreshed)
	return &resp, nil
}

// Pause suspende una sesión en progreso.
func (uc *UseCase) Pause(ctx context.Context, auditID int64) (*dto.AuditResponse, error) {
	return uc.transition(ctx, auditID, entity.AuditStatusInProgress, entity.AuditStatusPaused)
}

// Resume reanuda una sesión pausada.
func (uc *UseCase) Resume(ctx context.Context, auditID int64) (*dto.AuditResponse, error) {
	return uc.transition(ctx, auditID, entity.AuditStatusPaused, entity.AuditStatusInProgress)
}

func (uc *UseCase) transition(ctx context.Context, auditID int64, from, to string) (*dto.AuditResponse, error) {
	audit, err := uc.getAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.Status == entity.AuditStatusCompleted {
		return nil, domain.ErrAuditCompleted
	}
	if audit.Status != from {
		return nil, fmt.Errorf("%w: de %s no se puede pasar a %s", domain.ErrConflict, audit.Status, to)
	}
	if err := uc.audits.UpdateStatus(ctx, auditID, to, nil); err != nil {
		return nil, err
	}
	audit.Status = to
	resp := toAuditResponse(audit)
	return &resp, nil
}

// Complete cierra la sesión (estado terminal) y devuelve el resumen final,
// incluyendo si quedaron discrepancias sin aplicar al libro mayor.
func (uc *UseCase) Complete(ctx context.Context, auditID int64) (*dto.AuditSummary, error) {
	audit, err := uc.getAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.Status == entity.AuditStatusCompleted {
		return nil, domain.ErrAuditCompleted
	}

	now := time.Now()
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Audits.RefreshSummary(ctx, auditID); err != nil {
			return err
		}
		return repos.Audits.UpdateStatus(ctx, auditID, entity.AuditStatusCompleted, &now)
	})
	if err != nil {
		return nil, err
	}

	summary, err := uc.Summary(ctx, auditID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("audit_id", auditID).
		Int("counted", summary.Counted).
		Int("discrepancies", summary.Discrepancies).
		Msg("sesión de auditoría completada")
	return summary, nil
}

// Summary resumen de la sesión calculado desde sus ítems. Detecta si los
// ajustes ya se aplicaron buscando movimientos adjust con la referencia de
// esta auditoría en el libro.
func (uc *UseCase) Summary(ctx context.Context, auditID int64) (*dto.AuditSummary, error) {
	if _, err := uc.getAudit(ctx, auditID); err != nil {
		return nil, err
	}
	items, err := uc.audits.Items(ctx, auditID)
	if err != nil {
		return nil, err
	}

	s := &dto.AuditSummary{AuditID: auditID, TotalItems: len(items)}
	for _, it := range items {
		switch it.Result {
		case entity.AuditResultMatch:
			s.Matched++
		case entity.AuditResultDiscrepancy:
			s.Discrepancies++
		case entity.AuditResultSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	s.Counted = s.Matched + s.Discrepancies + s.Skipped
	s.PctComplete = pctComplete(s.Counted, s.TotalItems)
	if s.Discrepancies > 0 {
		applied, err := uc.adjustmentsApplied(ctx, auditID)
		if err != nil {
			return nil, err
		}
		s.HasUnappliedAdjustments = !applied
	}
	return s, nil
}

// adjustmentsApplied reporta si el libro ya tiene movimientos de ajuste con
// la referencia de esta auditoría.
func (uc *UseCase) adjustmentsApplied(ctx context.Context, auditID int64) (bool, error) {
	kind := entity.MovementAdjust
	ref := auditReference(auditID)
	logs, err := uc.logs.List(ctx, repository.MovementLogFilter{Kind: &kind, Reference: &ref, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(logs) > 0, nil
}

// auditReference referencia que llevan en el libro los ajustes de una
// auditoría.
func auditReference(auditID int64) string {
	return fmt.Sprintf("AUD-%d", auditID)
}
