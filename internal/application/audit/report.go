package audit

import (
	"context"
	"fmt"

	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// ReportGenerator puerto del generador del informe imprimible de una sesión.
// La implementación vive en infrastructure/pdf.
type ReportGenerator interface {
	GenerateAuditReport(ctx context.Context, session *entity.Audit, items []*repository.AuditItemDetail) ([]byte, error)
}

// ReportUseCase produce el informe descargable de una auditoría, abierta o
// cerrada: una sesión en curso genera un informe parcial con los pendientes
// marcados.
type ReportUseCase struct {
	audits    repository.AuditRepository
	generator ReportGenerator
}

// NewReportUseCase construye el caso de uso del informe.
func NewReportUseCase(audits repository.AuditRepository, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{audits: audits, generator: generator}
}

// Download carga la sesión con sus ítems enriquecidos y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrAuditNotFound si la sesión no existe.
func (uc *ReportUseCase) Download(ctx context.Context, auditID int64) (pdfBytes []byte, filename string, err error) {
	session, err := uc.audits.GetByID(ctx, auditID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener auditoría: %w", err)
	}
	if session == nil {
		return nil, "", fmt.Errorf("%w: %d", domain.ErrAuditNotFound, auditID)
	}

	items, err := uc.audits.ItemsDetailed(ctx, auditID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener ítems: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateAuditReport(ctx, session, items)
	if err != nil {
		return nil, "", fmt.Errorf("informe: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("auditoria_%d.pdf", session.ID), nil
}
