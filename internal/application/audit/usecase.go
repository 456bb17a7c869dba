package audit

import (
	"context"
	"fmt"
	"math"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

// UseCase administra las sesiones de conteo físico: inicio por estrategia,
// conteo ítem por ítem, pausa y cierre, y aplicación de los ajustes
// resultantes al libro mayor.
type UseCase struct {
	audits    repository.AuditRepository
	parts     repository.PartRepository
	stock     repository.StockRepository
	logs      repository.MovementLogRepository
	tx        ports.TxRunner
	refresher movement.PostCommitRefresher
	log       *logger.Logger
}

// NewUseCase construye el administrador de auditorías.
func NewUseCase(
	audits repository.AuditRepository,
	parts repository.PartRepository,
	stock repository.StockRepository,
	logs repository.MovementLogRepository,
	tx ports.TxRunner,
	refresher movement.PostCommitRefresher,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		audits:    audits,
		parts:     parts,
		stock:     stock,
		logs:      logs,
		tx:        tx,
		refresher: refresher,
		log:       log.Component("audit"),
	}
}

// Start crea una sesión y la puebla según la estrategia: spot_check recibe la
// lista de repuestos, category toma todos los activos de una categoría y
// rolling arma solo el siguiente lote de cobertura continua. Lo esperado de
// cada ítem se congela desde el libro mayor dentro de la misma transacción.
func (uc *UseCase) Start(ctx context.Context, performer string, req dto.AuditStartRequest) (*dto.AuditDetailResponse, error) {
	loc, err := resolveLocation(req)
	if err != nil {
		return nil, err
	}

	audit := &entity.Audit{
		AuditType:    req.AuditType,
		LocationType: loc.Type,
		LocationID:   loc.ID,
		Status:       entity.AuditStatusInProgress,
		StartedBy:    performer,
		Notes:        req.Notes,
	}

	var selected []*entity.Part
	switch req.AuditType {
	case entity.AuditTypeSpotCheck:
		if len(req.PartIDs) == 0 {
			return nil, fmt.Errorf("%w: una revisión puntual necesita repuestos", domain.ErrInvalidInput)
		}
		for _, id := range req.PartIDs {
			part, err := uc.parts.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if part == nil {
				return nil, fmt.Errorf("%w: %d", domain.ErrPartNotFound, id)
			}
			selected = append(selected, part)
		}
	case entity.AuditTypeCategory:
		if req.CategoryID == nil {
			return nil, fmt.Errorf("%w: una auditoría de categoría necesita la categoría", domain.ErrInvalidInput)
		}
		audit.CategoryID = req.CategoryID
		selected, err = uc.parts.ListByCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: la categoría %d no tiene repuestos activos", domain.ErrInvalidInput, *req.CategoryID)
		}
	case entity.AuditTypeRolling:
		categoryID, err := uc.audits.LeastAuditedCategory(ctx)
		if err != nil {
			return nil, err
		}
		if categoryID == nil {
			return nil, fmt.Errorf("%w: no hay categorías para auditar", domain.ErrInvalidInput)
		}
		audit.CategoryID = categoryID
		selected, err = uc.audits.RollingParts(ctx, *categoryID, entity.RollingBatchLimit)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: la categoría %d no tiene repuestos activos", domain.ErrInvalidInput, *categoryID)
		}
	default:
		return nil, fmt.Errorf("%w: tipo de auditoría %q", domain.ErrInvalidInput, req.AuditType)
	}

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Audits.Create(ctx, audit); err != nil {
			return err
		}
		items := make([]*entity.AuditItem, 0, len(selected))
		for _, part := range selected {
			expected, err := repos.Stock.TotalAt(ctx, part.ID, loc)
			if err != nil {
				return err
			}
			items = append(items, &entity.AuditItem{PartID: part.ID, ExpectedQty: expected})
		}
		if err := repos.Audits.InsertItems(ctx, audit.ID, items); err != nil {
			return err
		}
		return repos.Audits.RefreshSummary(ctx, audit.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("audit_id", audit.ID).
		Str("audit_type", audit.AuditType).
		Int("items", len(selected)).
		Str("started_by", performer).
		Msg("sesión de auditoría iniciada")
	return uc.Detail(ctx, audit.ID)
}

// resolveLocation ubicación a auditar; sin indicación explícita se audita la
// bodega principal.
func resolveLocation(req dto.AuditStartRequest) (entity.Location, error) {
	if req.LocationType == "" {
		return entity.Location{Type: entity.LocationWarehouse, ID: entity.MainWarehouseID}, nil
	}
	lt := entity.LocationType(req.LocationType)
	if !lt.Valid() {
		return entity.Location{}, fmt.Errorf("%w: tipo de ubicación %q", domain.ErrInvalidInput, req.LocationType)
	}
	id := req.LocationID
	if id == 0 {
		if lt != entity.LocationWarehouse && lt != entity.LocationStaging {
			return entity.Location{}, fmt.Errorf("%w: falta el id de la ubicación", domain.ErrInvalidInput)
		}
		id = entity.MainWarehouseID
	}
	return entity.Location{Type: lt, ID: id}, nil
}

// List devuelve las sesiones más recientes, opcionalmente por estado.
func (uc *UseCase) List(ctx context.Context, status *string, limit int) ([]dto.AuditResponse, error) {
	audits, err := uc.audits.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditResponse, 0, len(audits))
	for _, a := range audits {
		out = append(out, toAuditResponse(a))
	}
	return out, nil
}

// Detail devuelve la sesión con todos sus ítems.
func (uc *UseCase) Detail(ctx context.Context, auditID int64) (*dto.AuditDetailResponse, error) {
	audit, err := uc.getAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	details, err := uc.audits.ItemsDetailed(ctx, auditID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AuditDetailResponse{
		AuditResponse: toAuditResponse(audit),
		Items:         make([]dto.AuditItemResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Items = append(resp.Items, dto.AuditItemResponse{
			ID:            d.ID,
			PartID:        d.PartID,
			PartName:      d.PartName,
			PartNumber:    d.PartNumber,
			ShelfLocation: d.ShelfLocation,
			ExpectedQty:   d.ExpectedQty,
			ActualQty:     d.ActualQty,
			Result:        d.Result,
			Note:          d.Note,
			CountedAt:     d.CountedAt,
		})
	}
	return resp, nil
}

// NextItem siguiente ítem pendiente en orden de pasillo (estante, luego
// nombre); nil cuando no quedan pendientes.
func (uc *UseCase) NextItem(ctx context.Context, auditID int64) (*dto.AuditItemResponse, error) {
	if _, err := uc.getAudit(ctx, auditID); err != nil {
		return nil, err
	}
	item, err := uc.audits.NextPendingItem(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	resp := &dto.AuditItemResponse{
		ID:          item.ID,
		PartID:      item.PartID,
		ExpectedQty: item.ExpectedQty,
		ActualQty:   item.ActualQty,
		Result:      item.Result,
		Note:        item.Note,
		CountedAt:   item.CountedAt,
	}
	part, err := uc.parts.GetByID(ctx, item.PartID)
	if err != nil {
		return nil, err
	}
	if part != nil {
		resp.PartName = part.Name
		resp.PartNumber = part.PartNumber
		resp.ShelfLocation = part.ShelfLocation
	}
	return resp, nil
}

// RollingPreview qué cubriría el próximo lote rolling, sin crear la sesión.
func (uc *UseCase) RollingPreview(ctx context.Context) (*dto.RollingPreviewResponse, error) {
	categoryID, err := uc.audits.LeastAuditedCategory(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.RollingPreviewResponse{CategoryID: categoryID, Parts: []dto.RollingPreviewRow{}}
	if categoryID == nil {
		return resp, nil
	}
	parts, err := uc.audits.RollingParts(ctx, *categoryID, entity.RollingBatchLimit)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		resp.Parts = append(resp.Parts, dto.RollingPreviewRow{
			PartID:        p.ID,
			Name:          p.Name,
			ShelfLocation: p.ShelfLocation,
		})
	}
	return resp, nil
}

func (uc *UseCase) getAudit(ctx context.Context, auditID int64) (*entity.Audit, error) {
	audit, err := uc.audits.GetByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrAuditNotFound, auditID)
	}
	return audit, nil
}

func toAuditResponse(a *entity.Audit) dto.AuditResponse {
	return dto.AuditResponse{
		ID:            a.ID,
		AuditType:     a.AuditType,
		LocationType:  string(a.LocationType),
		LocationID:    a.LocationID,
		CategoryID:    a.CategoryID,
		Status:        a.Status,
		StartedBy:     a.StartedBy,
		Notes:         a.Notes,
		TotalItems:    a.TotalItems,
		CountedItems:  a.CountedItems,
		Matched:       a.Matched,
		Discrepancies: a.Discrepancies,
		PctComplete:   pctComplete(a.CountedItems, a.TotalItems),
		CreatedAt:     a.CreatedAt,
		CompletedAt:   a.CompletedAt,
	}
}

// pctComplete porcentaje contado con un decimal.
func pctComplete(counted, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(counted)/float64(total)*1000) / 10
}
