package movement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/movement"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// PreviewUseCase arma la pantalla de confirmación de un lote: antes/después
// por línea, proveedor resuelto y valor. No muta nada; al ejecutar se vuelve
// a validar porque el stock pudo cambiar entre preview y confirmación.
type PreviewUseCase struct {
	parts    repository.PartRepository
	stock    repository.StockRepository
	resolver *SupplierResolver
}

// NewPreviewUseCase construye el caso de uso de preview.
func NewPreviewUseCase(
	parts repository.PartRepository,
	stock repository.StockRepository,
	resolver *SupplierResolver,
) *PreviewUseCase {
	return &PreviewUseCase{parts: parts, stock: stock, resolver: resolver}
}

// Preview calcula el efecto del lote línea por línea.
func (uc *PreviewUseCase) Preview(ctx context.Context, req dto.MovementRequest) (*dto.MovementPreview, error) {
	from := entity.Location{Type: entity.LocationType(req.FromType), ID: req.FromID}
	to := entity.Location{Type: entity.LocationType(req.ToType), ID: req.ToID}
	rule, ok := movement.LookupRule(from.Type, to.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrUnsupportedPath, req.FromType, req.ToType)
	}

	preview := &dto.MovementPreview{
		Kind:          rule.Kind,
		PhotoRequired: rule.PhotoRequired,
		Lines:         make([]dto.MovementPreviewLine, 0, len(req.Items)),
		TotalValue:    decimal.Zero,
		Warnings:      []string{},
	}

	for _, line := range req.Items {
		part, err := uc.parts.GetByID(ctx, line.PartID)
		if err != nil {
			return nil, err
		}
		if part == nil {
			return nil, fmt.Errorf("%w: %d", domain.ErrPartNotFound, line.PartID)
		}

		res, err := uc.resolver.Resolve(ctx, part, from, line.SupplierID, line.Qty)
		if err != nil {
			return nil, err
		}
		sourceBefore, err := uc.stock.TotalAt(ctx, line.PartID, from)
		if err != nil {
			return nil, err
		}
		destBefore, err := uc.stock.TotalAt(ctx, line.PartID, to)
		if err != nil {
			return nil, err
		}

		lineValue := part.UnitCost.Mul(decimal.NewFromInt(int64(line.Qty)))
		preview.Lines = append(preview.Lines, dto.MovementPreviewLine{
			PartID:         part.ID,
			PartName:       part.Name,
			Qty:            line.Qty,
			SupplierID:     res.SupplierID,
			SupplierName:   res.SupplierName,
			SupplierSource: res.Source,
			SourceBefore:   sourceBefore,
			SourceAfter:    sourceBefore - line.Qty,
			DestBefore:     destBefore,
			DestAfter:      destBefore + line.Qty,
			UnitCost:       part.UnitCost,
			LineValue:      lineValue,
		})
		preview.TotalQty += line.Qty
		preview.TotalValue = preview.TotalValue.Add(lineValue)
		preview.Warnings = append(preview.Warnings,
			lineWarnings(part, sourceBefore-line.Qty, to.Type, destBefore+line.Qty)...)
	}
	return preview, nil
}
