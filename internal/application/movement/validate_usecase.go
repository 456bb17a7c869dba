package movement

import (
	"context"
	"fmt"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/movement"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// ValidateUseCase valida un lote de movimiento sin mutar nada. Es seguro
// llamarlo cuantas veces haga falta; el ejecutor lo repite antes de commit.
type ValidateUseCase struct {
	parts repository.PartRepository
	stock repository.StockRepository
}

// NewValidateUseCase construye el caso de uso de validación.
func NewValidateUseCase(parts repository.PartRepository, stock repository.StockRepository) *ValidateUseCase {
	return &ValidateUseCase{parts: parts, stock: stock}
}

// Validate aplica los chequeos en orden estricto:
//  1. la ruta (origen, destino) existe en la tabla de rutas; si no, un único
//     error fatal y no se revisa nada más;
//  2. cada repuesto existe;
//  3. la cantidad disponible en el origen (sumada entre proveedores) cubre
//     cada línea;
//  4. advertencias no fatales: el origen queda en cero, o el destino en
//     bodega supera el stock máximo configurado.
func (uc *ValidateUseCase) Validate(ctx context.Context, req dto.MovementRequest) (*dto.MovementValidation, error) {
	result := &dto.MovementValidation{
		Errors:   []dto.MovementValidationError{},
		Warnings: []string{},
	}

	from := entity.Location{Type: entity.LocationType(req.FromType), ID: req.FromID}
	to := entity.Location{Type: entity.LocationType(req.ToType), ID: req.ToID}
	if _, ok := movement.LookupRule(from.Type, to.Type); !ok {
		result.Errors = append(result.Errors, dto.MovementValidationError{
			Field:   "path",
			Message: fmt.Sprintf("ruta de movimiento no soportada: %s -> %s", req.FromType, req.ToType),
		})
		return result, nil
	}

	for _, line := range req.Items {
		part, err := uc.parts.GetByID(ctx, line.PartID)
		if err != nil {
			return nil, err
		}
		if part == nil {
			result.Errors = append(result.Errors, dto.MovementValidationError{
				PartID:  line.PartID,
				Field:   "part_id",
				Message: fmt.Sprintf("el repuesto %d no existe", line.PartID),
			})
			continue
		}
		if line.Qty < 1 {
			result.Errors = append(result.Errors, dto.MovementValidationError{
				PartID:  line.PartID,
				Field:   "qty",
				Message: "la cantidad debe ser al menos 1",
			})
			continue
		}

		available, err := uc.stock.TotalAt(ctx, line.PartID, from)
		if err != nil {
			return nil, err
		}
		if available < line.Qty {
			result.Errors = append(result.Errors, dto.MovementValidationError{
				PartID:    line.PartID,
				Field:     "qty",
				Message:   fmt.Sprintf("stock insuficiente de %s: se pidieron %d y hay %d", part.Name, line.Qty, available),
				Requested: line.Qty,
				Available: available,
			})
			continue
		}

		destQty, err := uc.stock.TotalAt(ctx, line.PartID, to)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings,
			lineWarnings(part, available-line.Qty, to.Type, destQty+line.Qty)...)
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// lineWarnings advertencias no fatales compartidas entre validación y preview.
func lineWarnings(part *entity.Part, sourceAfter int, destType entity.LocationType, destAfter int) []string {
	var warnings []string
	if sourceAfter == 0 {
		warnings = append(warnings, fmt.Sprintf("El origen quedará en cero de %s", part.Name))
	}
	if destType == entity.LocationWarehouse && part.MaxStock > 0 && destAfter > part.MaxStock {
		warnings = append(warnings, fmt.Sprintf("%s superará su stock máximo en bodega (%d > %d)", part.Name, destAfter, part.MaxStock))
	}
	return warnings
}
