package movement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/movement"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

// ExecuteUseCase es el núcleo transaccional del motor: aplica un lote de
// movimiento completo o no aplica nada. Toda deducción es un UPDATE
// condicionado; el que pierde una carrera ve cero filas afectadas y cae al
// reparto agrupado o revienta la transacción entera.
type ExecuteUseCase struct {
	tx        ports.TxRunner
	validator *ValidateUseCase
	directory repository.LocationDirectory
	refresher PostCommitRefresher
	log       *logger.Logger
}

// NewExecuteUseCase construye el ejecutor de movimientos.
func NewExecuteUseCase(
	tx ports.TxRunner,
	validator *ValidateUseCase,
	directory repository.LocationDirectory,
	refresher PostCommitRefresher,
	log *logger.Logger,
) *ExecuteUseCase {
	return &ExecuteUseCase{
		tx:        tx,
		validator: validator,
		directory: directory,
		refresher: refresher,
		log:       log.Component("executor"),
	}
}

// Execute valida el lote de nuevo (el stock pudo cambiar desde el preview) y
// lo aplica dentro de una sola transacción. Tras el commit dispara, por cada
// repuesto tocado, el recálculo de pronóstico y el centinela de stock bajo.
func (uc *ExecuteUseCase) Execute(ctx context.Context, performer string, req dto.MovementRequest) (*dto.MovementResult, error) {
	validation, err := uc.validator.Validate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, validationError(validation)
	}

	from := entity.Location{Type: entity.LocationType(req.FromType), ID: req.FromID}
	to := entity.Location{Type: entity.LocationType(req.ToType), ID: req.ToID}
	rule, _ := movement.LookupRule(from.Type, to.Type)

	// La etiqueta de preparación necesita el nombre legible del destino final.
	var hintLabel string
	if to.Type == entity.LocationStaging && req.DestinationHint != nil {
		hintLabel = req.DestinationHint.Label
		if hintLabel == "" {
			label, err := uc.directory.DisplayName(ctx, entity.Location{
				Type: entity.LocationType(req.DestinationHint.Type),
				ID:   req.DestinationHint.ID,
			})
			if err != nil {
				return nil, err
			}
			hintLabel = label
		}
	}

	batchID := uuid.New().String()
	reason := composeReason(req.ReasonCategory, req.ReasonDetail, req.Notes)
	var movementIDs []int64
	totalQty := 0

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		resolver := NewSupplierResolver(repos.Stock, repos.Prefs, repos.Suppliers)
		for _, line := range req.Items {
			part, err := repos.Parts.GetByID(ctx, line.PartID)
			if err != nil {
				return err
			}
			if part == nil {
				return fmt.Errorf("%w: %d", domain.ErrPartNotFound, line.PartID)
			}

			res, err := resolver.Resolve(ctx, part, from, line.SupplierID, line.Qty)
			if err != nil {
				return err
			}
			// la etiqueta se limpia antes de deducir: si la fila queda en cero
			// se elimina y ya no habría cómo encontrar su etiqueta
			if from.Type == entity.LocationStaging {
				if err := repos.Staging.ClearForPart(ctx, part.ID, from.ID, res.SupplierID); err != nil {
					return err
				}
			}
			if err := uc.deduct(ctx, repos, part, from, res, line.Qty); err != nil {
				return err
			}

			destStockID, err := repos.Stock.Add(ctx, part.ID, to, res.SupplierID, line.Qty)
			if err != nil {
				return err
			}
			if to.Type == entity.LocationStaging && req.DestinationHint != nil {
				tag := &entity.StagingTag{
					StockID:          destStockID,
					DestinationType:  entity.LocationType(req.DestinationHint.Type),
					DestinationID:    req.DestinationHint.ID,
					DestinationLabel: hintLabel,
					TaggedBy:         performer,
				}
				if err := repos.Staging.Upsert(ctx, tag); err != nil {
					return err
				}
			}

			log := &entity.MovementLog{
				BatchID:       batchID,
				PartID:        part.ID,
				Qty:           line.Qty,
				FromType:      &from.Type,
				FromID:        &from.ID,
				ToType:        &to.Type,
				ToID:          &to.ID,
				SupplierID:    res.SupplierID,
				SupplierName:  res.SupplierName,
				Kind:          rule.Kind,
				Reason:        reason,
				Reference:     req.Reference,
				JobID:         req.JobID,
				PerformedBy:   performer,
				PhotoPath:     req.PhotoPath,
				ScanConfirmed: req.ScanConfirmed,
				UnitCost:      part.UnitCost,
				UnitSell:      part.UnitSell,
			}
			if err := repos.Logs.Create(ctx, log); err != nil {
				return err
			}
			movementIDs = append(movementIDs, log.ID)
			totalQty += line.Qty
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &dto.MovementResult{
		BatchID:     batchID,
		Kind:        rule.Kind,
		MovementIDs: movementIDs,
		TotalItems:  len(req.Items),
		TotalQty:    totalQty,
	}
	result.Warnings = uc.refreshParts(ctx, distinctParts(req.Items))

	uc.log.Info().
		Str("batch_id", batchID).
		Str("kind", rule.Kind).
		Int("items", len(req.Items)).
		Int("qty", totalQty).
		Str("performed_by", performer).
		Msg("lote de movimiento confirmado")
	return result, nil
}

// deduct descuenta la cantidad del origen. Primero intenta la fila exacta del
// proveedor resuelto; si esa fila no alcanza, reparte entre todas las filas
// del repuesto en orden FIFO, solo si la suma cubre el pedido. Las filas que
// quedan en cero se eliminan.
func (uc *ExecuteUseCase) deduct(ctx context.Context, repos ports.TxRepos, part *entity.Part, from entity.Location, res Resolution, qty int) error {
	applied, err := repos.Stock.DeductExact(ctx, part.ID, from, res.SupplierID, qty)
	if err != nil {
		return err
	}
	if applied {
		return repos.Stock.PruneZero(ctx, part.ID, from)
	}

	rows, err := repos.Stock.ListAt(ctx, part.ID, from)
	if err != nil {
		return err
	}
	available := 0
	for _, row := range rows {
		available += row.Qty
	}
	if available < qty {
		return fmt.Errorf("%w: %s (pedido %d, disponible %d)", domain.ErrInsufficientStock, part.Name, qty, available)
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
		applied, err := repos.Stock.DeductRow(ctx, row.ID, take)
		if err != nil {
			return err
		}
		if !applied {
			// otra transacción vació la fila entre la lectura y el UPDATE
			return fmt.Errorf("%w: la fila de stock %d cambió durante la transacción", domain.ErrExecutionFailure, row.ID)
		}
		if take == row.Qty {
			if err := repos.Stock.DeleteIfZero(ctx, row.ID); err != nil {
				return err
			}
		}
		remaining -= take
	}
	if remaining != 0 {
		return fmt.Errorf("%w: %s (faltaron %d)", domain.ErrExecutionFailure, part.Name, remaining)
	}
	return nil
}

// Receive ingresa mercancía externa directo a la bodega principal: solo
// upsert en destino y entrada receive en el libro; no hay origen que validar.
func (uc *ExecuteUseCase) Receive(ctx context.Context, performer string, req dto.ReceiveRequest) (*dto.ReceiveResult, error) {
	warehouse := entity.Location{Type: entity.LocationWarehouse, ID: entity.MainWarehouseID}
	batchID := uuid.New().String()
	reason := composeReason("Recepción de mercancía", "", req.Notes)

	var movementIDs []int64
	totalQty := 0
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		for _, item := range req.Items {
			part, err := repos.Parts.GetByID(ctx, item.PartID)
			if err != nil {
				return err
			}
			if part == nil {
				return fmt.Errorf("%w: %d", domain.ErrPartNotFound, item.PartID)
			}

			if _, err := repos.Stock.Add(ctx, part.ID, warehouse, item.SupplierID, item.Qty); err != nil {
				return err
			}
			if item.ShelfLocation != nil || item.BinLocation != nil {
				if err := repos.Parts.UpdateLocationHints(ctx, part.ID, item.ShelfLocation, item.BinLocation); err != nil {
					return err
				}
			}

			var supplierName string
			if item.SupplierID != nil {
				s, err := repos.Suppliers.GetByID(ctx, *item.SupplierID)
				if err != nil {
					return err
				}
				if s != nil {
					supplierName = s.Name
				}
			}
			log := &entity.MovementLog{
				BatchID:      batchID,
				PartID:       part.ID,
				Qty:          item.Qty,
				ToType:       &warehouse.Type,
				ToID:         &warehouse.ID,
				SupplierID:   item.SupplierID,
				SupplierName: supplierName,
				Kind:         entity.MovementReceive,
				Reason:       reason,
				Reference:    req.Reference,
				PerformedBy:  performer,
				UnitCost:     part.UnitCost,
				UnitSell:     part.UnitSell,
			}
			if err := repos.Logs.Create(ctx, log); err != nil {
				return err
			}
			movementIDs = append(movementIDs, log.ID)
			totalQty += item.Qty
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var partIDs []int64
	seen := map[int64]struct{}{}
	for _, item := range req.Items {
		if _, ok := seen[item.PartID]; !ok {
			seen[item.PartID] = struct{}{}
			partIDs = append(partIDs, item.PartID)
		}
	}
	uc.refreshParts(ctx, partIDs)

	uc.log.Info().
		Str("batch_id", batchID).
		Int("items", len(req.Items)).
		Int("qty", totalQty).
		Str("performed_by", performer).
		Msg("recepción de mercancía registrada")
	return &dto.ReceiveResult{
		ItemsReceived: len(req.Items),
		TotalQty:      totalQty,
		MovementIDs:   movementIDs,
	}, nil
}

// refreshParts dispara pronóstico y centinela por repuesto. Los fallos se
// registran y se reportan como advertencia, nunca como error del movimiento.
func (uc *ExecuteUseCase) refreshParts(ctx context.Context, partIDs []int64) []string {
	var warnings []string
	for _, partID := range partIDs {
		if err := uc.refresher.RefreshPart(ctx, partID); err != nil {
			uc.log.Warn().Err(err).Int64("part_id", partID).Msg("recálculo post-commit falló")
			warnings = append(warnings, fmt.Sprintf("el recálculo del repuesto %d falló", partID))
		}
	}
	return warnings
}

func distinctParts(lines []dto.MovementLine) []int64 {
	seen := map[int64]struct{}{}
	var ids []int64
	for _, l := range lines {
		if _, ok := seen[l.PartID]; !ok {
			seen[l.PartID] = struct{}{}
			ids = append(ids, l.PartID)
		}
	}
	return ids
}

// validationError traduce el primer error estructurado al error de dominio
// equivalente, para que el handler responda el código HTTP correcto.
func validationError(v *dto.MovementValidation) error {
	if len(v.Errors) == 0 {
		return domain.ErrInvalidInput
	}
	first := v.Errors[0]
	switch first.Field {
	case "path":
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedPath, first.Message)
	case "part_id":
		return fmt.Errorf("%w: %s", domain.ErrPartNotFound, first.Message)
	default:
		if first.Available < first.Requested && first.Requested > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, first.Message)
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, first.Message)
	}
}

func composeReason(category, detail, notes string) string {
	head := category
	if detail != "" {
		head = category + ": " + detail
	}
	parts := make([]string, 0, 2)
	if head != "" {
		parts = append(parts, head)
	}
	if notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "; ")
}
