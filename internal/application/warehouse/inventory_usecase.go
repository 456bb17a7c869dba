package warehouse

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// Inventory devuelve la grilla de inventario de bodega con el estado
// calculado por repuesto y los agregados de cabecera. Solo aparecen
// repuestos relevantes: con stock en bodega o preparación, o con nivel
// objetivo; los desmontados y vaciados no ensucian la grilla.
func (uc *UseCase) Inventory(ctx context.Context) (*dto.WarehouseInventoryResponse, error) {
	rows, err := uc.queries.InventoryRows(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.WarehouseInventoryResponse{
		Items:      make([]dto.WarehouseInventoryItem, 0, len(rows)),
		TotalValue: decimal.Zero,
	}
	within, considered := 0, 0
	for _, row := range rows {
		value := row.UnitCost.Mul(decimal.NewFromInt(int64(row.WarehouseQty))).Round(2)
		resp.Items = append(resp.Items, dto.WarehouseInventoryItem{
			PartID:        row.PartID,
			Name:          row.Name,
			PartNumber:    row.PartNumber,
			ShelfLocation: row.ShelfLocation,
			WarehouseQty:  row.WarehouseQty,
			StagedQty:     row.StagedQty,
			MinStock:      row.MinStock,
			MaxStock:      row.MaxStock,
			TargetStock:   row.TargetStock,
			Status:        stockStatus(row),
			UnitCost:      row.UnitCost,
			Value:         value,
		})
		resp.TotalUnits += row.WarehouseQty
		resp.TotalValue = resp.TotalValue.Add(value)
		if row.TargetStock > 0 {
			considered++
			if withinRange(row) {
				within++
			}
		}
	}
	resp.HealthPct = healthPct(within, considered)
	return resp, nil
}

// stockStatus clasifica la fila: el desmonte manda, luego el vacío, luego
// los rangos min/max (0 = sin piso / sin techo).
func stockStatus(row repository.InventoryRow) string {
	switch {
	case row.TargetStock == 0:
		return dto.StockStatusWindingDown
	case row.WarehouseQty == 0:
		return dto.StockStatusOut
	case row.MinStock > 0 && row.WarehouseQty < row.MinStock:
		return dto.StockStatusLow
	case row.MaxStock > 0 && row.WarehouseQty > row.MaxStock:
		return dto.StockStatusOver
	default:
		return dto.StockStatusOK
	}
}

func withinRange(row repository.InventoryRow) bool {
	if row.WarehouseQty < row.MinStock {
		return false
	}
	return row.MaxStock == 0 || row.WarehouseQty <= row.MaxStock
}

// Staging devuelve el área de preparación agrupada por destino previsto,
// el grupo más viejo primero (lo más urgente de sacar).
func (uc *UseCase) Staging(ctx context.Context) (*dto.StagingResponse, error) {
	rows, err := uc.queries.StagingRows(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &dto.StagingResponse{Groups: []dto.StagingGroup{}}
	index := map[string]int{}
	for _, row := range rows {
		key, label := stagingGroupKey(row)
		gi, ok := index[key]
		if !ok {
			group := dto.StagingGroup{DestinationLabel: label}
			if row.DestinationType != nil {
				group.DestinationType = string(*row.DestinationType)
			}
			if row.DestinationID != nil {
				group.DestinationID = *row.DestinationID
			}
			resp.Groups = append(resp.Groups, group)
			gi = len(resp.Groups) - 1
			index[key] = gi
		}

		hours := round1(now.Sub(row.StagedAt).Hours())
		item := dto.StagingItem{
			StockID:      row.StockID,
			PartID:       row.PartID,
			PartName:     row.PartName,
			PartNumber:   row.PartNumber,
			Qty:          row.Qty,
			SupplierName: row.SupplierName,
			TaggedBy:     row.TaggedBy,
			HoursStaged:  hours,
			AgingStatus:  agingStatus(hours),
		}

		g := &resp.Groups[gi]
		g.Items = append(g.Items, item)
		g.TotalQty += row.Qty
		if hours > g.OldestHours {
			g.OldestHours = hours
			g.AgingStatus = item.AgingStatus
		}
		resp.TotalItems++
		resp.TotalQty += row.Qty
	}

	sort.SliceStable(resp.Groups, func(i, j int) bool {
		return resp.Groups[i].OldestHours > resp.Groups[j].OldestHours
	})
	return resp, nil
}

// stagingGroupKey agrupa por (tipo, id) de destino; el stock sin etiqueta va
// todo a un grupo "Sin destino".
func stagingGroupKey(row repository.StagingRow) (key, label string) {
	if row.DestinationType == nil || row.DestinationID == nil {
		return "untagged", "Sin destino"
	}
	key = fmt.Sprintf("%s:%d", *row.DestinationType, *row.DestinationID)
	if row.DestinationLabel != nil && *row.DestinationLabel != "" {
		return key, *row.DestinationLabel
	}
	return key, locationPhrase(*row.DestinationType, row.DestinationID)
}

// agingStatus cuánto lleva esperando el material: warning desde las 24 h,
// critical desde las 48.
func agingStatus(hours float64) string {
	switch {
	case hours >= 48:
		return "critical"
	case hours >= 24:
		return "warning"
	default:
		return "normal"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
