// Package excel implementa la exportación XLSX de la grilla de inventario.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jportillac/servicampo-api/internal/application/dto"
)

const sheetName = "Inventario"

var headers = []string{
	"Repuesto", "N° parte", "Estante", "En bodega", "En preparación",
	"Mínimo", "Máximo", "Objetivo", "Estado", "Costo unit.", "Valor",
}

// InventoryExporter implementa warehouse.InventoryExporter usando excelize.
type InventoryExporter struct{}

// NewInventoryExporter construye el exportador.
func NewInventoryExporter() *InventoryExporter { return &InventoryExporter{} }

// GenerateInventoryXLSX vuelca la grilla a una hoja con encabezado fijo y una
// fila de totales al final. Devuelve los bytes del archivo.
func (e *InventoryExporter) GenerateInventoryXLSX(_ context.Context, inv *dto.WarehouseInventoryResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("excel: celda de encabezado: %w", err)
		}
		f.SetCellValue(sheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", last, style)
	}
	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "E", "E", 14)

	for i, item := range inv.Items {
		rowNo := i + 2
		shelf := ""
		if item.ShelfLocation != nil {
			shelf = *item.ShelfLocation
		}
		cost, _ := item.UnitCost.Float64()
		value, _ := item.Value.Float64()
		cells := []interface{}{
			item.Name, item.PartNumber, shelf, item.WarehouseQty, item.StagedQty,
			item.MinStock, item.MaxStock, item.TargetStock, statusLabel(item.Status),
			cost, value,
		}
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo)
			if err != nil {
				return nil, fmt.Errorf("excel: celda de datos: %w", err)
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	// Fila de totales
	totalRow := len(inv.Items) + 2
	totalValue, _ := inv.TotalValue.Float64()
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "TOTAL")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalRow), inv.TotalUnits)
	f.SetCellValue(sheetName, fmt.Sprintf("K%d", totalRow), totalValue)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

func statusLabel(status string) string {
	switch status {
	case dto.StockStatusOut:
		return "Agotado"
	case dto.StockStatusLow:
		return "Bajo mínimo"
	case dto.StockStatusOK:
		return "OK"
	case dto.StockStatusOver:
		return "Sobre máximo"
	case dto.StockStatusWindingDown:
		return "En desmonte"
	}
	return status
}
