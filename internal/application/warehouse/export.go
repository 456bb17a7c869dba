package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jportillac/servicampo-api/internal/application/dto"
)

// InventoryExporter puerto del exportador XLSX de la grilla de inventario.
// La implementación vive en infrastructure/excel.
type InventoryExporter interface {
	GenerateInventoryXLSX(ctx context.Context, inv *dto.WarehouseInventoryResponse) ([]byte, error)
}

// ExportUseCase produce el inventario de bodega como archivo descargable.
type ExportUseCase struct {
	inventory *UseCase
	exporter  InventoryExporter
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(inventory *UseCase, exporter InventoryExporter) *ExportUseCase {
	return &ExportUseCase{inventory: inventory, exporter: exporter}
}

// Download arma la grilla completa de inventario y la entrega como XLSX.
func (uc *ExportUseCase) Download(ctx context.Context) (xlsx []byte, filename string, err error) {
	inv, err := uc.inventory.Inventory(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: armar inventario: %w", err)
	}
	xlsx, err = uc.exporter.GenerateInventoryXLSX(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: generación fallida: %w", err)
	}
	return xlsx, fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("2006-01-02")), nil
}
