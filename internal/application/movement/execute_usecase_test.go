package movement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

func newExecutor(fx *engineFixture) *movement.ExecuteUseCase {
	validator := movement.NewValidateUseCase(fx.parts, fx.stock)
	return movement.NewExecuteUseCase(fx.tx, validator, fx.directory, fx.refresher, logger.Nop())
}

// TestExecute_FIFORepartoEntreProveedores la fila del proveedor resuelto no
// alcanza (4 de 10), así que el descuento se reparte entre todas las filas en
// orden FIFO, las filas vaciadas se eliminan y el destino queda bajo el
// proveedor resuelto con una sola entrada en el libro.
func TestExecute_FIFORepartoEntreProveedores(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 4, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(2), 6, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	uc := newExecutor(fx)

	result, err := uc.Execute(context.Background(), "María", baseRequest(dto.MovementLine{PartID: 1, Qty: 10}))
	require.NoError(t, err)

	// el origen quedó vacío y sin filas en cero huérfanas
	total, _ := fx.stock.TotalAt(context.Background(), 1, bodega)
	assert.Zero(t, total)
	rows, _ := fx.stock.ListAt(context.Background(), 1, bodega)
	assert.Empty(t, rows, "las filas vaciadas deben eliminarse, no quedar en cero")

	// el destino acumula las 10 unidades bajo el proveedor resuelto (FIFO: 1)
	preparacion := entity.Location{Type: entity.LocationStaging, ID: 1}
	dest, _ := fx.stock.Get(context.Background(), 1, preparacion, int64Ptr(1))
	require.NotNil(t, dest)
	assert.Equal(t, 10, dest.Qty)

	require.Len(t, fx.logs.entries, 1, "un reparto FIFO sigue siendo un solo movimiento")
	entry := fx.logs.entries[0]
	assert.Equal(t, entity.MovementTransfer, entry.Kind)
	require.NotNil(t, entry.SupplierID)
	assert.Equal(t, int64(1), *entry.SupplierID)
	assert.Equal(t, "Refrineco", entry.SupplierName)
	assert.Equal(t, result.BatchID, entry.BatchID)
	assert.Equal(t, "María", entry.PerformedBy)

	assert.Equal(t, 10, result.TotalQty)
	assert.Equal(t, []int64{1}, fx.refresher.refreshed)
}

func TestExecute_RechazaLoteConStockInsuficiente(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 3, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := newExecutor(fx)

	_, err := uc.Execute(context.Background(), "María", baseRequest(dto.MovementLine{PartID: 1, Qty: 5}))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	total, _ := fx.stock.TotalAt(context.Background(), 1, bodega)
	assert.Equal(t, 3, total, "un lote rechazado no toca el stock")
	assert.Empty(t, fx.logs.entries)
	assert.Empty(t, fx.refresher.refreshed)
}

func TestExecute_RutaIlegal(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	uc := newExecutor(fx)

	req := baseRequest(dto.MovementLine{PartID: 1, Qty: 1})
	req.FromType = string(entity.LocationWarehouse)
	req.ToType = string(entity.LocationJob)
	req.ToID = 4512

	_, err := uc.Execute(context.Background(), "María", req)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPath)
}

// TestExecute_CarreraPerdidaRevierteElLoteCompleto la línea 1 ya descontó
// cuando una transacción rival vacía el stock de la línea 2: el UPDATE
// condicionado ve cero filas, la transacción falla y el lote entero se
// revierte.
func TestExecute_CarreraPerdidaRevierteElLoteCompleto(t *testing.T) {
	part2 := testPart(2)
	part2.Name = "Contactor 2P 30A"
	fx := newEngineFixture([]*entity.Part{testPart(1), part2}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 10, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	rival := fx.stock.addRow(2, bodega, int64Ptr(1), 5, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	uc := newExecutor(fx)

	// la rival consume el stock del repuesto 2 después de la validación
	fx.stock.beforeDeduct = func(partID int64) {
		if partID == 2 {
			rival.Qty = 0
		}
	}

	_, err := uc.Execute(context.Background(), "María", baseRequest(
		dto.MovementLine{PartID: 1, Qty: 5},
		dto.MovementLine{PartID: 2, Qty: 5},
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	total, _ := fx.stock.TotalAt(context.Background(), 1, bodega)
	assert.Equal(t, 10, total, "la deducción ya aplicada de la línea 1 debe revertirse")
	preparacion := entity.Location{Type: entity.LocationStaging, ID: 1}
	staged, _ := fx.stock.TotalAt(context.Background(), 1, preparacion)
	assert.Zero(t, staged)
	assert.Empty(t, fx.logs.entries, "un lote revertido no deja rastro en el libro")
	assert.Empty(t, fx.refresher.refreshed)
}

func TestExecute_EtiquetaDestinoEnPreparacion(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 10, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	camion := entity.Location{Type: entity.LocationTruck, ID: 7}
	fx.directory.names[camion] = "Camión Norte (Juan)"
	uc := newExecutor(fx)

	req := baseRequest(dto.MovementLine{PartID: 1, Qty: 4})
	req.DestinationHint = &dto.DestinationHint{Type: "truck", ID: 7}

	_, err := uc.Execute(context.Background(), "María", req)
	require.NoError(t, err)

	preparacion := entity.Location{Type: entity.LocationStaging, ID: 1}
	dest, _ := fx.stock.Get(context.Background(), 1, preparacion, int64Ptr(1))
	require.NotNil(t, dest)
	tag, _ := fx.staging.Get(context.Background(), dest.ID)
	require.NotNil(t, tag, "el material en preparación debe quedar etiquetado")
	assert.Equal(t, entity.LocationTruck, tag.DestinationType)
	assert.Equal(t, int64(7), tag.DestinationID)
	assert.Equal(t, "Camión Norte (Juan)", tag.DestinationLabel)
	assert.Equal(t, "María", tag.TaggedBy)
}

func TestExecute_SalidaDePreparacionLimpiaEtiqueta(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	preparacion := entity.Location{Type: entity.LocationStaging, ID: 1}
	row := fx.stock.addRow(1, preparacion, int64Ptr(1), 5, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, fx.staging.Upsert(context.Background(), &entity.StagingTag{
		StockID: row.ID, DestinationType: entity.LocationTruck, DestinationID: 7,
		DestinationLabel: "Camión Norte", TaggedBy: "María",
	}))
	uc := newExecutor(fx)

	req := dto.MovementRequest{
		FromType: string(entity.LocationStaging), FromID: 1,
		ToType: string(entity.LocationTruck), ToID: 7,
		Items: []dto.MovementLine{{PartID: 1, Qty: 5}},
	}
	_, err := uc.Execute(context.Background(), "María", req)
	require.NoError(t, err)

	staged, _ := fx.stock.TotalAt(context.Background(), 1, preparacion)
	assert.Zero(t, staged)
	assert.Empty(t, fx.staging.tags, "la etiqueta debe limpiarse al salir de preparación")
	camion := entity.Location{Type: entity.LocationTruck, ID: 7}
	moved, _ := fx.stock.TotalAt(context.Background(), 1, camion)
	assert.Equal(t, 5, moved)
}

// TestExecute_CongelaPreciosDelMomento el libro guarda el costo y precio
// vigentes al ejecutar; subidas posteriores no reescriben la historia.
func TestExecute_CongelaPreciosDelMomento(t *testing.T) {
	part := testPart(1)
	part.UnitCost = decimal.RequireFromString("120.50")
	part.UnitSell = decimal.RequireFromString("180.75")
	fx := newEngineFixture([]*entity.Part{part}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 10, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := newExecutor(fx)

	_, err := uc.Execute(context.Background(), "María", baseRequest(dto.MovementLine{PartID: 1, Qty: 2}))
	require.NoError(t, err)

	part.UnitCost = decimal.RequireFromString("150.00")

	require.Len(t, fx.logs.entries, 1)
	entry := fx.logs.entries[0]
	assert.True(t, entry.UnitCost.Equal(decimal.RequireFromString("120.50")), "costo congelado, no el vigente")
	assert.True(t, entry.UnitSell.Equal(decimal.RequireFromString("180.75")))
}

func TestExecute_ConsumoLlevaFotoYTrabajo(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	camion := entity.Location{Type: entity.LocationTruck, ID: 7}
	fx.stock.addRow(1, camion, int64Ptr(1), 6, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := newExecutor(fx)

	foto := "uploads/2026/03/abc123.jpg"
	req := dto.MovementRequest{
		FromType: string(entity.LocationTruck), FromID: 7,
		ToType: string(entity.LocationJob), ToID: 4512,
		Items:          []dto.MovementLine{{PartID: 1, Qty: 2}},
		JobID:          int64Ptr(4512),
		PhotoPath:      &foto,
		ScanConfirmed:  true,
		ReasonCategory: "Instalación",
		ReasonDetail:   "Cambio de capacitor",
	}
	_, err := uc.Execute(context.Background(), "Juan", req)
	require.NoError(t, err)

	require.Len(t, fx.logs.entries, 1)
	entry := fx.logs.entries[0]
	assert.Equal(t, entity.MovementConsume, entry.Kind)
	require.NotNil(t, entry.JobID)
	assert.Equal(t, int64(4512), *entry.JobID)
	require.NotNil(t, entry.PhotoPath)
	assert.Equal(t, foto, *entry.PhotoPath)
	assert.True(t, entry.ScanConfirmed)
	assert.Equal(t, "Instalación: Cambio de capacitor", entry.Reason)
}

// TestExecute_RecalculoFallidoEsAdvertencia el movimiento ya está confirmado
// cuando corre el recálculo: un fallo ahí es advertencia, nunca error.
func TestExecute_RecalculoFallidoEsAdvertencia(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 10, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fx.refresher.err = errors.New("forecast service down")
	uc := newExecutor(fx)

	result, err := uc.Execute(context.Background(), "María", baseRequest(dto.MovementLine{PartID: 1, Qty: 3}))
	require.NoError(t, err, "el fallo post-commit no debe tumbar el movimiento")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "recálculo")

	total, _ := fx.stock.TotalAt(context.Background(), 1, bodega)
	assert.Equal(t, 7, total, "el movimiento quedó confirmado pese a la advertencia")
}

// ── recepción ─────────────────────────────────────────────────────────────────

func TestReceive_IngresaABodegaYRegistraLibro(t *testing.T) {
	part2 := testPart(2)
	part2.Name = "Contactor 2P 30A"
	fx := newEngineFixture([]*entity.Part{testPart(1), part2}, testSuppliers())
	uc := newExecutor(fx)

	estante := "B-7"
	result, err := uc.Receive(context.Background(), "María", dto.ReceiveRequest{
		Items: []dto.ReceiveItem{
			{PartID: 1, Qty: 12, SupplierID: int64Ptr(2), ShelfLocation: &estante},
			{PartID: 2, Qty: 3},
		},
		Reference: "FAC-8841",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsReceived)
	assert.Equal(t, 15, result.TotalQty)

	got, _ := fx.stock.Get(context.Background(), 1, bodega, int64Ptr(2))
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Qty)
	anonimo, _ := fx.stock.Get(context.Background(), 2, bodega, nil)
	require.NotNil(t, anonimo, "sin proveedor la mercancía entra como fila anónima")
	assert.Equal(t, 3, anonimo.Qty)

	require.NotNil(t, fx.parts.parts[1].ShelfLocation)
	assert.Equal(t, "B-7", *fx.parts.parts[1].ShelfLocation)

	require.Len(t, fx.logs.entries, 2)
	assert.Equal(t, entity.MovementReceive, fx.logs.entries[0].Kind)
	assert.Nil(t, fx.logs.entries[0].FromType, "una recepción no tiene origen")
	assert.Equal(t, "ClimaParts", fx.logs.entries[0].SupplierName)
	assert.Equal(t, "FAC-8841", fx.logs.entries[0].Reference)
	assert.ElementsMatch(t, []int64{1, 2}, fx.refresher.refreshed)
}

func TestReceive_RepuestoInexistenteRevierteTodo(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	uc := newExecutor(fx)

	_, err := uc.Receive(context.Background(), "María", dto.ReceiveRequest{
		Items: []dto.ReceiveItem{
			{PartID: 1, Qty: 5},
			{PartID: 404, Qty: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrPartNotFound)

	total, _ := fx.stock.TotalAt(context.Background(), 1, bodega)
	assert.Zero(t, total, "la recepción es un lote: o entra todo o no entra nada")
	assert.Empty(t, fx.logs.entries)
}
