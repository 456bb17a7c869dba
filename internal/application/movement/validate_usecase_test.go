package movement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

func baseRequest(items ...dto.MovementLine) dto.MovementRequest {
	return dto.MovementRequest{
		FromType: string(entity.LocationWarehouse),
		FromID:   entity.MainWarehouseID,
		ToType:   string(entity.LocationStaging),
		ToID:     1,
		Items:    items,
	}
}

func TestValidate_RutaIlegalEsErrorFatalUnico(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	// bodega -> trabajo no está en la tabla de rutas; las líneas ni se revisan
	req := baseRequest(
		dto.MovementLine{PartID: 999, Qty: 5},
		dto.MovementLine{PartID: 1, Qty: 99999},
	)
	req.ToType = string(entity.LocationJob)
	req.ToID = 4512

	result, err := uc.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1, "la ruta ilegal debe producir un único error fatal")
	assert.Equal(t, "path", result.Errors[0].Field)
	assert.Empty(t, result.Warnings)
}

func TestValidate_RepuestoInexistente(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	result, err := uc.Validate(context.Background(), baseRequest(dto.MovementLine{PartID: 404, Qty: 1}))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(404), result.Errors[0].PartID)
	assert.Equal(t, "part_id", result.Errors[0].Field)
}

// TestValidate_StockInsuficientePorLinea pide 5 habiendo 3: el error nombra
// la línea con lo pedido y lo disponible.
func TestValidate_StockInsuficientePorLinea(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 3, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	result, err := uc.Validate(context.Background(), baseRequest(dto.MovementLine{PartID: 1, Qty: 5}))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(1), result.Errors[0].PartID)
	assert.Equal(t, "qty", result.Errors[0].Field)
	assert.Equal(t, 5, result.Errors[0].Requested)
	assert.Equal(t, 3, result.Errors[0].Available)
}

// TestValidate_SumaEntreProveedores la disponibilidad es la suma de todas las
// filas del origen, no la de un proveedor puntual.
func TestValidate_SumaEntreProveedores(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 4, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(2), 6, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	result, err := uc.Validate(context.Background(), baseRequest(dto.MovementLine{PartID: 1, Qty: 10}))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_AdvierteOrigenEnCero(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 5, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	result, err := uc.Validate(context.Background(), baseRequest(dto.MovementLine{PartID: 1, Qty: 5}))
	require.NoError(t, err)
	assert.True(t, result.Valid, "vaciar el origen es advertencia, no error")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "cero")
}

func TestValidate_AdvierteMaximoDeBodega(t *testing.T) {
	part := testPart(1)
	part.MaxStock = 10
	fx := newEngineFixture([]*entity.Part{part}, testSuppliers())
	camion := entity.Location{Type: entity.LocationTruck, ID: 7}
	fx.stock.addRow(1, camion, int64Ptr(1), 8, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(1), 9, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	// devolución camión -> bodega que dejaría 13 con máximo 10
	req := dto.MovementRequest{
		FromType: string(entity.LocationTruck), FromID: 7,
		ToType: string(entity.LocationWarehouse), ToID: entity.MainWarehouseID,
		Items: []dto.MovementLine{{PartID: 1, Qty: 4}},
	}
	result, err := uc.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "máximo")
}

func TestValidate_LoteValidoSinAdvertencias(t *testing.T) {
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	fx.stock.addRow(1, bodega, int64Ptr(1), 20, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	uc := movement.NewValidateUseCase(fx.parts, fx.stock)

	result, err := uc.Validate(context.Background(), baseRequest(dto.MovementLine{PartID: 1, Qty: 5}))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}
