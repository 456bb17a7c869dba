package movement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// El resolutor de proveedor decide de qué fila sale el stock de una línea con
// prioridad estricta: explícito > preferido con stock suficiente > FIFO >
// ninguno. Es de solo lectura y determinista.
// ──────────────────────────────────────────────────────────────────────────────

var bodega = entity.Location{Type: entity.LocationWarehouse, ID: entity.MainWarehouseID}

func testPart(id int64) *entity.Part {
	catID, styleID, typeID := int64(10), int64(20), int64(30)
	return &entity.Part{
		ID: id, Name: "Capacitor 35/5 440V", PartNumber: "CAP-3505",
		CategoryID: &catID, StyleID: &styleID, TypeID: &typeID,
	}
}

func testSuppliers() []*entity.Supplier {
	return []*entity.Supplier{
		{ID: 1, Name: "Refrineco", Active: true},
		{ID: 2, Name: "ClimaParts", Active: true},
		{ID: 3, Name: "Distrifrío", Active: true},
	}
}

func newResolverFixture(t *testing.T) (*engineFixture, *movement.SupplierResolver) {
	t.Helper()
	fx := newEngineFixture([]*entity.Part{testPart(1)}, testSuppliers())
	resolver := movement.NewSupplierResolver(fx.stock, fx.prefs, fx.suppliers)
	return fx, resolver
}

func TestResolve_ExplicitoGanaSiempre(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	// preferencia configurada y stock FIFO disponible: aun así gana el explícito
	fx.prefs.prefs = append(fx.prefs.prefs, &entity.SupplierPreference{
		Scope: entity.PrefScopePart, ScopeID: 1, SupplierID: 1,
	})
	fx.stock.addRow(1, bodega, int64Ptr(1), 50, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(2), 50, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, int64Ptr(2), 5)
	require.NoError(t, err)
	assert.Equal(t, movement.SourceExplicit, res.Source)
	require.NotNil(t, res.SupplierID)
	assert.Equal(t, int64(2), *res.SupplierID)
	assert.Equal(t, "ClimaParts", res.SupplierName)
}

func TestResolve_PreferidoConStockSuficiente(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	fx.prefs.prefs = append(fx.prefs.prefs, &entity.SupplierPreference{
		Scope: entity.PrefScopePart, ScopeID: 1, SupplierID: 2,
	})
	fx.stock.addRow(1, bodega, int64Ptr(1), 50, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(2), 10, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, movement.SourcePreferred, res.Source)
	require.NotNil(t, res.SupplierID)
	assert.Equal(t, int64(2), *res.SupplierID)
}

func TestResolve_PreferidoSinStockSuficienteCaeAFIFO(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	fx.prefs.prefs = append(fx.prefs.prefs, &entity.SupplierPreference{
		Scope: entity.PrefScopePart, ScopeID: 1, SupplierID: 2,
	})
	// el preferido solo tiene 3; la fila más antigua es la del proveedor 1
	fx.stock.addRow(1, bodega, int64Ptr(1), 50, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(2), 3, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, movement.SourceFIFO, res.Source)
	require.NotNil(t, res.SupplierID)
	assert.Equal(t, int64(1), *res.SupplierID, "debe caer a la fila más antigua, no quedarse con el preferido corto")
}

func TestResolve_CascadaRespetaOrdenDeAmbitos(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	// sin preferencia de repuesto; tipo y categoría configurados: gana tipo
	fx.prefs.prefs = append(fx.prefs.prefs,
		&entity.SupplierPreference{Scope: entity.PrefScopeCategory, ScopeID: 10, SupplierID: 1},
		&entity.SupplierPreference{Scope: entity.PrefScopeType, ScopeID: 30, SupplierID: 3},
	)
	fx.stock.addRow(1, bodega, int64Ptr(3), 20, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, movement.SourcePreferred, res.Source)
	require.NotNil(t, res.SupplierID)
	assert.Equal(t, int64(3), *res.SupplierID, "type es más específico que category en la cascada")
	assert.Equal(t, "Distrifrío", res.SupplierName)
}

func TestResolve_FIFOEligeLaFilaMasAntigua(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	fx.stock.addRow(1, bodega, int64Ptr(2), 6, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(1), 4, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, movement.SourceFIFO, res.Source)
	require.NotNil(t, res.SupplierID)
	assert.Equal(t, int64(1), *res.SupplierID, "la fila con updated_at más antiguo va primero")
}

func TestResolve_FilaAnonimaPorFIFO(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	fx.stock.addRow(1, bodega, nil, 8, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, movement.SourceFIFO, res.Source)
	assert.Nil(t, res.SupplierID)
	assert.Empty(t, res.SupplierName)
}

func TestResolve_SinFilasResuelveNinguno(t *testing.T) {
	_, resolver := newResolverFixture(t)

	res, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, movement.SourceNone, res.Source)
	assert.Nil(t, res.SupplierID)
}

// TestResolve_Determinista mismas existencias y preferencias, misma respuesta:
// el preview y la ejecución deben ver al mismo proveedor.
func TestResolve_Determinista(t *testing.T) {
	fx, resolver := newResolverFixture(t)
	fx.prefs.prefs = append(fx.prefs.prefs, &entity.SupplierPreference{
		Scope: entity.PrefScopeStyle, ScopeID: 20, SupplierID: 1,
	})
	fx.stock.addRow(1, bodega, int64Ptr(1), 30, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	fx.stock.addRow(1, bodega, int64Ptr(2), 15, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))

	first, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 10)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), testPart(1), bodega, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
