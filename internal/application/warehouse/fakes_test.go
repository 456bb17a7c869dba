package warehouse_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/application/warehouse"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// fakeQueryRepo respuestas enlatadas del repositorio de consultas de bodega.
type fakeQueryRepo struct {
	within, considered int
	units              int
	shortfall          int
	value              decimal.Decimal
	valueCalls         int

	inventory []repository.InventoryRow
	activity  []repository.ActivityRow
	staging   []repository.StagingRow
	belowMin  []repository.LowStockRow
}

func (f *fakeQueryRepo) TotalWarehouseUnits(context.Context) (int, error) { return f.units, nil }

func (f *fakeQueryRepo) WarehouseValue(context.Context) (decimal.Decimal, error) {
	f.valueCalls++
	return f.value, nil
}

func (f *fakeQueryRepo) StockHealthCounts(context.Context) (int, int, error) {
	return f.within, f.considered, nil
}

func (f *fakeQueryRepo) ShortfallCount(context.Context) (int, error) { return f.shortfall, nil }

func (f *fakeQueryRepo) InventoryRows(context.Context) ([]repository.InventoryRow, error) {
	return f.inventory, nil
}

func (f *fakeQueryRepo) ActivityRows(_ context.Context, limit int) ([]repository.ActivityRow, error) {
	if limit > 0 && len(f.activity) > limit {
		return f.activity[:limit], nil
	}
	return f.activity, nil
}

func (f *fakeQueryRepo) StagingRows(context.Context) ([]repository.StagingRow, error) {
	return f.staging, nil
}

func (f *fakeQueryRepo) BelowMinRows(_ context.Context, limit int) ([]repository.LowStockRow, error) {
	if limit > 0 && len(f.belowMin) > limit {
		return f.belowMin[:limit], nil
	}
	return f.belowMin, nil
}

// fakeAuditListRepo solo responde List; el resto del puerto no se usa aquí.
type fakeAuditListRepo struct {
	repository.AuditRepository
	sessions []*entity.Audit
}

func (f *fakeAuditListRepo) List(_ context.Context, status *string, limit int) ([]*entity.Audit, error) {
	var list []*entity.Audit
	for _, a := range f.sessions {
		if status != nil && a.Status != *status {
			continue
		}
		list = append(list, a)
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type warehouseFixture struct {
	queries *fakeQueryRepo
	audits  *fakeAuditListRepo
	uc      *warehouse.UseCase
}

func newWarehouseFixture() *warehouseFixture {
	fx := &warehouseFixture{
		queries: &fakeQueryRepo{},
		audits:  &fakeAuditListRepo{},
	}
	fx.uc = warehouse.NewUseCase(fx.queries, fx.audits)
	return fx
}

// stagedRow fila de preparación puesta hace `hoursAgo` horas.
func stagedRow(stockID, partID int64, name string, qty int, hoursAgo float64) repository.StagingRow {
	return repository.StagingRow{
		StockID:    stockID,
		PartID:     partID,
		PartName:   name,
		PartNumber: "PN-" + name[:3],
		Qty:        qty,
		StagedAt:   time.Now().Add(-time.Duration(hoursAgo * float64(time.Hour))),
	}
}

func taggedTo(row repository.StagingRow, destType entity.LocationType, destID int64, label, taggedBy string) repository.StagingRow {
	row.DestinationType = &destType
	row.DestinationID = &destID
	if label != "" {
		row.DestinationLabel = &label
	}
	if taggedBy != "" {
		row.TaggedBy = &taggedBy
	}
	return row
}

func locPtr(t entity.LocationType) *entity.LocationType { return &t }
func int64Ptr(v int64) *int64                           { return &v }
func intPtr(v int) *int                                 { return &v }
