package audit_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jportillac/servicampo-api/internal/application/audit"
	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

// Fakes en memoria de los puertos que toca el administrador de auditorías.
// Imitan la semántica SQL relevante: filas FIFO, GREATEST(0, ...) en los
// ajustes y el orden de pasillo en el siguiente pendiente.

// ── sesiones e ítems ──────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	audits map[int64]*entity.Audit
	items  map[int64][]*entity.AuditItem
	parts  *fakePartRepo

	nextAuditID int64
	nextItemID  int64
	clock       time.Time

	rollingCategory *int64
	rollingParts    []*entity.Part
}

func newFakeAuditRepo(parts *fakePartRepo) *fakeAuditRepo {
	return &fakeAuditRepo{
		audits: map[int64]*entity.Audit{},
		items:  map[int64][]*entity.AuditItem{},
		parts:  parts,
		clock:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (f *fakeAuditRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeAuditRepo) Create(_ context.Context, a *entity.Audit) error {
	f.nextAuditID++
	a.ID = f.nextAuditID
	a.CreatedAt = f.tick()
	c := *a
	f.audits[a.ID] = &c
	return nil
}

func (f *fakeAuditRepo) GetByID(_ context.Context, id int64) (*entity.Audit, error) {
	a, ok := f.audits[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (f *fakeAuditRepo) List(_ context.Context, status *string, limit int) ([]*entity.Audit, error) {
	var list []*entity.Audit
	for _, a := range f.audits {
		if status != nil && a.Status != *status {
			continue
		}
		c := *a
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeAuditRepo) UpdateStatus(_ context.Context, id int64, status string, completedAt *time.Time) error {
	a, ok := f.audits[id]
	if !ok {
		return fmt.Errorf("update audit status: no existe %d", id)
	}
	a.Status = status
	a.CompletedAt = completedAt
	return nil
}

func (f *fakeAuditRepo) RefreshSummary(_ context.Context, id int64) error {
	a, ok := f.audits[id]
	if !ok {
		return fmt.Errorf("refresh audit summary: no existe %d", id)
	}
	a.TotalItems, a.CountedItems, a.Matched, a.Discrepancies = 0, 0, 0, 0
	for _, it := range f.items[id] {
		a.TotalItems++
		switch it.Result {
		case entity.AuditResultMatch:
			a.Matched++
			a.CountedItems++
		case entity.AuditResultDiscrepancy:
			a.Discrepancies++
			a.CountedItems++
		case entity.AuditResultSkipped:
			a.CountedItems++
		}
	}
	return nil
}

func (f *fakeAuditRepo) InsertItems(_ context.Context, auditID int64, items []*entity.AuditItem) error {
	for _, it := range items {
		f.nextItemID++
		it.ID = f.nextItemID
		it.AuditID = auditID
		if it.Result == "" {
			it.Result = entity.AuditResultPending
		}
		c := *it
		f.items[auditID] = append(f.items[auditID], &c)
	}
	return nil
}

func (f *fakeAuditRepo) Items(_ context.Context, auditID int64) ([]*entity.AuditItem, error) {
	var list []*entity.AuditItem
	for _, it := range f.items[auditID] {
		c := *it
		list = append(list, &c)
	}
	return list, nil
}

func (f *fakeAuditRepo) ItemsDetailed(_ context.Context, auditID int64) ([]*repository.AuditItemDetail, error) {
	var list []*repository.AuditItemDetail
	for _, it := range f.items[auditID] {
		d := repository.AuditItemDetail{AuditItem: *it}
		if p := f.parts.parts[it.PartID]; p != nil {
			d.PartName = p.Name
			d.PartNumber = p.PartNumber
			d.ShelfLocation = p.ShelfLocation
		}
		list = append(list, &d)
	}
	return list, nil
}

func (f *fakeAuditRepo) GetItem(_ context.Context, auditID, itemID int64) (*entity.AuditItem, error) {
	for _, it := range f.items[auditID] {
		if it.ID == itemID {
			c := *it
			return &c, nil
		}
	}
	return nil, nil
}

// NextPendingItem orden de pasillo: estante primero (sin estante al final),
// luego nombre.
func (f *fakeAuditRepo) NextPendingItem(_ context.Context, auditID int64) (*entity.AuditItem, error) {
	var pending []*entity.AuditItem
	for _, it := range f.items[auditID] {
		if it.Result == entity.AuditResultPending {
			pending = append(pending, it)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	sort.SliceStable(pending, func(i, j int) bool {
		pi, pj := f.parts.parts[pending[i].PartID], f.parts.parts[pending[j].PartID]
		if pi == nil || pj == nil {
			return pending[i].ID < pending[j].ID
		}
		return shelfLess(pi, pj)
	})
	c := *pending[0]
	return &c, nil
}

// shelfLess orden de pasillo: estante ascendente con los sin estante al
// final, luego nombre.
func shelfLess(a, b *entity.Part) bool {
	if (a.ShelfLocation == nil) != (b.ShelfLocation == nil) {
		return b.ShelfLocation == nil
	}
	if a.ShelfLocation != nil && *a.ShelfLocation != *b.ShelfLocation {
		return *a.ShelfLocation < *b.ShelfLocation
	}
	return a.Name < b.Name
}

func (f *fakeAuditRepo) RecordCount(_ context.Context, itemID int64, actualQty *int, result, note string, photoPath *string) error {
	for _, items := range f.items {
		for _, it := range items {
			if it.ID == itemID {
				it.ActualQty = actualQty
				it.Result = result
				it.Note = note
				it.PhotoPath = photoPath
				at := f.tick()
				it.CountedAt = &at
				return nil
			}
		}
	}
	return fmt.Errorf("record audit count: no existe el ítem %d", itemID)
}

func (f *fakeAuditRepo) OpenSpotCheckExistsForPart(_ context.Context, partID int64) (bool, error) {
	for _, a := range f.audits {
		if a.AuditType != entity.AuditTypeSpotCheck || !a.Open() {
			continue
		}
		for _, it := range f.items[a.ID] {
			if it.PartID == partID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeAuditRepo) LeastAuditedCategory(_ context.Context) (*int64, error) {
	return f.rollingCategory, nil
}

func (f *fakeAuditRepo) RollingParts(_ context.Context, _ int64, limit int) ([]*entity.Part, error) {
	if len(f.rollingParts) > limit {
		return f.rollingParts[:limit], nil
	}
	return f.rollingParts, nil
}

// ── libro mayor ───────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	repository.StockRepository
	rows   []*entity.Stock
	nextID int64
	clock  time.Time
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{nextID: 1, clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeStockRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStockRepo) addRow(partID int64, loc entity.Location, supplierID *int64, qty int, updatedAt time.Time) *entity.Stock {
	row := &entity.Stock{
		ID: f.nextID, PartID: partID, LocationType: loc.Type, LocationID: loc.ID,
		SupplierID: supplierID, Qty: qty, UpdatedAt: updatedAt,
	}
	f.nextID++
	f.rows = append(f.rows, row)
	return row
}

func (f *fakeStockRepo) ListAt(_ context.Context, partID int64, loc entity.Location) ([]*entity.Stock, error) {
	var list []*entity.Stock
	for _, r := range f.rows {
		if r.PartID == partID && r.LocationType == loc.Type && r.LocationID == loc.ID {
			list = append(list, r)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.Before(list[j].UpdatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (f *fakeStockRepo) TotalAt(ctx context.Context, partID int64, loc entity.Location) (int, error) {
	rows, _ := f.ListAt(ctx, partID, loc)
	total := 0
	for _, r := range rows {
		total += r.Qty
	}
	return total, nil
}

func (f *fakeStockRepo) Add(_ context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (int64, error) {
	for _, r := range f.rows {
		if r.PartID == partID && r.LocationType == loc.Type && r.LocationID == loc.ID && sameSupplier(r.SupplierID, supplierID) {
			r.Qty += qty
			r.UpdatedAt = f.tick()
			return r.ID, nil
		}
	}
	row := f.addRow(partID, loc, supplierID, qty, f.tick())
	return row.ID, nil
}

func (f *fakeStockRepo) AdjustFloored(_ context.Context, stockID int64, diff int) error {
	for _, r := range f.rows {
		if r.ID == stockID {
			r.Qty = max(0, r.Qty+diff)
			r.UpdatedAt = f.tick()
			return nil
		}
	}
	return fmt.Errorf("adjust stock: no existe la fila %d", stockID)
}

func (f *fakeStockRepo) DeleteIfZero(_ context.Context, stockID int64) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.ID == stockID && r.Qty == 0 {
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return nil
}

func (f *fakeStockRepo) UpdateLastCounted(_ context.Context, partID int64, loc entity.Location, at time.Time) error {
	for _, r := range f.rows {
		if r.PartID == partID && r.LocationType == loc.Type && r.LocationID == loc.ID {
			t := at
			r.LastCounted = &t
		}
	}
	return nil
}

func sameSupplier(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ── catálogo y libro de movimientos ───────────────────────────────────────────

type fakePartRepo struct {
	repository.PartRepository
	parts map[int64]*entity.Part
}

func (f *fakePartRepo) GetByID(_ context.Context, id int64) (*entity.Part, error) {
	return f.parts[id], nil
}

func (f *fakePartRepo) ListByCategory(_ context.Context, categoryID int64) ([]*entity.Part, error) {
	var list []*entity.Part
	for _, p := range f.parts {
		if p.Deprecated || p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		list = append(list, p)
	}
	sort.SliceStable(list, func(i, j int) bool { return shelfLess(list[i], list[j]) })
	return list, nil
}

type fakeLogRepo struct {
	repository.MovementLogRepository
	entries []*entity.MovementLog
	nextID  int64
}

func (f *fakeLogRepo) Create(_ context.Context, log *entity.MovementLog) error {
	f.nextID++
	log.ID = f.nextID
	log.CreatedAt = time.Now()
	c := *log
	f.entries = append(f.entries, &c)
	return nil
}

func (f *fakeLogRepo) List(_ context.Context, filter repository.MovementLogFilter) ([]*entity.MovementLog, error) {
	var list []*entity.MovementLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.Reference != nil && e.Reference != *filter.Reference {
			continue
		}
		if filter.PartID != nil && e.PartID != *filter.PartID {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

// ── recálculo y transacciones ─────────────────────────────────────────────────

type fakeRefresher struct {
	refreshed []int64
	err       error
}

func (f *fakeRefresher) RefreshPart(_ context.Context, partID int64) error {
	f.refreshed = append(f.refreshed, partID)
	return f.err
}

type fakeTx struct {
	repos ports.TxRepos
}

func (f *fakeTx) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	return fn(f.repos)
}

// ── armado del entorno ────────────────────────────────────────────────────────

type auditFixture struct {
	audits    *fakeAuditRepo
	parts     *fakePartRepo
	stock     *fakeStockRepo
	logs      *fakeLogRepo
	refresher *fakeRefresher
	uc        *audit.UseCase
}

func newAuditFixture(parts ...*entity.Part) *auditFixture {
	fx := &auditFixture{
		parts:     &fakePartRepo{parts: map[int64]*entity.Part{}},
		stock:     newFakeStockRepo(),
		logs:      &fakeLogRepo{},
		refresher: &fakeRefresher{},
	}
	for _, p := range parts {
		fx.parts.parts[p.ID] = p
	}
	fx.audits = newFakeAuditRepo(fx.parts)
	tx := &fakeTx{repos: ports.TxRepos{
		Stock:  fx.stock,
		Logs:   fx.logs,
		Parts:  fx.parts,
		Audits: fx.audits,
	}}
	fx.uc = audit.NewUseCase(fx.audits, fx.parts, fx.stock, fx.logs, tx, fx.refresher, logger.Nop())
	return fx
}

var bodega = entity.Location{Type: entity.LocationWarehouse, ID: entity.MainWarehouseID}

// auditPart repuesto de catálogo con precios fijos para verificar la foto de
// costos en los ajustes.
func auditPart(id int64, name, number string, shelf *string) *entity.Part {
	return &entity.Part{
		ID:            id,
		Name:          name,
		PartNumber:    number,
		UnitCost:      decimal.RequireFromString("85.50"),
		UnitSell:      decimal.RequireFromString("129.90"),
		MinStock:      2,
		TargetStock:   20,
		ShelfLocation: shelf,
	}
}

// startSpotCheck inicia una revisión puntual ya validada sobre los repuestos
// dados.
func (fx *auditFixture) startSpotCheck(t *testing.T, partIDs ...int64) *dto.AuditDetailResponse {
	t.Helper()
	detail, err := fx.uc.Start(context.Background(), "Carlos", dto.AuditStartRequest{
		AuditType: entity.AuditTypeSpotCheck,
		PartIDs:   partIDs,
	})
	require.NoError(t, err)
	return detail
}

// itemFor busca el ítem de la sesión que corresponde al repuesto.
func itemFor(t *testing.T, detail *dto.AuditDetailResponse, partID int64) dto.AuditItemResponse {
	t.Helper()
	for _, it := range detail.Items {
		if it.PartID == partID {
			return it
		}
	}
	t.Fatalf("la sesión no tiene ítem para el repuesto %d", partID)
	return dto.AuditItemResponse{}
}

// countItem registra un conteo que se espera exitoso.
func (fx *auditFixture) countItem(t *testing.T, auditID, itemID int64, actual int) *dto.AuditResponse {
	t.Helper()
	resp, err := fx.uc.RecordCount(context.Background(), auditID, itemID, dto.AuditCountRequest{ActualQty: &actual})
	require.NoError(t, err)
	return resp
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
