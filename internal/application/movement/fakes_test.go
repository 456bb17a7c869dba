package movement_test

import (
	"context"
	"sort"
	"time"

	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// Fakes en memoria de los puertos del motor. Imitan la semántica del adaptador
// PostgreSQL: deducciones condicionadas, orden FIFO por updated_at y rollback
// del lote completo vía snapshot/restore en el runner.

// ── stock ─────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	rows   []*entity.Stock
	nextID int64
	clock  time.Time

	// beforeDeduct permite simular una transacción rival que cambia el stock
	// entre la validación y el UPDATE condicionado.
	beforeDeduct func(partID int64)
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

func sameSupplier(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeStockRepo) find(partID int64, loc entity.Location, supplierID *int64) *entity.Stock {
	for _, r := range f.rows {
		if r.PartID == partID && r.LocationType == loc.Type && r.LocationID == loc.ID && sameSupplier(r.SupplierID, supplierID) {
			return r
		}
	}
	return nil
}

func (f *fakeStockRepo) Get(_ context.Context, partID int64, loc entity.Location, supplierID *int64) (*entity.Stock, error) {
	return f.find(partID, loc, supplierID), nil
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

func (f *fakeStockRepo) DeductExact(_ context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (bool, error) {
	if f.beforeDeduct != nil {
		f.beforeDeduct(partID)
	}
	row := f.find(partID, loc, supplierID)
	if row == nil || row.Qty < qty {
		return false, nil
	}
	row.Qty -= qty
	row.UpdatedAt = f.tick()
	return true, nil
}

func (f *fakeStockRepo) DeductRow(_ context.Context, stockID int64, qty int) (bool, error) {
	for _, r := range f.rows {
		if r.ID == stockID {
			if r.Qty < qty {
				return false, nil
			}
			r.Qty -= qty
			r.UpdatedAt = f.tick()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStockRepo) Add(_ context.Context, partID int64, loc entity.Location, supplierID *int64, qty int) (int64, error) {
	if row := f.find(partID, loc, supplierID); row != nil {
		row.Qty += qty
		row.UpdatedAt = f.tick()
		return row.ID, nil
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
	return domain.ErrNotFound
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

func (f *fakeStockRepo) PruneZero(_ context.Context, partID int64, loc entity.Location) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.PartID == partID && r.LocationType == loc.Type && r.LocationID == loc.ID && r.Qty == 0 {
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

func (f *fakeStockRepo) WarehouseQty(ctx context.Context, partID int64) (int, error) {
	return f.TotalAt(ctx, partID, entity.Location{Type: entity.LocationWarehouse, ID: entity.MainWarehouseID})
}

func (f *fakeStockRepo) snapshot() []*entity.Stock {
	snap := make([]*entity.Stock, len(f.rows))
	for i, r := range f.rows {
		c := *r
		snap[i] = &c
	}
	return snap
}

func (f *fakeStockRepo) restore(snap []*entity.Stock) { f.rows = snap }

// ── libro de movimientos ──────────────────────────────────────────────────────

type fakeLogRepo struct {
	entries []*entity.MovementLog
	nextID  int64
	clock   time.Time
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{nextID: 1, clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeLogRepo) Create(_ context.Context, log *entity.MovementLog) error {
	log.ID = f.nextID
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	log.CreatedAt = f.clock
	c := *log
	f.entries = append(f.entries, &c)
	return nil
}

func (f *fakeLogRepo) List(_ context.Context, filter repository.MovementLogFilter) ([]*entity.MovementLog, error) {
	var list []*entity.MovementLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if filter.PartID != nil && e.PartID != *filter.PartID {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.Reference != nil && e.Reference != *filter.Reference {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

func (f *fakeLogRepo) ConsumedQtySince(_ context.Context, partID int64, since time.Time) (int, error) {
	total := 0
	for _, e := range f.entries {
		if e.PartID != partID || e.CreatedAt.Before(since) {
			continue
		}
		if e.Kind != entity.MovementConsume && e.Kind != entity.MovementTransfer {
			continue
		}
		if e.ToType == nil || (*e.ToType != entity.LocationTruck && *e.ToType != entity.LocationJob) {
			continue
		}
		total += e.Qty
	}
	return total, nil
}

// ── etiquetas de preparación ──────────────────────────────────────────────────

type fakeStagingRepo struct {
	tags  map[int64]*entity.StagingTag
	stock *fakeStockRepo
	clock time.Time
}

func newFakeStagingRepo(stock *fakeStockRepo) *fakeStagingRepo {
	return &fakeStagingRepo{
		tags:  map[int64]*entity.StagingTag{},
		stock: stock,
		clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStagingRepo) Upsert(_ context.Context, tag *entity.StagingTag) error {
	f.clock = f.clock.Add(time.Second)
	c := *tag
	c.TaggedAt = f.clock
	f.tags[tag.StockID] = &c
	return nil
}

func (f *fakeStagingRepo) Get(_ context.Context, stockID int64) (*entity.StagingTag, error) {
	return f.tags[stockID], nil
}

func (f *fakeStagingRepo) ClearForPart(_ context.Context, partID, locationID int64, supplierID *int64) error {
	for _, r := range f.stock.rows {
		if r.PartID == partID && r.LocationType == entity.LocationStaging && r.LocationID == locationID && sameSupplier(r.SupplierID, supplierID) {
			delete(f.tags, r.ID)
		}
	}
	return nil
}

func (f *fakeStagingRepo) snapshot() map[int64]*entity.StagingTag {
	snap := make(map[int64]*entity.StagingTag, len(f.tags))
	for k, v := range f.tags {
		c := *v
		snap[k] = &c
	}
	return snap
}

func (f *fakeStagingRepo) restore(snap map[int64]*entity.StagingTag) { f.tags = snap }

// ── catálogo ──────────────────────────────────────────────────────────────────

type fakePartRepo struct {
	parts map[int64]*entity.Part
}

func newFakePartRepo(parts ...*entity.Part) *fakePartRepo {
	m := map[int64]*entity.Part{}
	for _, p := range parts {
		m[p.ID] = p
	}
	return &fakePartRepo{parts: m}
}

func (f *fakePartRepo) GetByID(_ context.Context, id int64) (*entity.Part, error) {
	return f.parts[id], nil
}

func (f *fakePartRepo) List(_ context.Context, categoryID *int64, includeDeprecated bool, _ int) ([]*entity.Part, error) {
	var list []*entity.Part
	for _, p := range f.parts {
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		if !includeDeprecated && p.Deprecated {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (f *fakePartRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Part, error) {
	return f.List(ctx, &categoryID, false, 0)
}

func (f *fakePartRepo) UpdateLocationHints(_ context.Context, partID int64, shelf, bin *string) error {
	p, ok := f.parts[partID]
	if !ok {
		return domain.ErrNotFound
	}
	if shelf != nil {
		p.ShelfLocation = shelf
	}
	if bin != nil {
		p.BinLocation = bin
	}
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[int64]*entity.Supplier
}

func newFakeSupplierRepo(suppliers ...*entity.Supplier) *fakeSupplierRepo {
	m := map[int64]*entity.Supplier{}
	for _, s := range suppliers {
		m[s.ID] = s
	}
	return &fakeSupplierRepo{suppliers: m}
}

func (f *fakeSupplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	return f.suppliers[id], nil
}

func (f *fakeSupplierRepo) List(_ context.Context, _ bool) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	for _, s := range f.suppliers {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type fakePrefRepo struct {
	prefs []*entity.SupplierPreference
}

func (f *fakePrefRepo) GetByScope(_ context.Context, scope string, scopeID int64) (*entity.SupplierPreference, error) {
	for _, p := range f.prefs {
		if p.Scope == scope && p.ScopeID == scopeID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePrefRepo) Upsert(_ context.Context, pref *entity.SupplierPreference) error {
	for _, p := range f.prefs {
		if p.Scope == pref.Scope && p.ScopeID == pref.ScopeID {
			p.SupplierID = pref.SupplierID
			return nil
		}
	}
	f.prefs = append(f.prefs, pref)
	return nil
}

func (f *fakePrefRepo) Delete(_ context.Context, scope string, scopeID int64) error {
	kept := f.prefs[:0]
	for _, p := range f.prefs {
		if p.Scope == scope && p.ScopeID == scopeID {
			continue
		}
		kept = append(kept, p)
	}
	f.prefs = kept
	return nil
}

// ── directorio de ubicaciones ─────────────────────────────────────────────────

type fakeDirectory struct {
	names map[entity.Location]string
}

func (f *fakeDirectory) DisplayName(_ context.Context, loc entity.Location) (string, error) {
	if name, ok := f.names[loc]; ok {
		return name, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeDirectory) ListTrucks(_ context.Context) ([]*entity.Truck, error) { return nil, nil }
func (f *fakeDirectory) ListJobs(_ context.Context, _ bool) ([]*entity.Job, error) {
	return nil, nil
}

// ── recálculo post-commit ─────────────────────────────────────────────────────

type fakeRefresher struct {
	refreshed []int64
	err       error
}

func (f *fakeRefresher) RefreshPart(_ context.Context, partID int64) error {
	f.refreshed = append(f.refreshed, partID)
	return f.err
}

// ── runner transaccional ──────────────────────────────────────────────────────

// fakeTxRunner ejecuta fn sobre los fakes y, si falla, restaura el estado
// previo: mismo contrato todo-o-nada que la transacción real.
type fakeTxRunner struct {
	repos   ports.TxRepos
	stock   *fakeStockRepo
	logs    *fakeLogRepo
	staging *fakeStagingRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	stockSnap := f.stock.snapshot()
	logCount := len(f.logs.entries)
	stagingSnap := f.staging.snapshot()
	if err := fn(f.repos); err != nil {
		f.stock.restore(stockSnap)
		f.logs.entries = f.logs.entries[:logCount]
		f.staging.restore(stagingSnap)
		return err
	}
	return nil
}

// ── armado del entorno ────────────────────────────────────────────────────────

type engineFixture struct {
	stock     *fakeStockRepo
	logs      *fakeLogRepo
	staging   *fakeStagingRepo
	parts     *fakePartRepo
	prefs     *fakePrefRepo
	suppliers *fakeSupplierRepo
	directory *fakeDirectory
	refresher *fakeRefresher
	tx        *fakeTxRunner
}

func newEngineFixture(parts []*entity.Part, suppliers []*entity.Supplier) *engineFixture {
	fx := &engineFixture{
		stock:     newFakeStockRepo(),
		logs:      newFakeLogRepo(),
		parts:     newFakePartRepo(parts...),
		prefs:     &fakePrefRepo{},
		suppliers: newFakeSupplierRepo(suppliers...),
		directory: &fakeDirectory{names: map[entity.Location]string{}},
		refresher: &fakeRefresher{},
	}
	fx.staging = newFakeStagingRepo(fx.stock)
	fx.tx = &fakeTxRunner{
		repos: ports.TxRepos{
			Stock:     fx.stock,
			Logs:      fx.logs,
			Staging:   fx.staging,
			Parts:     fx.parts,
			Prefs:     fx.prefs,
			Suppliers: fx.suppliers,
		},
		stock:   fx.stock,
		logs:    fx.logs,
		staging: fx.staging,
	}
	return fx
}

func int64Ptr(v int64) *int64 { return &v }
