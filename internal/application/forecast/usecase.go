package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/application/ports"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

var _ movement.PostCommitRefresher = (*UseCase)(nil)

// UseCase recalcula el pronóstico de consumo por repuesto y vigila el stock
// bajo. Corre después del commit de cada movimiento, nunca dentro de la
// transacción, y el recálculo es idempotente: repetirlo da el mismo resultado.
type UseCase struct {
	parts     repository.PartRepository
	stock     repository.StockRepository
	logs      repository.MovementLogRepository
	forecasts repository.ForecastRepository
	audits    repository.AuditRepository
	tx        ports.TxRunner
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de pronósticos.
func NewUseCase(
	parts repository.PartRepository,
	stock repository.StockRepository,
	logs repository.MovementLogRepository,
	forecasts repository.ForecastRepository,
	audits repository.AuditRepository,
	tx ports.TxRunner,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		parts:     parts,
		stock:     stock,
		logs:      logs,
		forecasts: forecasts,
		audits:    audits,
		tx:        tx,
		log:       log.Component("forecast"),
	}
}

// RefreshPart es el gancho post-commit del ejecutor: recalcula el pronóstico
// del repuesto y corre el centinela de stock bajo.
func (uc *UseCase) RefreshPart(ctx context.Context, partID int64) error {
	part, err := uc.parts.GetByID(ctx, partID)
	if err != nil {
		return err
	}
	if part == nil {
		return fmt.Errorf("%w: %d", domain.ErrPartNotFound, partID)
	}
	whQty, err := uc.stock.WarehouseQty(ctx, partID)
	if err != nil {
		return err
	}
	if _, err := uc.compute(ctx, part, whQty); err != nil {
		return err
	}
	created, err := uc.watchLowStock(ctx, part, whQty)
	if err != nil {
		return err
	}
	if created {
		uc.log.Info().
			Int64("part_id", part.ID).
			Int("qty", whQty).
			Int("min_stock", part.MinStock).
			Msg("revisión puntual creada por stock bajo")
	}
	return nil
}

// Get devuelve el pronóstico almacenado; si el repuesto nunca se ha movido
// lo calcula en el momento.
func (uc *UseCase) Get(ctx context.Context, partID int64) (*entity.Forecast, error) {
	f, err := uc.forecasts.Get(ctx, partID)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f, nil
	}
	return uc.Recompute(ctx, partID)
}

// Recompute recalcula y persiste el pronóstico completo del repuesto.
func (uc *UseCase) Recompute(ctx context.Context, partID int64) (*entity.Forecast, error) {
	part, err := uc.parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrPartNotFound, partID)
	}
	whQty, err := uc.stock.WarehouseQty(ctx, partID)
	if err != nil {
		return nil, err
	}
	return uc.compute(ctx, part, whQty)
}

// compute deriva las estadísticas desde el libro de movimientos y la bodega.
// El uso diario promedio sale de los consumos y cargas a camión/trabajo de
// las ventanas de 30 y 90 días.
func (uc *UseCase) compute(ctx context.Context, part *entity.Part, whQty int) (*entity.Forecast, error) {
	now := time.Now()
	qty30, err := uc.logs.ConsumedQtySince(ctx, part.ID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	qty90, err := uc.logs.ConsumedQtySince(ctx, part.ID, now.AddDate(0, 0, -90))
	if err != nil {
		return nil, err
	}
	adu30 := decimal.NewFromInt(int64(qty30)).DivRound(decimal.NewFromInt(30), 2)
	adu90 := decimal.NewFromInt(int64(qty90)).DivRound(decimal.NewFromInt(90), 2)

	forecast := &entity.Forecast{
		PartID:         part.ID,
		ADU30:          adu30,
		ADU90:          adu90,
		ReorderPoint:   part.MinStock + int(adu30.Mul(decimal.NewFromInt(7)).IntPart()),
		SuggestedOrder: max(0, part.TargetStock-whQty),
		DaysUntilLow:   daysUntilLow(adu30, whQty, part.MinStock),
		ComputedAt:     now,
	}
	if err := uc.forecasts.Upsert(ctx, forecast); err != nil {
		return nil, err
	}
	return forecast, nil
}

// daysUntilLow días que quedan antes de caer bajo el mínimo al ritmo actual.
// -1 significa ya bajo mínimo; 999 sin consumo y por encima del piso.
func daysUntilLow(adu30 decimal.Decimal, whQty, minStock int) int {
	if adu30.IsPositive() {
		days := decimal.NewFromInt(int64(whQty - minStock)).Div(adu30).Floor()
		return max(-1, int(days.IntPart()))
	}
	if whQty <= minStock {
		return -1
	}
	return entity.DaysUntilLowNotAtRisk
}

// watchLowStock abre una revisión puntual de un solo ítem si el repuesto cayó
// bajo su mínimo. Es el único punto del sistema que crea auditorías por su
// cuenta; se abstiene si el repuesto está en desmonte, no tiene piso o ya hay
// una revisión abierta que lo incluya.
func (uc *UseCase) watchLowStock(ctx context.Context, part *entity.Part, whQty int) (bool, error) {
	if part.WindingDown() || part.MinStock <= 0 {
		return false, nil
	}
	if whQty >= part.MinStock {
		return false, nil
	}
	exists, err := uc.audits.OpenSpotCheckExistsForPart(ctx, part.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	audit := &entity.Audit{
		AuditType:    entity.AuditTypeSpotCheck,
		LocationType: entity.LocationWarehouse,
		LocationID:   entity.MainWarehouseID,
		Status:       entity.AuditStatusInProgress,
		StartedBy:    "sistema",
		Notes:        fmt.Sprintf("Creada automáticamente: %s cayó bajo el mínimo (%d < %d)", part.Name, whQty, part.MinStock),
	}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Audits.Create(ctx, audit); err != nil {
			return err
		}
		items := []*entity.AuditItem{{PartID: part.ID, ExpectedQty: whQty}}
		if err := repos.Audits.InsertItems(ctx, audit.ID, items); err != nil {
			return err
		}
		return repos.Audits.RefreshSummary(ctx, audit.ID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
