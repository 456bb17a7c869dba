// Package warehouse contiene las vistas de lectura de la bodega: KPIs del
// dashboard, feed de actividad, tareas pendientes, grilla de inventario y
// área de preparación. Todo es read-only; las escrituras viven en los
// paquetes movement y audit.
package warehouse

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

const (
	activityDefaultLimit = 10 // movimientos en el feed del dashboard
	lowStockTaskLimit    = 10 // repuestos bajo mínimo en la lista de tareas
	openAuditTaskLimit   = 20 // sesiones abiertas consideradas para tareas
)

// UseCase vistas agregadas de bodega sobre el repositorio de consultas.
type UseCase struct {
	queries repository.WarehouseQueryRepository
	audits  repository.AuditRepository
}

// NewUseCase construye las vistas de bodega.
func NewUseCase(queries repository.WarehouseQueryRepository, audits repository.AuditRepository) *UseCase {
	return &UseCase{queries: queries, audits: audits}
}

// Dashboard construye los KPIs de cabecera. includeValue controla si se
// calcula el valor monetario del inventario (solo lo ven los admin).
//
// Cuatro consultas (cinco con el valor) en paralelo:
//  1. StockHealthCounts → % de repuestos dentro de su rango
//  2. TotalWarehouseUnits
//  3. ShortfallCount
//  4. Tasks → pending_task_count
//  5. WarehouseValue (solo admin)
func (uc *UseCase) Dashboard(ctx context.Context, includeValue bool) (*dto.DashboardKPIs, error) {
	type healthResult struct {
		within, considered int
		err                error
	}
	type countResult struct {
		n   int
		err error
	}
	type valueResult struct {
		v   decimal.Decimal
		err error
	}
	type tasksResult struct {
		tasks []dto.PendingTask
		err   error
	}

	healthCh := make(chan healthResult, 1)
	unitsCh := make(chan countResult, 1)
	shortfallCh := make(chan countResult, 1)
	tasksCh := make(chan tasksResult, 1)
	valueCh := make(chan valueResult, 1)

	go func() {
		within, considered, err := uc.queries.StockHealthCounts(ctx)
		healthCh <- healthResult{within, considered, err}
	}()
	go func() {
		n, err := uc.queries.TotalWarehouseUnits(ctx)
		unitsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.queries.ShortfallCount(ctx)
		shortfallCh <- countResult{n, err}
	}()
	go func() {
		tasks, err := uc.Tasks(ctx)
		tasksCh <- tasksResult{tasks, err}
	}()
	if includeValue {
		go func() {
			v, err := uc.queries.WarehouseValue(ctx)
			valueCh <- valueResult{v, err}
		}()
	} else {
		valueCh <- valueResult{v: decimal.Zero}
	}

	health := <-healthCh
	units := <-unitsCh
	shortfall := <-shortfallCh
	tasks := <-tasksCh
	value := <-valueCh

	if health.err != nil {
		return nil, fmt.Errorf("dashboard: salud de stock: %w", health.err)
	}
	if units.err != nil {
		return nil, fmt.Errorf("dashboard: unidades totales: %w", units.err)
	}
	if shortfall.err != nil {
		return nil, fmt.Errorf("dashboard: faltantes: %w", shortfall.err)
	}
	if tasks.err != nil {
		return nil, fmt.Errorf("dashboard: tareas pendientes: %w", tasks.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor de bodega: %w", value.err)
	}

	kpis := &dto.DashboardKPIs{
		StockHealthPct:   healthPct(health.within, health.considered),
		TotalUnits:       units.n,
		ShortfallCount:   shortfall.n,
		PendingTaskCount: len(tasks.tasks),
	}
	if includeValue {
		v := value.v.Round(2)
		kpis.WarehouseValue = &v
	}
	return kpis, nil
}

// Activity devuelve los últimos movimientos como resúmenes de una línea,
// el más reciente primero.
func (uc *UseCase) Activity(ctx context.Context, limit int) ([]dto.ActivityEntry, error) {
	if limit <= 0 {
		limit = activityDefaultLimit
	}
	rows, err := uc.queries.ActivityRows(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.ActivityEntry{
			ID:            row.LogID,
			Summary:       activitySummary(row),
			Kind:          row.Kind,
			PerformerName: row.PerformerName,
			CreatedAt:     row.CreatedAt,
		})
	}
	return entries, nil
}

// Tasks arma la lista de tareas pendientes: material en preparación por
// destino, sesiones de auditoría abiertas y repuestos bajo su mínimo.
func (uc *UseCase) Tasks(ctx context.Context) ([]dto.PendingTask, error) {
	tasks := []dto.PendingTask{}

	staging, err := uc.Staging(ctx)
	if err != nil {
		return nil, fmt.Errorf("tareas: preparación: %w", err)
	}
	for _, g := range staging.Groups {
		tasks = append(tasks, dto.PendingTask{
			TaskType: "staging",
			Title:    fmt.Sprintf("En preparación: %d unidades para %s", g.TotalQty, g.DestinationLabel),
			Subtitle: fmt.Sprintf("%d ítems, %s", len(g.Items), formatHours(g.OldestHours)),
			RefID:    g.DestinationID,
			Priority: g.AgingStatus,
		})
	}

	sessions, err := uc.audits.List(ctx, nil, openAuditTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("tareas: auditorías: %w", err)
	}
	for _, a := range sessions {
		if !a.Open() {
			continue
		}
		subtitle := "Arrancando..."
		pct := 0
		if a.TotalItems > 0 {
			subtitle = fmt.Sprintf("%d de %d contados", a.CountedItems, a.TotalItems)
			pct = int(math.Round(float64(a.CountedItems) / float64(a.TotalItems) * 100))
		}
		tasks = append(tasks, dto.PendingTask{
			TaskType: "audit",
			Title:    fmt.Sprintf("%s al %d%%", auditTypeLabel(a.AuditType), pct),
			Subtitle: subtitle,
			RefID:    a.ID,
			Priority: "normal",
		})
	}

	low, err := uc.queries.BelowMinRows(ctx, lowStockTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("tareas: stock bajo: %w", err)
	}
	for _, r := range low {
		priority := "warning"
		if r.WarehouseQty == 0 {
			priority = "critical"
		}
		subtitle := fmt.Sprintf("%d en bodega, mínimo %d", r.WarehouseQty, r.MinStock)
		if r.SuggestedOrder != nil && *r.SuggestedOrder > 0 {
			subtitle += fmt.Sprintf(", pedir %d", *r.SuggestedOrder)
		}
		tasks = append(tasks, dto.PendingTask{
			TaskType: "low_stock",
			Title:    "Stock bajo: " + r.Name,
			Subtitle: subtitle,
			RefID:    r.PartID,
			Priority: priority,
		})
	}

	return tasks, nil
}

// healthPct porcentaje de repuestos dentro de su rango, con un decimal.
// Sin repuestos que considerar la salud es 100.
func healthPct(within, considered int) float64 {
	if considered == 0 {
		return 100
	}
	return math.Round(float64(within)/float64(considered)*1000) / 10
}

// activitySummary una línea legible del movimiento, ej.:
// "María movió 12× Capacitor 35/5 (bodega → camión #3)".
func activitySummary(row repository.ActivityRow) string {
	performer := row.PerformerName
	if performer == "" {
		performer = "Alguien"
	}
	s := fmt.Sprintf("%s %s %d× %s", performer, movementVerb(row.Kind), row.Qty, row.PartName)
	if row.FromType != nil && row.ToType != nil {
		s += fmt.Sprintf(" (%s → %s)", locationPhrase(*row.FromType, row.FromID), locationPhrase(*row.ToType, row.ToID))
	}
	return s
}

func movementVerb(kind string) string {
	switch kind {
	case entity.MovementConsume:
		return "consumió"
	case entity.MovementReturn:
		return "devolvió"
	case entity.MovementReceive:
		return "recibió"
	case entity.MovementAdjust:
		return "ajustó"
	}
	return "movió"
}

// locationPhrase nombre corto de una ubicación para textos del feed.
func locationPhrase(t entity.LocationType, id *int64) string {
	switch t {
	case entity.LocationWarehouse:
		return "bodega"
	case entity.LocationStaging:
		return "preparación"
	case entity.LocationTruck:
		if id != nil {
			return fmt.Sprintf("camión #%d", *id)
		}
		return "camión"
	case entity.LocationJob:
		if id != nil {
			return fmt.Sprintf("trabajo #%d", *id)
		}
		return "trabajo"
	}
	return string(t)
}

func auditTypeLabel(auditType string) string {
	switch auditType {
	case entity.AuditTypeSpotCheck:
		return "Revisión puntual"
	case entity.AuditTypeCategory:
		return "Auditoría de categoría"
	case entity.AuditTypeRolling:
		return "Auditoría rotativa"
	}
	return "Auditoría"
}

// formatHours tiempo de espera legible para subtítulos.
func formatHours(hours float64) string {
	switch {
	case hours < 1:
		return "recién puesto"
	case hours < 24:
		return fmt.Sprintf("hace %d h", int(hours))
	}
	days := int(hours / 24)
	if days == 1 {
		return "hace 1 día"
	}
	return fmt.Sprintf("hace %d días", days)
}
