// Package pdf implementa el informe imprimible de una sesión de auditoría.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: ServiCampo  │  Auditoría #N + Fecha                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SESIÓN: Tipo / Ubicación / Iniciada por / Estado            │
//	│  RESUMEN: Ítems | Contados | Coinciden | Discrepan | Avance  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Repuesto | N° parte | Estante | Esp | Cont | Dif     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: cierre de la sesión + fecha de generación           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 183, Green: 28, Blue: 28}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa audit.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateAuditReport genera el informe de la sesión y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateAuditReport(
	_ context.Context,
	session *entity.Audit,
	items []*repository.AuditItemDetail,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Auditoría #%d", session.ID), true).
		WithAuthor("ServiCampo", true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sessionRow(session))
	m.AddRows(summaryRow(session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de conteos
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(session)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la empresa (izq) y número de auditoría + fecha (der).
func headerRow(session *entity.Audit) core.Row {
	fecha := session.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("ServiCampo", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Repuestos y bodega de campo", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INFORME DE AUDITORÍA DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Auditoría #%d", session.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Iniciada: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sessionRow: datos de la sesión.
func sessionRow(session *entity.Audit) core.Row {
	detalle := fmt.Sprintf("Tipo: %s   |   Ubicación: %s   |   Iniciada por: %s   |   Estado: %s",
		auditTypeLabel(session.AuditType),
		locationLabel(session.LocationType, session.LocationID),
		nonEmpty(session.StartedBy, "—"),
		statusLabel(session.Status),
	)
	height := 12.0
	if session.Notes != "" {
		height = 17
	}

	cols := []core.Component{
		text.New("DATOS DE LA SESIÓN", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(detalle, props.Text{Size: 8, Top: 7, Color: colorGray}),
	}
	if session.Notes != "" {
		cols = append(cols, text.New("Notas: "+session.Notes, props.Text{
			Size: 8, Top: 12, Color: colorGray,
		}))
	}
	return row.New(height).Add(col.New(12).Add(cols...))
}

// summaryRow: contadores de la sesión en cinco celdas.
func summaryRow(session *entity.Audit) core.Row {
	skipped := session.CountedItems - session.Matched - session.Discrepancies
	cell := func(value, label string, valueColor *props.Color) core.Col {
		return col.New(2).Add(
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Center,
				Color: valueColor, Top: 2,
			}),
			text.New(label, props.Text{
				Size: 7, Align: align.Center, Color: colorGray, Top: 9,
			}),
		)
	}
	discrepColor := colorPrimary
	if session.Discrepancies > 0 {
		discrepColor = colorAlert
	}
	return row.New(16).Add(
		col.New(1),
		cell(fmt.Sprintf("%d", session.TotalItems), "Ítems", colorPrimary),
		cell(fmt.Sprintf("%d", session.CountedItems), "Contados", colorPrimary),
		cell(fmt.Sprintf("%d", session.Matched), "Coinciden", colorPrimary),
		cell(fmt.Sprintf("%d", session.Discrepancies), "Discrepan", discrepColor),
		cell(fmt.Sprintf("%d omit. / %s", skipped, pctLabel(session)), "Avance", colorPrimary),
		col.New(1),
	)
}

// tableHeaderRow: cabecera de la tabla de conteos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Repuesto", 4, align.Left),
		h("N° parte", 2, align.Left),
		h("Estante", 1, align.Center),
		h("Esp.", 1, align.Right),
		h("Cont.", 1, align.Right),
		h("Dif.", 1, align.Right),
		h("Resultado", 2, align.Center),
	)
}

// tableItemRows: una fila por ítem contado, con la nota del operario debajo
// cuando existe.
func tableItemRows(items []*repository.AuditItemDetail) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		resultColor := colorGray
		if it.Result == entity.AuditResultDiscrepancy {
			resultColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				it.PartName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.PartNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Color: colorGray},
			)),
			col.New(1).Add(text.New(
				strOrDash(it.ShelfLocation),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.ExpectedQty),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				countedLabel(it.ActualQty),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				diffLabel(&it.AuditItem),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: resultColor},
			)),
			col.New(2).Add(text.New(
				resultLabel(it.Result),
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: resultColor},
			)),
		))
		if it.Note != "" {
			result = append(result, row.New(5).Add(col.New(12).Add(
				text.New("Nota: "+it.Note, props.Text{
					Size: 7, Left: 3, Top: 0.5, Color: colorGray, Style: fontstyle.Italic,
				}),
			)))
		}
	}
	return result
}

// footerRows: cierre de la sesión + fecha de generación.
func footerRows(session *entity.Audit) []core.Row {
	cierre := "Sesión aún abierta al momento de generar este informe."
	if session.CompletedAt != nil {
		cierre = "Sesión completada el " + session.CompletedAt.Format("02/01/2006 15:04") + "."
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(cierre, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Las discrepancias se ajustan contra el inventario solo al aplicar los ajustes "+
					"de la sesión; este informe refleja lo contado, no lo ajustado. "+
					"Generado el "+time.Now().Format("02/01/2006 15:04")+".",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func auditTypeLabel(auditType string) string {
	switch auditType {
	case entity.AuditTypeSpotCheck:
		return "Revisión puntual"
	case entity.AuditTypeCategory:
		return "Auditoría de categoría"
	case entity.AuditTypeRolling:
		return "Auditoría rotativa"
	}
	return auditType
}

func statusLabel(status string) string {
	switch status {
	case entity.AuditStatusInProgress:
		return "En progreso"
	case entity.AuditStatusPaused:
		return "Pausada"
	case entity.AuditStatusCompleted:
		return "Completada"
	}
	return status
}

func resultLabel(result string) string {
	switch result {
	case entity.AuditResultMatch:
		return "Coincide"
	case entity.AuditResultDiscrepancy:
		return "Discrepa"
	case entity.AuditResultSkipped:
		return "Omitido"
	case entity.AuditResultPending:
		return "Pendiente"
	}
	return result
}

func locationLabel(t entity.LocationType, id int64) string {
	switch t {
	case entity.LocationWarehouse:
		return "bodega"
	case entity.LocationStaging:
		return "preparación"
	case entity.LocationTruck:
		return fmt.Sprintf("camión #%d", id)
	case entity.LocationJob:
		return fmt.Sprintf("trabajo #%d", id)
	}
	return string(t)
}

func pctLabel(session *entity.Audit) string {
	if session.TotalItems == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", session.CountedItems*100/session.TotalItems)
}

func countedLabel(actual *int) string {
	if actual == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *actual)
}

// diffLabel diferencia con signo; vacío mientras no haya conteo.
func diffLabel(item *entity.AuditItem) string {
	if item.ActualQty == nil {
		return ""
	}
	return fmt.Sprintf("%+d", item.Diff())
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
