// Package pdf implementa la exportación a PDF de órdenes de trabajo y documentos de
// cumplimiento (JSA, LOTO, permisos, CAPA, RCA).
//
// Layout de la página A4 de una orden de trabajo:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° OT + Estado + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Tipo / Prioridad / Activo / Técnico / Fechas         │
//	│  DESCRIPCIÓN                                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CHECKLIST: [ ] actividad                                    │
//	│  REPUESTOS: SKU | Cant | Costo                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el código de la OT + firmas                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ports"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.PDFRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// WorkOrderPDF genera el PDF de una orden de trabajo y devuelve sus bytes.
func (g *MarotoPDFGenerator) WorkOrderPDF(_ context.Context, r ports.WorkOrderReport) ([]byte, error) {
	if r.WorkOrder == nil || r.Company == nil {
		return nil, fmt.Errorf("pdf: orden o empresa ausente")
	}
	wo := r.WorkOrder
	m := newDocument("Orden de trabajo "+wo.Code, r.Company.Name)

	m.AddRows(headerRow(r.Company, "ORDEN DE TRABAJO", wo.Code, wo.Status, wo.CreatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(workOrderDataRows(r)...)
	m.AddRows(sectionTitle("DESCRIPCIÓN"))
	m.AddRows(paragraphRows(nonEmpty(wo.Description, "—"))...)

	if len(wo.Checklist) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("CHECKLIST"))
		for _, item := range wo.Checklist {
			m.AddRows(row.New(6).Add(col.New(12).Add(
				text.New("[   ]  "+item, props.Text{Size: 9, Top: 1, Left: 2}),
			)))
		}
	}

	if len(r.Movements) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("REPUESTOS CONSUMIDOS"))
		m.AddRows(movementHeaderRow())
		m.AddRows(movementRows(r.Movements)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(workOrderFooterRow(wo))
	return render(m)
}

// DocumentPDF genera el PDF de un documento de cumplimiento.
func (g *MarotoPDFGenerator) DocumentPDF(_ context.Context, r ports.DocumentReport) ([]byte, error) {
	if r.Document == nil || r.Company == nil {
		return nil, fmt.Errorf("pdf: documento o empresa ausente")
	}
	d := r.Document
	m := newDocument(documentTitle(d.Type)+" "+d.Code, r.Company.Name)

	m.AddRows(headerRow(r.Company, documentTitle(d.Type), d.Code, d.Status, d.CreatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(d.Title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
	)))

	rows, err := contentRows(d.Content)
	if err != nil {
		return nil, err
	}
	m.AddRows(rows...)

	if len(r.Attachments) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("ADJUNTOS"))
		for _, a := range r.Attachments {
			m.AddRows(row.New(5).Add(col.New(12).Add(
				text.New(fmt.Sprintf("%s (%s)", a.FileName, a.ContentType), props.Text{Size: 8, Left: 2, Color: colorGray}),
			)))
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(approvalRow(d))
	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y título + consecutivo + estado (der).
func headerRow(company *entity.Company, title, code, status string, at time.Time) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Estado: "+status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Fecha: "+at.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// workOrderDataRows: tabla de dos columnas con los datos generales de la OT.
func workOrderDataRows(r ports.WorkOrderReport) []core.Row {
	wo := r.WorkOrder
	asset := "—"
	if r.Asset != nil {
		asset = r.Asset.Code + " · " + r.Asset.Name
	}
	pair := func(label, value string) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(value, props.Text{Size: 8, Top: 5, Color: colorGray}),
		)
	}
	return []core.Row{
		row.New(10).Add(pair("Título", wo.Title), pair("Activo", asset)),
		row.New(10).Add(pair("Tipo", wo.Type), pair("Prioridad", wo.Priority)),
		row.New(10).Add(pair("Técnico asignado", nonEmpty(r.AssigneeName, "Sin asignar")), pair("Fecha límite", formatDate(wo.DueAt))),
		row.New(10).Add(pair("Inicio", formatDate(wo.StartedAt)), pair("Terminación", formatDate(wo.CompletedAt))),
	}
}

func movementHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Repuesto", 6, align.Left),
		h("Cant.", 2, align.Center),
		h("Costo unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func movementRows(movs []*entity.InventoryMovement) []core.Row {
	result := make([]core.Row, 0, len(movs)+1)
	total := decimal.Zero
	for _, mv := range movs {
		total = total.Add(mv.TotalCost)
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(mv.SparePartID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(mv.Quantity.Abs().String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(mv.UnitCost.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(mv.TotalCost.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	result = append(result, row.New(8).Add(
		col.New(10).Add(text.New("TOTAL REPUESTOS:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 2})),
		col.New(2).Add(text.New("$"+formatMoney(total.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1, Color: colorPrimary,
		})),
	))
	return result
}

// workOrderFooterRow: QR con el código de la OT (para escanear en campo) + firmas.
func workOrderFooterRow(wo *entity.WorkOrder) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr("OT:"+wo.Code+"|"+wo.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Firma técnico: ____________________________", props.Text{Size: 9, Top: 8, Left: 4}),
			text.New("Firma supervisor: _________________________", props.Text{Size: 9, Top: 22, Left: 4}),
		),
	)
}

// contentRows imprime el contenido JSON del documento: una sección por clave, en orden
// alfabético; las listas se imprimen como viñetas.
func contentRows(raw json.RawMessage) ([]core.Row, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("pdf: contenido del documento inválido: %w", err)
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows []core.Row
	for _, k := range keys {
		rows = append(rows, sectionTitle(strings.ToUpper(strings.ReplaceAll(k, "_", " "))))
		switch v := body[k].(type) {
		case []any:
			for _, item := range v {
				rows = append(rows, paragraphRows("•  "+formatValue(item))...)
			}
		default:
			rows = append(rows, paragraphRows(formatValue(v))...)
		}
	}
	return rows, nil
}

func approvalRow(d *entity.ComplianceDocument) core.Row {
	status := "Aprobado: pendiente"
	if d.ApprovedAt != nil {
		status = "Aprobado: " + d.ApprovedAt.Format(dateLayout)
	}
	if d.Status == entity.DocumentRejected && d.RejectionReason != "" {
		status = "Rechazado: " + d.RejectionReason
	}
	return row.New(14).Add(col.New(12).Add(
		text.New(status, props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Color: colorPrimary}),
		text.New("Elaboró: ______________________     Aprobó: ______________________", props.Text{Size: 9, Top: 9}),
	))
}

func paragraphRows(s string) []core.Row {
	var rows []core.Row
	for _, chunk := range splitEvery(s, 110) {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 8.5, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func documentTitle(docType string) string {
	switch docType {
	case entity.DocumentJSA:
		return "ANÁLISIS DE SEGURIDAD EN EL TRABAJO"
	case entity.DocumentLOTO:
		return "BLOQUEO Y ETIQUETADO (LOTO)"
	case entity.DocumentWorkPermit:
		return "PERMISO DE TRABAJO"
	case entity.DocumentCAPA:
		return "ACCIÓN CORRECTIVA Y PREVENTIVA"
	case entity.DocumentRCA:
		return "ANÁLISIS DE CAUSA RAÍZ"
	}
	return docType
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "—"
	case string:
		return nonEmpty(x, "—")
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(dateLayout)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
