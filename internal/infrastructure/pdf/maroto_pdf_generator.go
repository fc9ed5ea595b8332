// Package pdf genera los documentos imprimibles del almacén con Maroto v2.
//
// Solicitud de material (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén + Folio │ Estado + Fecha                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Ticket / Solicitante / Ubicación de despacho         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Solic. | Aprob. | Entreg.     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS + FIRMAS: Solicita / Aprueba / Recibe                 │
//	└─────────────────────────────────────────────────────────────┘
//
// Etiqueta de item (A6): código, descripción y QR escaneable.
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[string]string{
	entity.RequestStatusPending:   "PENDIENTE",
	entity.RequestStatusApproved:  "APROBADA",
	entity.RequestStatusRejected:  "RECHAZADA",
	entity.RequestStatusDelivered: "ENTREGADA",
	entity.RequestStatusPartial:   "ENTREGA PARCIAL",
	entity.RequestStatusCancelled: "CANCELADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator construye el generador; title encabeza los documentos (nombre del almacén).
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: nonEmpty(title, "Almacén")}
}

// GenerateRequestPDF genera el PDF de una solicitud de material y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRequestPDF(_ context.Context, doc report.RequestDocument) ([]byte, error) {
	req := doc.Request
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Solicitud de material "+req.Folio, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(req, doc.Location))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(req, doc.Items) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, r := range notesRows(req) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(12))
	m.AddRows(signaturesRow())

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// GenerateItemLabel genera la etiqueta del item con su código QR.
func (g *MarotoPDFGenerator) GenerateItemLabel(_ context.Context, item *entity.Item) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A6).
		WithLeftMargin(6).WithRightMargin(6).
		WithTopMargin(6).WithBottomMargin(6).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etiqueta "+item.Code, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(
		row.New(8).Add(col.New(12).Add(text.New(g.title, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary,
		}))),
		row.New(60).Add(col.New(12).Add(code.NewQr(item.QRCode, props.Rect{Percent: 95, Center: true}))),
		row.New(8).Add(col.New(12).Add(text.New(item.Code, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 1,
		}))),
		row.New(10).Add(col.New(12).Add(text.New(item.Description, props.Text{
			Size: 8, Align: align.Center, Top: 1, Color: colorGray,
		}))),
		row.New(6).Add(col.New(12).Add(text.New(item.QRCode, props.Text{
			Size: 6, Align: align.Center, Color: colorGray,
		}))),
	)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: almacén + folio (izq) y estado + fecha (der).
func (g *MarotoPDFGenerator) headerRow(req *entity.MaterialRequest) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SOLICITUD DE MATERIAL", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(req.Folio, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(nonEmpty(statusLabels[req.Status], req.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 8,
			}),
			text.New("Fecha: "+req.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// detailsRow: ticket, solicitante y ubicación de despacho.
func detailsRow(req *entity.MaterialRequest, loc *entity.Location) core.Row {
	location := "—"
	if loc != nil {
		location = loc.Code + " · " + loc.Name
	}
	approved := "—"
	if req.ApprovedAt != nil {
		approved = fmt.Sprintf("%s (%s)", nonEmpty(req.ApprovedBy, "—"), req.ApprovedAt.Format("02/01/2006 15:04"))
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("DATOS DE LA SOLICITUD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Ticket: "+req.TicketID, props.Text{Size: 8, Top: 6}),
			text.New("Solicitante: "+req.RequestedBy, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Ubicación: "+location, props.Text{Size: 8, Top: 6}),
			text.New("Aprobó: "+approved, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Solic.", 2, align.Right),
		h("Aprob.", 2, align.Right),
		h("Entreg.", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de la solicitud.
func tableItemRows(req *entity.MaterialRequest, items map[string]*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(req.Items))
	for _, l := range req.Items {
		codeText, desc := l.ItemID, ""
		if it := items[l.ItemID]; it != nil {
			codeText, desc = it.Code, it.Description
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(codeText, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatQty(l.QuantityRequested), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQty(l.QuantityApproved), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQty(l.QuantityDelivered), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// notesRows: notas de la solicitud, de la aprobación o motivo de rechazo.
func notesRows(req *entity.MaterialRequest) []core.Row {
	var rows []core.Row
	add := func(label, value string) {
		if value == "" {
			return
		}
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Top: 1, Color: colorPrimary}),
			text.New(value, props.Text{Size: 8, Top: 5}),
		)))
	}
	add("NOTAS", req.Notes)
	add("NOTAS DE APROBACIÓN", req.ApprovalNotes)
	add("MOTIVO DE RECHAZO", req.RejectionReason)
	return rows
}

// signaturesRow: líneas de firma.
func signaturesRow() core.Row {
	sign := func(label string) core.Col {
		return col.New(4).Add(
			text.New("______________________", props.Text{Size: 8, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(sign("Solicita"), sign("Aprueba"), sign("Recibe"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty muestra enteros sin decimales y fracciones con hasta 4 decimales.
// Ej: "10" → "10", "2.5000" → "2.5"
func formatQty(q decimal.Decimal) string {
	return q.Round(4).String()
}
