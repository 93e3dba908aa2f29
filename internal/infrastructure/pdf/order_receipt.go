// Package pdf genera el comprobante de pedido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + CNPJ      │  N° Pedido + Fecha emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PEDIDO: Descripción / Entrega / Estado                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VALORES: Total / Entrada / Pendiente                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de referencia + leyenda                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
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

	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/pkg/money"
)

var _ orders.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[entity.OrderStatus]string{
	entity.OrderInProgress:              "Em andamento",
	entity.OrderReady:                   "Pedido pronto",
	entity.OrderDeliveredPendingPayment: "Entregue - pagamento pendente",
	entity.OrderCompleted:               "Concluído",
	entity.OrderCancelled:               "Cancelado",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa orders.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	now func() time.Time
}

// NewReceiptGenerator construye el generador. now nil usa time.Now.
func NewReceiptGenerator(now func() time.Time) *ReceiptGenerator {
	if now == nil {
		now = time.Now
	}
	return &ReceiptGenerator{now: now}
}

// RenderOrderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderOrderReceipt(order *entity.Order, company *entity.Company) ([]byte, error) {
	if order == nil || company == nil {
		return nil, fmt.Errorf("pdf: pedido y empresa son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprovante do pedido "+order.Code, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, company, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(orderRows(order)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(valuesHeaderRow())
	m.AddRows(valuesRows(order)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + documento (izq) y código del pedido + fecha (der).
func headerRow(order *entity.Order, company *entity.Company, issued time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CPF/CNPJ: "+nonEmpty(company.Document, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROVANTE DE PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(order.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido em "+issued.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func orderRows(order *entity.Order) []core.Row {
	return []core.Row{
		row.New(14).Add(col.New(12).Add(
			text.New("PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(order.Description, "-"), props.Text{Size: 10, Top: 6}),
		)),
		row.New(8).Add(
			col.New(6).Add(text.New("Entrega: "+order.DeliveryDate.Format("02/01/2006"), props.Text{
				Size: 8, Top: 1, Color: colorGray,
			})),
			col.New(6).Add(text.New("Situação: "+StatusLabel(order.Status), props.Text{
				Size: 8, Top: 1, Align: align.Right, Color: colorGray,
			})),
		),
	}
}

func valuesHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descrição", 8, align.Left),
		h("Valor", 4, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func valuesRows(order *entity.Order) []core.Row {
	entry := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(7).Add(
			col.New(8).Add(text.New(label, props.Text{Size: 9, Top: 1, Left: 1, Style: style})),
			col.New(4).Add(text.New(value, props.Text{Size: 9, Top: 1, Right: 1, Align: align.Right, Style: style})),
		)
	}
	rows := []core.Row{entry("Valor total", money.Display(order.TotalValue), false)}
	if order.HasAdvance {
		rows = append(rows, entry("Entrada (sinal)", money.Display(order.AdvanceValue), false))
	}
	rows = append(rows, entry("Saldo pendente", money.Display(order.PendingValue), true))
	return rows
}

// footerRow: QR con el id del pedido para búsqueda rápida.
func footerRow(order *entity.Order) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(order.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Referência do pedido", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New(order.ID, props.Text{Size: 7, Top: 10, Left: 3, Color: colorGray}),
			text.New("Este comprovante não tem valor fiscal.", props.Text{
				Size: 7, Top: 22, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// StatusLabel nombre visible del estado (pt-BR).
func StatusLabel(s entity.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
