// Package pdf implementa la representación gráfica de facturas de
// arrendamiento y recibos de caja.
//
// Layout de la factura (página A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° Factura + Fecha + Venc.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  ARRENDATARIO: Nombre + NIT/CC + contacto                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Descripción | V.Unit | IVA | Subtotal     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal neto / IVA / TOTAL / Pagado / SALDO       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
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

	appbilling "github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// Descripciones legibles de los conceptos de cobro.
var conceptLabels = map[string]string{
	entity.ChargeConceptRent:    "Canon de arrendamiento",
	entity.ChargeConceptAdmin:   "Cuota de administración",
	entity.ChargeConceptParking: "Parqueadero",
	entity.ChargeConceptOther:   "Otros conceptos",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator y
// billing.ReceiptPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var (
	_ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)
	_ appbilling.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)
)

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	customer *entity.Customer,
	details []appbilling.InvoiceDetailForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura de Arrendamiento", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(invoiceHeaderRow(invoice, company))
	if invoice.Status == entity.InvoiceStatusVoid {
		m.AddRows(voidBannerRow("FACTURA ANULADA"))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(company))
	m.AddRows(arrendatarioRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de conceptos
	m.AddRows(invoiceTableHeaderRow())
	for _, r := range invoiceDetailRows(details) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(invoiceTotalsRow(invoice))

	// Footer con QR de verificación
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range verificationFooterRows(invoiceQRData(invoice), "factura") {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar factura: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateReceiptPDF genera el PDF del recibo de caja y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(
	_ context.Context,
	receipt *entity.Receipt,
	company *entity.Company,
	customer *entity.Customer,
	allocations []appbilling.AllocationForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de Caja", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(receiptHeaderRow(receipt, company))
	if receipt.Status == entity.ReceiptStatusVoid {
		m.AddRows(voidBannerRow("RECIBO ANULADO"))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(company))
	m.AddRows(arrendatarioRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de aplicaciones a facturas
	m.AddRows(receiptTableHeaderRow())
	for _, r := range receiptAllocationRows(allocations) {
		m.AddRows(r)
	}

	// Total del recibo
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(receiptTotalRow(receipt))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range verificationFooterRows(receiptQRData(receipt), "recibo") {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones comunes ─────────────────────────────────────────────────────────

// invoiceHeaderRow: Razón social + NIT (izq) y N° Factura + fechas (der).
func invoiceHeaderRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	numFac := invoice.Prefix + invoice.Number
	fecha := invoice.Date.Format("02/01/2006")
	vence := invoice.DueDate.Format("02/01/2006")

	return row.New(20).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE ARRENDAMIENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numFac, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Fecha: %s   Vence: %s", fecha, vence), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// receiptHeaderRow: Razón social + NIT (izq) y N° Recibo + fecha + medio (der).
func receiptHeaderRow(receipt *entity.Receipt, company *entity.Company) core.Row {
	numRec := receipt.Prefix + receipt.Number
	fecha := receipt.Date.Format("02/01/2006")

	return row.New(20).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE CAJA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numRec, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Fecha: %s   Medio: %s", fecha, paymentMethodLabel(receipt.Method)), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// voidBannerRow: banda roja para documentos anulados.
func voidBannerRow(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Center,
			Color: colorDanger, Top: 1,
		}),
	))
}

// emisorRow: datos del emisor (inmobiliaria).
func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// arrendatarioRow: datos del arrendatario.
func arrendatarioRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ARRENDATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				customer.TaxID,
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// ── Factura: tabla y totales ──────────────────────────────────────────────────

func invoiceTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Concepto", 3, align.Left),
		h("Descripción", 4, align.Left),
		h("V. Unitario", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Subtotal", 2, align.Right),
	)
}

func invoiceDetailRows(details []appbilling.InvoiceDetailForPDF) []core.Row {
	result := make([]core.Row, 0, len(details))
	for _, d := range details {
		concept := conceptLabels[d.Concept]
		if concept == "" {
			concept = d.Concept
		}
		taxPct := d.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0)
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				concept,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				d.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(d.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				taxPct+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(d.Subtotal.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func invoiceTotalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(34).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal neto:"),
			label("IVA:"),
			label("Total:"),
			label("Pagado:"),
			grandLabel("SALDO:"),
		),
		col.New(3).Add(
			value("$"+formatMoney(invoice.NetTotal.StringFixed(0))),
			value("$"+formatMoney(invoice.TaxTotal.StringFixed(0))),
			value("$"+formatMoney(invoice.GrandTotal.StringFixed(0))),
			value("$"+formatMoney(invoice.PaidTotal.StringFixed(0))),
			grandValue("$"+formatMoney(invoice.Balance().StringFixed(0))),
		),
		col.New(3),
	)
}

// ── Recibo: tabla y total ─────────────────────────────────────────────────────

func receiptTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Factura aplicada", 8, align.Left),
		h("Valor aplicado", 4, align.Right),
	)
}

func receiptAllocationRows(allocations []appbilling.AllocationForPDF) []core.Row {
	result := make([]core.Row, 0, len(allocations))
	for _, a := range allocations {
		result = append(result, row.New(7).Add(
			col.New(8).Add(text.New(
				a.InvoiceNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				"$"+formatMoney(a.Amount.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func receiptTotalRow(receipt *entity.Receipt) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL RECIBIDO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New("$"+formatMoney(receipt.Amount.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 1,
		})),
	)
}

// ── Footer de verificación ────────────────────────────────────────────────────

// verificationFooterRows: QR con los datos del documento + leyenda.
func verificationFooterRows(qrData, docName string) []core.Row {
	return []core.Row{
		row.New(40).Add(
			col.New(4).Add(code.NewQr(qrData, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(8).Add(
				text.New(fmt.Sprintf("Escanea el código QR para verificar este %s.", docName), props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Documento generado por Arriendo Pro", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 18,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Conserve este documento como soporte de su relación contractual de arrendamiento.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

func invoiceQRData(invoice *entity.Invoice) string {
	return fmt.Sprintf("FAC|%s%s|%s|%s|%s",
		invoice.Prefix, invoice.Number,
		invoice.Date.Format("2006-01-02"),
		invoice.GrandTotal.StringFixed(2),
		invoice.ID,
	)
}

func receiptQRData(receipt *entity.Receipt) string {
	return fmt.Sprintf("REC|%s%s|%s|%s|%s",
		receipt.Prefix, receipt.Number,
		receipt.Date.Format("2006-01-02"),
		receipt.Amount.StringFixed(2),
		receipt.ID,
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func paymentMethodLabel(m string) string {
	switch m {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodTransfer:
		return "Transferencia"
	case entity.PaymentMethodCheck:
		return "Cheque"
	case entity.PaymentMethodCard:
		return "Tarjeta"
	}
	return m
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
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
