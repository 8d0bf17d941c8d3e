package entity

import "github.com/shopspring/decimal"

// InvoiceDetail representa una línea de detalle de una factura (un concepto de cobro).
type InvoiceDetail struct {
	ID          string
	InvoiceID   string
	Concept     string // ver constantes ChargeConcept*
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // fracción, ej. 0.19
	TaxAmount   decimal.Decimal
	Subtotal    decimal.Decimal // sin impuestos
}
