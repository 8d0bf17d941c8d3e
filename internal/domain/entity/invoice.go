package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura.
const (
	InvoiceStatusIssued  = "ISSUED"  // emitida, sin pagos aplicados
	InvoiceStatusPartial = "PARTIAL" // con pagos parciales
	InvoiceStatusPaid    = "PAID"    // saldo en cero
	InvoiceStatusVoid    = "VOID"    // anulada (solo posible sin pagos aplicados)
)

// Invoice representa la cabecera de una factura de arrendamiento.
// Period identifica el mes facturado ("2026-08") cuando la factura viene de la
// corrida de facturación; va vacío en facturas manuales.
type Invoice struct {
	ID         string
	CompanyID  string
	CustomerID string
	LeaseID    string
	Prefix     string
	Number     string
	Period     string
	Date       time.Time
	DueDate    time.Time
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	PaidTotal  decimal.Decimal
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Balance devuelve el saldo pendiente: total − pagado.
func (i *Invoice) Balance() decimal.Decimal {
	return i.GrandTotal.Sub(i.PaidTotal)
}

// IsOpen informa si la factura admite aplicación de pagos.
func (i *Invoice) IsOpen() bool {
	return i.Status == InvoiceStatusIssued || i.Status == InvoiceStatusPartial
}

// ApplyPayment suma el abono y recalcula el estado según el saldo resultante.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) {
	i.PaidTotal = i.PaidTotal.Add(amount)
	i.refreshStatus()
}

// ReversePayment resta un abono previamente aplicado (anulación de recibo).
func (i *Invoice) ReversePayment(amount decimal.Decimal) {
	i.PaidTotal = i.PaidTotal.Sub(amount)
	if i.PaidTotal.LessThan(decimal.Zero) {
		i.PaidTotal = decimal.Zero
	}
	i.refreshStatus()
}

func (i *Invoice) refreshStatus() {
	switch {
	case i.PaidTotal.GreaterThanOrEqual(i.GrandTotal):
		i.Status = InvoiceStatusPaid
	case i.PaidTotal.GreaterThan(decimal.Zero):
		i.Status = InvoiceStatusPartial
	default:
		i.Status = InvoiceStatusIssued
	}
}
