package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del recibo de caja.
const (
	ReceiptStatusPosted = "POSTED"
	ReceiptStatusVoid   = "VOID"
)

// Medios de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCheck    = "check"
	PaymentMethodCard     = "card"
)

// Receipt representa un recibo de caja: un pago de un arrendatario aplicado a una o
// más facturas. La suma de sus aplicaciones siempre es igual al monto del recibo.
type Receipt struct {
	ID         string
	CompanyID  string
	CustomerID string
	Prefix     string
	Number     string
	Date       time.Time
	Method     string // ver constantes PaymentMethod*
	Amount     decimal.Decimal
	Status     string // POSTED, VOID
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidPaymentMethod informa si el medio de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard:
		return true
	}
	return false
}

// ReceiptAllocation es la aplicación de una parte del recibo a una factura concreta.
type ReceiptAllocation struct {
	ID        string
	ReceiptID string
	InvoiceID string
	Amount    decimal.Decimal
}
