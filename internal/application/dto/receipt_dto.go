package dto

import "github.com/shopspring/decimal"

// CreateReceiptRequest body para POST /api/receipts.
// Si Allocations va vacío, el pago se aplica a las facturas abiertas del cliente
// de la más antigua a la más reciente (FIFO). Si se envían aplicaciones explícitas,
// su suma debe ser igual a Amount.
type CreateReceiptRequest struct {
	CustomerID  string                     `json:"customer_id"`
	Method      string                     `json:"method"` // cash, transfer, check, card
	Amount      decimal.Decimal            `json:"amount"`
	Date        string                     `json:"date,omitempty"` // "2006-01-02"; hoy si va vacío
	Notes       string                     `json:"notes,omitempty"`
	Allocations []ReceiptAllocationRequest `json:"allocations,omitempty"`
}

// ReceiptAllocationRequest aplicación explícita a una factura.
type ReceiptAllocationRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// ReceiptResponse recibo de caja con sus aplicaciones.
type ReceiptResponse struct {
	ID           string                      `json:"id"`
	CompanyID    string                      `json:"company_id"`
	CustomerID   string                      `json:"customer_id"`
	CustomerName string                      `json:"customer_name,omitempty"`
	Prefix       string                      `json:"prefix"`
	Number       string                      `json:"number"`
	Date         string                      `json:"date"`
	Method       string                      `json:"method"`
	Amount       decimal.Decimal             `json:"amount"`
	Status       string                      `json:"status"`
	Notes        string                      `json:"notes,omitempty"`
	Allocations  []ReceiptAllocationResponse `json:"allocations,omitempty"`
}

// ReceiptAllocationResponse aplicación del recibo a una factura.
type ReceiptAllocationResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}
