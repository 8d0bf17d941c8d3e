package dto

import "github.com/shopspring/decimal"

// BillingRunRequest body para POST /api/invoices/run.
// Period identifica el mes a facturar, formato "2006-01" (ej. "2026-08").
type BillingRunRequest struct {
	Period string `json:"period"`
}

// BillingRunResponse resultado de la corrida: facturas emitidas y contratos omitidos
// por ya tener factura del período.
type BillingRunResponse struct {
	Period   string            `json:"period"`
	Issued   []InvoiceResponse `json:"issued"`
	Skipped  int               `json:"skipped"`
	LeaseRun int               `json:"leases_evaluated"`
}

// CreateInvoiceRequest body para POST /api/invoices (factura manual sobre un contrato).
type CreateInvoiceRequest struct {
	LeaseID string               `json:"lease_id"`
	Notes   string               `json:"notes,omitempty"`
	Items   []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura manual.
type InvoiceItemRequest struct {
	Concept     string          `json:"concept"` // RENT, ADMIN, PARKING, OTHER
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Taxed       bool            `json:"taxed"`
}

// InvoiceResponse factura con detalle y saldo.
type InvoiceResponse struct {
	ID           string                  `json:"id"`
	CompanyID    string                  `json:"company_id"`
	CustomerID   string                  `json:"customer_id"`
	CustomerName string                  `json:"customer_name,omitempty"`
	LeaseID      string                  `json:"lease_id,omitempty"`
	Prefix       string                  `json:"prefix"`
	Number       string                  `json:"number"`
	Period       string                  `json:"period,omitempty"`
	Date         string                  `json:"date"`
	DueDate      string                  `json:"due_date"`
	NetTotal     decimal.Decimal         `json:"net_total"`
	TaxTotal     decimal.Decimal         `json:"tax_total"`
	GrandTotal   decimal.Decimal         `json:"grand_total"`
	PaidTotal    decimal.Decimal         `json:"paid_total"`
	Balance      decimal.Decimal         `json:"balance"` // grand_total - paid_total
	Status       string                  `json:"status"`
	Notes        string                  `json:"notes,omitempty"`
	Details      []InvoiceDetailResponse `json:"details,omitempty"`
}

// InvoiceDetailResponse línea de detalle en la respuesta.
type InvoiceDetailResponse struct {
	ID          string          `json:"id"`
	Concept     string          `json:"concept"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
