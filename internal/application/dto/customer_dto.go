package dto

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CustomerResponse arrendatario en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// CustomerStatementResponse estado de cuenta del arrendatario:
// facturas con saldo y recibos aplicados.
type CustomerStatementResponse struct {
	Customer CustomerResponse  `json:"customer"`
	Invoices []InvoiceResponse `json:"invoices"`
	Receipts []ReceiptResponse `json:"receipts"`
}
