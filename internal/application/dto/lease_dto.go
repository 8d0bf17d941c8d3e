package dto

import "github.com/shopspring/decimal"

// CreateLeaseRequest body para POST /api/leases.
// Fechas en formato "2006-01-02". EndDate debe ser estrictamente posterior a StartDate.
type CreateLeaseRequest struct {
	UnitID         string               `json:"unit_id"`
	CustomerID     string               `json:"customer_id"`
	ContractNumber string               `json:"contract_number,omitempty"` // opcional; se genera si va vacío
	StartDate      string               `json:"start_date"`
	EndDate        string               `json:"end_date"`
	MonthlyRent    decimal.Decimal      `json:"monthly_rent"`
	Deposit        decimal.Decimal      `json:"deposit"`
	Charges        []LeaseChargeRequest `json:"charges,omitempty"` // cargos adicionales al canon
}

// LeaseChargeRequest concepto de cobro recurrente del contrato.
type LeaseChargeRequest struct {
	Concept     string          `json:"concept"` // RENT, ADMIN, PARKING, OTHER
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Taxed       bool            `json:"taxed"`
}

// TerminateLeaseRequest body para POST /api/leases/:id/terminate.
type TerminateLeaseRequest struct {
	TerminationDate string `json:"termination_date,omitempty"` // "2006-01-02"; hoy si va vacío
}

// LeaseResponse contrato en respuestas.
type LeaseResponse struct {
	ID             string                `json:"id"`
	CompanyID      string                `json:"company_id"`
	UnitID         string                `json:"unit_id"`
	UnitCode       string                `json:"unit_code,omitempty"`
	CustomerID     string                `json:"customer_id"`
	CustomerName   string                `json:"customer_name,omitempty"`
	ContractNumber string                `json:"contract_number"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	MonthlyRent    decimal.Decimal       `json:"monthly_rent"`
	Deposit        decimal.Decimal       `json:"deposit"`
	Status         string                `json:"status"`
	TerminatedAt   string                `json:"terminated_at,omitempty"`
	Charges        []LeaseChargeResponse `json:"charges,omitempty"`
}

// LeaseChargeResponse concepto de cobro en respuestas.
type LeaseChargeResponse struct {
	ID          string          `json:"id"`
	Concept     string          `json:"concept"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Taxed       bool            `json:"taxed"`
	Active      bool            `json:"active"`
}
