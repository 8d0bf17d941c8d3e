package dto

// CreateFiscalYearRequest body para POST /api/fiscal-years.
// Fechas en formato "2006-01-02". El rango no puede solaparse con otro año fiscal.
type CreateFiscalYearRequest struct {
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// FiscalYearResponse año fiscal en respuestas.
type FiscalYearResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	ClosedAt  string `json:"closed_at,omitempty"`
}
