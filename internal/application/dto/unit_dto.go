package dto

import "github.com/shopspring/decimal"

// CreateUnitRequest body para POST /api/units.
type CreateUnitRequest struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"` // apartment, office, local, parking, storage
	Address  string          `json:"address"`
	AreaM2   decimal.Decimal `json:"area_m2"`
	BaseRent decimal.Decimal `json:"base_rent"`
	Notes    string          `json:"notes,omitempty"`
}

// UpdateUnitRequest body para PUT /api/units/:id.
type UpdateUnitRequest struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Address  string          `json:"address"`
	AreaM2   decimal.Decimal `json:"area_m2"`
	BaseRent decimal.Decimal `json:"base_rent"`
	Notes    string          `json:"notes,omitempty"`
}

// UnitResponse unidad en respuestas. Status es derivado: occupied si hay un
// contrato ACTIVE vigente hoy sobre la unidad, available si no.
type UnitResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Code      string          `json:"code"`
	Type      string          `json:"type"`
	Address   string          `json:"address"`
	AreaM2    decimal.Decimal `json:"area_m2"`
	BaseRent  decimal.Decimal `json:"base_rent"`
	Status    string          `json:"status"`
	Notes     string          `json:"notes,omitempty"`
}
