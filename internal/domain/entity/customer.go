package entity

import "time"

// Customer representa un arrendatario de la inmobiliaria.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // NIT o Cédula (Colombia)
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
