package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de inmueble soportados (CHECK en la tabla units).
const (
	UnitTypeApartment = "apartment"
	UnitTypeOffice    = "office"
	UnitTypeLocal     = "local"
	UnitTypeParking   = "parking"
	UnitTypeStorage   = "storage"
)

// Estados de ocupación derivados de los contratos (no se persisten).
const (
	UnitStatusAvailable = "available"
	UnitStatusOccupied  = "occupied"
)

// Unit representa una unidad arrendable (apartamento, oficina, local, parqueadero, bodega).
// El canon base es el punto de partida para el canon del contrato; el contrato puede pactarlo distinto.
type Unit struct {
	ID        string
	CompanyID string
	Code      string // código interno único por empresa, ej. "T2-APT-501"
	Type      string // ver constantes UnitType*
	Address   string
	AreaM2    decimal.Decimal
	BaseRent  decimal.Decimal // canon mensual de referencia
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
