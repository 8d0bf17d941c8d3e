package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del contrato de arrendamiento.
const (
	LeaseStatusDraft      = "DRAFT"      // creado, aún sin vigencia
	LeaseStatusActive     = "ACTIVE"     // vigente, entra en la corrida de facturación
	LeaseStatusTerminated = "TERMINATED" // terminado (vencimiento o terminación anticipada)
)

// Conceptos de cobro de un contrato.
const (
	ChargeConceptRent    = "RENT"    // canon de arrendamiento
	ChargeConceptAdmin   = "ADMIN"   // cuota de administración
	ChargeConceptParking = "PARKING" // parqueadero adicional
	ChargeConceptOther   = "OTHER"
)

// Lease representa un contrato de arrendamiento entre la empresa y un arrendatario sobre una unidad.
// Solo puede haber un contrato ACTIVE por unidad en un rango de fechas dado.
type Lease struct {
	ID             string
	CompanyID      string
	UnitID         string
	CustomerID     string
	ContractNumber string
	StartDate      time.Time
	EndDate        time.Time // estrictamente posterior a StartDate
	MonthlyRent    decimal.Decimal
	Deposit        decimal.Decimal
	Status         string     // DRAFT, ACTIVE, TERMINATED
	TerminatedAt   *time.Time // fecha efectiva de terminación (nil si no aplica)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CoversDate informa si la vigencia del contrato incluye la fecha (rango inclusivo).
func (l *Lease) CoversDate(t time.Time) bool {
	return !t.Before(l.StartDate) && !t.After(l.EndDate)
}

// LeaseCharge es un concepto de cobro recurrente asociado al contrato.
// En cada corrida de facturación los cargos activos se convierten en líneas de la factura.
type LeaseCharge struct {
	ID          string
	LeaseID     string
	Concept     string // ver constantes ChargeConcept*
	Description string
	Amount      decimal.Decimal
	Taxed       bool // si aplica IVA a la tarifa configurada de la empresa
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
