package entity

import "time"

// Estados del año fiscal. CLOSED es terminal.
const (
	FiscalYearOpen   = "OPEN"
	FiscalYearClosed = "CLOSED"
)

// FiscalYear representa un período contable de la empresa.
// Los rangos de dos años fiscales de la misma empresa nunca se solapan,
// y solo se emiten facturas con fecha dentro de un año fiscal OPEN.
type FiscalYear struct {
	ID        string
	CompanyID string
	Label     string // ej. "2026"
	StartDate time.Time
	EndDate   time.Time
	Status    string // OPEN, CLOSED
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers informa si la fecha cae dentro del período (rango inclusivo).
func (fy *FiscalYear) Covers(t time.Time) bool {
	return !t.Before(fy.StartDate) && !t.After(fy.EndDate)
}

// Overlaps informa si dos rangos de fechas inclusivos se solapan.
func (fy *FiscalYear) Overlaps(start, end time.Time) bool {
	return !start.After(fy.EndDate) && !fy.StartDate.After(end)
}
