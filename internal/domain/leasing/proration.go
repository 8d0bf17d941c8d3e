package leasing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProrateFirstPeriod calcula el canon prorrateado del primer período (servicio de dominio).
// CanonProrrateado = CanonMensual * DíasOcupados / DíasDelMes
// start es el inicio del contrato; el prorrateo cubre desde start hasta fin de mes, inclusive.
// Si el contrato inicia el día 1, devuelve el canon completo.
func ProrateFirstPeriod(monthly decimal.Decimal, start time.Time) decimal.Decimal {
	daysInMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).
		AddDate(0, 1, -1).Day()
	occupied := daysInMonth - start.Day() + 1
	if occupied >= daysInMonth {
		return monthly
	}
	if occupied <= 0 {
		return decimal.Zero
	}
	return monthly.
		Mul(decimal.NewFromInt(int64(occupied))).
		Div(decimal.NewFromInt(int64(daysInMonth))).
		Round(2)
}

// RangesOverlap informa si dos rangos de fechas inclusivos [aStart, aEnd] y [bStart, bEnd] se solapan.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// PeriodBounds devuelve el primer y último instante del mes del período (primer día 00:00, último día 23:59:59.999...).
func PeriodBounds(year int, month time.Month, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
