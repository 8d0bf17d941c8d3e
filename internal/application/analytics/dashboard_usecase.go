// Package analytics contiene los casos de uso para reportes de negocio y el
// Dashboard de Cartera.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

const dashboardTopDebtors = 5 // número de deudores en el widget del dashboard

// DashboardUseCase genera el resumen de cartera del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// No accede directamente a las tablas de facturas; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
//
// Cuatro llamadas en paralelo:
//  1. GetBillingMetrics(mes)       → MonthBilled + MonthCollected
//  2. GetOutstandingBalance()      → OutstandingBalance
//  3. GetOccupancy(hoy)            → OccupiedUnits / TotalUnits
//  4. GetTopDebtors(top 5)         → TopDebtors
func (uc *DashboardUseCase) GetSummary(
	ctx context.Context,
	companyID string,
) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	// ── Rango de fechas del mes en curso ──────────────────────────────────────
	// Día 1 a las 00:00 – hoy a las 23:59:59.999
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		Add(24*time.Hour - time.Nanosecond)

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type billingResult struct {
		billed    decimal.Decimal
		collected decimal.Decimal
		err       error
	}
	type balanceResult struct {
		balance decimal.Decimal
		err     error
	}
	type occupancyResult struct {
		occ repository.OccupancyResult
		err error
	}
	type debtorsResult struct {
		debtors []repository.TopDebtorResult
		err     error
	}

	billingCh := make(chan billingResult, 1)
	balanceCh := make(chan balanceResult, 1)
	occupancyCh := make(chan occupancyResult, 1)
	debtorsCh := make(chan debtorsResult, 1)

	go func() {
		billed, collected, err := uc.analyticsRepo.GetBillingMetrics(ctx, companyID, monthStart, monthEnd)
		billingCh <- billingResult{billed, collected, err}
	}()
	go func() {
		balance, err := uc.analyticsRepo.GetOutstandingBalance(ctx, companyID)
		balanceCh <- balanceResult{balance, err}
	}()
	go func() {
		occ, err := uc.analyticsRepo.GetOccupancy(ctx, companyID, now)
		occupancyCh <- occupancyResult{occ, err}
	}()
	go func() {
		debtors, err := uc.analyticsRepo.GetTopDebtors(ctx, companyID, dashboardTopDebtors)
		debtorsCh <- debtorsResult{debtors, err}
	}()

	billing := <-billingCh
	balance := <-balanceCh
	occupancy := <-occupancyCh
	debtors := <-debtorsCh

	if billing.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de facturación: %w", billing.err)
	}
	if balance.err != nil {
		return nil, fmt.Errorf("dashboard: cartera total: %w", balance.err)
	}
	if occupancy.err != nil {
		return nil, fmt.Errorf("dashboard: ocupación: %w", occupancy.err)
	}
	if debtors.err != nil {
		return nil, fmt.Errorf("dashboard: top deudores: %w", debtors.err)
	}

	// ── Tasa de ocupación ──────────────────────────────────────────────────────
	occupancyRate := decimal.Zero
	if occupancy.occ.Total > 0 {
		occupancyRate = decimal.NewFromInt(occupancy.occ.Occupied).
			Div(decimal.NewFromInt(occupancy.occ.Total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	topDebtors := make([]dto.TopDebtorDTO, 0, len(debtors.debtors))
	for _, d := range debtors.debtors {
		topDebtors = append(topDebtors, dto.TopDebtorDTO{
			CustomerID:   d.CustomerID,
			CustomerName: d.CustomerName,
			OpenInvoices: d.OpenInvoices,
			Balance:      d.Balance.Round(2),
			OldestDue:    d.OldestDue.Format("2006-01-02"),
		})
	}

	return &dto.DashboardSummaryDTO{
		MonthBilled:        billing.billed.Round(2),
		MonthCollected:     billing.collected.Round(2),
		OutstandingBalance: balance.balance.Round(2),
		OccupiedUnits:      occupancy.occ.Occupied,
		TotalUnits:         occupancy.occ.Total,
		OccupancyRate:      occupancyRate,
		TopDebtors:         topDebtors,
		DateLabel:          monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
