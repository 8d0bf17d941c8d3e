package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/arriendo-pro/internal/application/analytics"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

type fakeAnalyticsRepo struct {
	billed    decimal.Decimal
	collected decimal.Decimal
	balance   decimal.Decimal
	occupancy repository.OccupancyResult
	debtors   []repository.TopDebtorResult
	failWith  error
}

func (r *fakeAnalyticsRepo) GetBillingMetrics(_ context.Context, _ string, _, _ time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if r.failWith != nil {
		return decimal.Zero, decimal.Zero, r.failWith
	}
	return r.billed, r.collected, nil
}

func (r *fakeAnalyticsRepo) GetOutstandingBalance(_ context.Context, _ string) (decimal.Decimal, error) {
	return r.balance, nil
}

func (r *fakeAnalyticsRepo) GetOccupancy(_ context.Context, _ string, _ time.Time) (repository.OccupancyResult, error) {
	return r.occupancy, nil
}

func (r *fakeAnalyticsRepo) GetTopDebtors(_ context.Context, _ string, limit int) ([]repository.TopDebtorResult, error) {
	if limit < len(r.debtors) {
		return r.debtors[:limit], nil
	}
	return r.debtors, nil
}

var _ repository.AnalyticsRepository = (*fakeAnalyticsRepo)(nil)

func TestDashboardSummary_ConsolidaLasCuatroConsultas(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		billed:    decimal.RequireFromString("12500000"),
		collected: decimal.RequireFromString("9800000"),
		balance:   decimal.RequireFromString("4300000"),
		occupancy: repository.OccupancyResult{Occupied: 3, Total: 4},
		debtors: []repository.TopDebtorResult{
			{
				CustomerID:   "cust-1",
				CustomerName: "Comercializadora La Ceiba",
				OpenInvoices: 2,
				Balance:      decimal.RequireFromString("2800000"),
				OldestDue:    time.Date(2026, 7, 10, 0, 0, 0, 0, time.Local),
			},
		},
	}
	uc := analytics.NewDashboardUseCase(repo)

	out, err := uc.GetSummary(context.Background(), "company-1")
	require.NoError(t, err)

	assert.True(t, out.MonthBilled.Equal(decimal.RequireFromString("12500000")))
	assert.True(t, out.MonthCollected.Equal(decimal.RequireFromString("9800000")))
	assert.True(t, out.OutstandingBalance.Equal(decimal.RequireFromString("4300000")))
	assert.Equal(t, int64(3), out.OccupiedUnits)
	assert.Equal(t, int64(4), out.TotalUnits)
	assert.True(t, out.OccupancyRate.Equal(decimal.RequireFromString("75")),
		"3 de 4 unidades ocupadas: %s", out.OccupancyRate)
	require.Len(t, out.TopDebtors, 1)
	assert.Equal(t, "2026-07-10", out.TopDebtors[0].OldestDue)
	assert.NotEmpty(t, out.DateLabel)
}

func TestDashboardSummary_SinUnidades_OcupacionCero(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeAnalyticsRepo{})

	out, err := uc.GetSummary(context.Background(), "company-1")
	require.NoError(t, err)
	assert.True(t, out.OccupancyRate.IsZero(), "sin unidades no hay división por cero")
	assert.Empty(t, out.TopDebtors)
}

func TestDashboardSummary_ErrorDeConsulta_Propaga(t *testing.T) {
	repo := &fakeAnalyticsRepo{failWith: errors.New("db caída")}
	uc := analytics.NewDashboardUseCase(repo)

	_, err := uc.GetSummary(context.Background(), "company-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "métricas de facturación")
}
