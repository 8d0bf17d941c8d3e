package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopDebtorResult fila del ranking de deudores (cartera por cliente).
type TopDebtorResult struct {
	CustomerID   string
	CustomerName string
	OpenInvoices int64
	Balance      decimal.Decimal
	OldestDue    time.Time
}

// OccupancyResult conteo de unidades ocupadas frente al total de la empresa.
type OccupancyResult struct {
	Occupied int64
	Total    int64
}

// AnalyticsRepository consultas de solo lectura para el dashboard de cartera.
type AnalyticsRepository interface {
	// GetBillingMetrics devuelve lo facturado (facturas no anuladas emitidas en el
	// período) y lo recaudado (recibos POSTED del período).
	GetBillingMetrics(ctx context.Context, companyID string, startDate, endDate time.Time) (billed, collected decimal.Decimal, err error)
	// GetOutstandingBalance devuelve la cartera total: suma de saldos de facturas ISSUED/PARTIAL.
	GetOutstandingBalance(ctx context.Context, companyID string) (decimal.Decimal, error)
	// GetOccupancy cuenta unidades con contrato ACTIVE vigente a la fecha frente al total.
	GetOccupancy(ctx context.Context, companyID string, asOf time.Time) (OccupancyResult, error)
	// GetTopDebtors devuelve los `limit` clientes con mayor saldo pendiente.
	GetTopDebtors(ctx context.Context, companyID string, limit int) ([]TopDebtorResult, error)
}
