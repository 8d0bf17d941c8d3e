package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs de cartera del mes en curso más ocupación y top-5 deudores.
type DashboardSummaryDTO struct {
	// Métricas del mes en curso (día 1 – hoy)
	MonthBilled    decimal.Decimal `json:"month_billed"`    // total facturado del mes (sin anuladas)
	MonthCollected decimal.Decimal `json:"month_collected"` // total recaudado del mes (recibos POSTED)

	// Cartera total: suma de saldos de facturas abiertas
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`

	// Ocupación
	OccupiedUnits int64           `json:"occupied_units"`
	TotalUnits    int64           `json:"total_units"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"` // ocupadas / total * 100, 0 si no hay unidades

	// Top 5 deudores por saldo (de mayor a menor)
	TopDebtors []TopDebtorDTO `json:"top_debtors"`

	// Metadatos del período
	DateLabel string `json:"date_label"` // ej: "Agosto 2026"
}

// TopDebtorDTO resumen de un deudor para el widget del dashboard.
type TopDebtorDTO struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	OpenInvoices int64           `json:"open_invoices"`
	Balance      decimal.Decimal `json:"balance"`
	OldestDue    string          `json:"oldest_due"` // fecha de vencimiento más antigua, "2006-01-02"
}
