package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de cartera.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetBillingMetrics devuelve lo facturado (facturas no anuladas emitidas en el período)
// y lo recaudado (recibos POSTED del período).
// Usa COALESCE para devolver cero si no hay filas (período sin movimiento).
func (r *AnalyticsRepo) GetBillingMetrics(
	ctx context.Context,
	companyID string,
	startDate, endDate time.Time,
) (billed, collected decimal.Decimal, err error) {
	const query = `
	SELECT
	    COALESCE((
	        SELECT SUM(i.grand_total)
	        FROM invoices i
	        WHERE i.company_id = $1
	          AND i.date BETWEEN $2 AND $3
	          AND i.status <> 'VOID'
	    ), 0) AS billed,
	    COALESCE((
	        SELECT SUM(rc.amount)
	        FROM receipts rc
	        WHERE rc.company_id = $1
	          AND rc.date BETWEEN $2 AND $3
	          AND rc.status = 'POSTED'
	    ), 0) AS collected`

	err = r.pool.QueryRow(ctx, query, companyID, startDate, endDate).
		Scan(&billed, &collected)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("analytics.GetBillingMetrics: %w", err)
	}
	return billed, collected, nil
}

// GetOutstandingBalance devuelve la cartera total: suma de saldos de facturas ISSUED/PARTIAL.
func (r *AnalyticsRepo) GetOutstandingBalance(ctx context.Context, companyID string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(grand_total - paid_total), 0)
	FROM invoices
	WHERE company_id = $1
	  AND status IN ('ISSUED', 'PARTIAL')`

	var balance decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, companyID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetOutstandingBalance: %w", err)
	}
	return balance, nil
}

// GetOccupancy cuenta unidades con contrato ACTIVE vigente a la fecha frente al total.
func (r *AnalyticsRepo) GetOccupancy(ctx context.Context, companyID string, asOf time.Time) (repository.OccupancyResult, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE EXISTS (
	        SELECT 1 FROM leases l
	        WHERE l.unit_id = u.id
	          AND l.status  = 'ACTIVE'
	          AND l.start_date <= $2
	          AND l.end_date   >= $2
	    )) AS occupied,
	    COUNT(*) AS total
	FROM units u
	WHERE u.company_id = $1`

	var result repository.OccupancyResult
	if err := r.pool.QueryRow(ctx, query, companyID, asOf).Scan(&result.Occupied, &result.Total); err != nil {
		return repository.OccupancyResult{}, fmt.Errorf("analytics.GetOccupancy: %w", err)
	}
	return result, nil
}

// GetTopDebtors devuelve los `limit` clientes con mayor saldo pendiente,
// de mayor a menor, con la fecha de vencimiento más antigua de cada uno.
func (r *AnalyticsRepo) GetTopDebtors(ctx context.Context, companyID string, limit int) ([]repository.TopDebtorResult, error) {
	const query = `
	SELECT
	    c.id                                  AS customer_id,
	    c.name                                AS customer_name,
	    COUNT(i.id)                           AS open_invoices,
	    SUM(i.grand_total - i.paid_total)     AS balance,
	    MIN(i.due_date)                       AS oldest_due
	FROM invoices i
	JOIN customers c ON c.id = i.customer_id
	WHERE i.company_id = $1
	  AND i.status IN ('ISSUED', 'PARTIAL')
	GROUP BY c.id, c.name
	ORDER BY balance DESC
	LIMIT $2`

	rows, err := r.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopDebtors: %w", err)
	}
	defer rows.Close()

	var results []repository.TopDebtorResult
	for rows.Next() {
		var row repository.TopDebtorResult
		if err := rows.Scan(
			&row.CustomerID,
			&row.CustomerName,
			&row.OpenInvoices,
			&row.Balance,
			&row.OldestDue,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopDebtors scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopDebtors rows: %w", err)
	}
	if results == nil {
		results = []repository.TopDebtorResult{}
	}
	return results, nil
}
