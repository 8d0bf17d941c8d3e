package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, customer_id, lease_id, prefix, number, period,
	date, due_date, net_total, tax_total, grand_total, paid_total, status, notes, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, customer_id, lease_id, prefix, number, period,
			date, due_date, net_total, tax_total, grand_total, paid_total, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.CustomerID, nullIfEmpty(invoice.LeaseID),
		invoice.Prefix, invoice.Number, nullIfEmpty(invoice.Period),
		invoice.Date, invoice.DueDate,
		invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal, invoice.PaidTotal,
		invoice.Status, invoice.Notes,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle.
func (r *InvoiceRepo) CreateDetail(ctx context.Context, detail *entity.InvoiceDetail) error {
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_details (id, invoice_id, concept, description, quantity, unit_price, tax_rate, tax_amount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		detail.ID, detail.InvoiceID, detail.Concept, detail.Description,
		detail.Quantity, detail.UnitPrice, detail.TaxRate, detail.TaxAmount, detail.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice detail: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := r.scanInvoiceRow(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByIDForUpdate obtiene la factura bloqueando su fila. Dos recibos
// concurrentes sobre la misma factura se serializan aquí: el segundo ve el
// paid_total ya actualizado y valida el saldo contra él.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	inv, err := r.scanInvoiceRow(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice for update: %w", err)
	}
	return inv, nil
}

// GetDetailsByInvoiceID obtiene todas las líneas de una factura.
func (r *InvoiceRepo) GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	query := `
		SELECT id, invoice_id, concept, description, quantity, unit_price, tax_rate, tax_amount, subtotal
		FROM invoice_details WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice details: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceDetail
	for rows.Next() {
		var d entity.InvoiceDetail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.Concept, &d.Description, &d.Quantity, &d.UnitPrice, &d.TaxRate, &d.TaxAmount, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByCompany lista facturas de la empresa, con filtro opcional por estado.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY date DESC, number DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return r.scanInvoices(rows)
}

// ListOpenByCustomer devuelve facturas ISSUED/PARTIAL del cliente, de la más
// antigua a la más reciente (orden de aplicación FIFO de los recibos).
func (r *InvoiceRepo) ListOpenByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE customer_id = $1 AND status IN ('ISSUED', 'PARTIAL')
		ORDER BY date ASC, number ASC`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list open invoices: %w", err)
	}
	defer rows.Close()
	return r.scanInvoices(rows)
}

// ExistsForLeaseAndPeriod hace idempotente la corrida de facturación:
// una sola factura por (contrato, período). Las anuladas no cuentan.
func (r *InvoiceRepo) ExistsForLeaseAndPeriod(ctx context.Context, leaseID, period string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			 WHERE lease_id = $1 AND period = $2 AND status <> 'VOID'
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, leaseID, period).Scan(&exists); err != nil {
		return false, fmt.Errorf("check invoice period: %w", err)
	}
	return exists, nil
}

// UpdatePayment persiste paid_total y status (aplicación o reverso de pagos).
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET paid_total = $2, status = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, invoice.ID, invoice.PaidTotal, invoice.Status, invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice payment: %w", err)
	}
	return nil
}

// UpdateStatus persiste solo el estado (anulación).
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET status = $2, updated_at = $3
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, invoice.ID, invoice.Status, invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// NextNumber entrega el siguiente consecutivo de factura de la empresa.
// Upsert atómico sobre document_counters; seguro bajo concurrencia dentro de una tx.
func (r *InvoiceRepo) NextNumber(ctx context.Context, companyID string) (int64, error) {
	return nextDocumentNumber(ctx, r.q, companyID, "invoice")
}

func (r *InvoiceRepo) scanInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := r.scanInvoiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) scanInvoiceRow(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var leaseID, period *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &leaseID,
		&inv.Prefix, &inv.Number, &period,
		&inv.Date, &inv.DueDate,
		&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.PaidTotal,
		&inv.Status, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if leaseID != nil {
		inv.LeaseID = *leaseID
	}
	if period != nil {
		inv.Period = *period
	}
	return &inv, nil
}

// nextDocumentNumber incrementa y devuelve el consecutivo del tipo de documento
// para la empresa. Se apoya en el UPDATE del upsert para serializar accesos
// concurrentes (row lock de PostgreSQL).
func nextDocumentNumber(ctx context.Context, q Querier, companyID, docType string) (int64, error) {
	const query = `
		INSERT INTO document_counters (company_id, doc_type, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, doc_type)
		DO UPDATE SET last_number = document_counters.last_number + 1
		RETURNING last_number`
	var n int64
	if err := q.QueryRow(ctx, query, companyID, docType).Scan(&n); err != nil {
		return 0, fmt.Errorf("next %s number: %w", docType, err)
	}
	return n, nil
}
