package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de ReceiptRepository (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `id, company_id, customer_id, prefix, number, date, method, amount, status, notes, created_at, updated_at`

// Create persiste la cabecera del recibo.
func (r *ReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	query := `
		INSERT INTO receipts (id, company_id, customer_id, prefix, number, date, method, amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		receipt.ID, receipt.CompanyID, receipt.CustomerID, receipt.Prefix, receipt.Number,
		receipt.Date, receipt.Method, receipt.Amount, receipt.Status, receipt.Notes,
		receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("receipt number already exists: %w", err)
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// CreateAllocation persiste una aplicación del recibo a una factura.
func (r *ReceiptRepo) CreateAllocation(ctx context.Context, alloc *entity.ReceiptAllocation) error {
	if alloc.ID == "" {
		alloc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO receipt_allocations (id, receipt_id, invoice_id, amount)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, alloc.ID, alloc.ReceiptID, alloc.InvoiceID, alloc.Amount)
	if err != nil {
		return fmt.Errorf("insert receipt allocation: %w", err)
	}
	return nil
}

// GetByID obtiene un recibo por ID.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`
	var rc entity.Receipt
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rc.ID, &rc.CompanyID, &rc.CustomerID, &rc.Prefix, &rc.Number,
		&rc.Date, &rc.Method, &rc.Amount, &rc.Status, &rc.Notes,
		&rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return &rc, nil
}

// GetAllocationsByReceiptID obtiene las aplicaciones del recibo.
func (r *ReceiptRepo) GetAllocationsByReceiptID(ctx context.Context, receiptID string) ([]*entity.ReceiptAllocation, error) {
	query := `
		SELECT id, receipt_id, invoice_id, amount
		FROM receipt_allocations WHERE receipt_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list receipt allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceiptAllocation
	for rows.Next() {
		var a entity.ReceiptAllocation
		if err := rows.Scan(&a.ID, &a.ReceiptID, &a.InvoiceID, &a.Amount); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListByCompany lista recibos de la empresa, del más reciente al más antiguo.
func (r *ReceiptRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + `
		FROM receipts WHERE company_id = $1 ORDER BY date DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	return scanReceipts(rows)
}

// ListByCustomer lista recibos del cliente, del más reciente al más antiguo.
func (r *ReceiptRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + `
		FROM receipts WHERE customer_id = $1 ORDER BY date DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list receipts by customer: %w", err)
	}
	defer rows.Close()
	return scanReceipts(rows)
}

// UpdateStatus persiste el estado del recibo (anulación).
func (r *ReceiptRepo) UpdateStatus(ctx context.Context, receipt *entity.Receipt) error {
	query := `
		UPDATE receipts SET status = $2, updated_at = $3
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, receipt.ID, receipt.Status, receipt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update receipt status: %w", err)
	}
	return nil
}

// NextNumber entrega el siguiente consecutivo de recibo de la empresa.
func (r *ReceiptRepo) NextNumber(ctx context.Context, companyID string) (int64, error) {
	return nextDocumentNumber(ctx, r.q, companyID, "receipt")
}

func scanReceipts(rows pgx.Rows) ([]*entity.Receipt, error) {
	var list []*entity.Receipt
	for rows.Next() {
		var rc entity.Receipt
		if err := rows.Scan(
			&rc.ID, &rc.CompanyID, &rc.CustomerID, &rc.Prefix, &rc.Number,
			&rc.Date, &rc.Method, &rc.Amount, &rc.Status, &rc.Notes,
			&rc.CreatedAt, &rc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, &rc)
	}
	return list, rows.Err()
}
