package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// Ensure TxRunner implements billing.BillingTxRunner.
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoicing inicia una transacción para la corrida de facturación: la
// numeración y la inserción de facturas y detalles son atómicas.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)

	if err := fn(invoiceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReceipt inicia una transacción para recibos: inserta el recibo y sus
// aplicaciones, y actualiza los saldos de las facturas de forma atómica.
func (r *TxRunner) RunReceipt(ctx context.Context, fn func(
	receiptRepo repository.ReceiptRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	receiptRepo := NewReceiptRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)

	if err := fn(receiptRepo, invoiceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
