package billing

import (
	"context"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// BillingTxRunner ejecuta funciones dentro de una transacción PostgreSQL con los
// repositorios atados a la tx. Lo implementa postgres.TxRunner.
type BillingTxRunner interface {
	// RunInvoicing transacción de la corrida de facturación (facturas + detalles).
	RunInvoicing(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
	// RunReceipt transacción de recibos: inserta recibo + aplicaciones y
	// actualiza el saldo de las facturas afectadas de forma atómica.
	RunReceipt(ctx context.Context, fn func(
		receiptRepo repository.ReceiptRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// EventPublisher publica eventos de dominio de facturación (Kafka en producción,
// no-op si no hay brokers configurados). Los errores de publicación no revierten
// la transacción: se registran y se continúa.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Tipos de evento publicados por este módulo.
const (
	EventInvoiceIssued = "invoice.issued"
	EventReceiptPosted = "receipt.posted"
	EventReceiptVoided = "receipt.voided"
)

// InvoiceDetailForPDF línea de detalle enriquecida para el render del PDF.
type InvoiceDetailForPDF struct {
	entity.InvoiceDetail
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		company *entity.Company,
		customer *entity.Customer,
		details []InvoiceDetailForPDF,
	) ([]byte, error)
}

// ReceiptPDFGenerator genera el PDF de un recibo de caja con sus aplicaciones.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		receipt *entity.Receipt,
		company *entity.Company,
		customer *entity.Customer,
		allocations []AllocationForPDF,
	) ([]byte, error)
}

// AllocationForPDF aplicación enriquecida con el número de la factura.
type AllocationForPDF struct {
	entity.ReceiptAllocation
	InvoiceNumber string
}
