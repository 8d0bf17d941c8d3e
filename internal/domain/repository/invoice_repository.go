package repository

import (
	"context"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus detalles.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateDetail(ctx context.Context, detail *entity.InvoiceDetail) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate obtiene la factura bloqueando su fila (SELECT ... FOR UPDATE)
	// para serializar la aplicación y el reverso de pagos sobre paid_total.
	// Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error)
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Invoice, error)
	// ListOpenByCustomer devuelve facturas ISSUED/PARTIAL del cliente, de la más
	// antigua a la más reciente (orden de aplicación FIFO de los recibos).
	ListOpenByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error)
	// ExistsForLeaseAndPeriod hace idempotente la corrida de facturación:
	// una sola factura por (contrato, período).
	ExistsForLeaseAndPeriod(ctx context.Context, leaseID, period string) (bool, error)
	// UpdatePayment persiste paid_total y status (aplicación o reverso de pagos).
	UpdatePayment(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, invoice *entity.Invoice) error
	// NextNumber entrega el siguiente consecutivo de factura de la empresa.
	NextNumber(ctx context.Context, companyID string) (int64, error)
}
