package repository

import (
	"context"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para recibos de caja y sus aplicaciones.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	CreateAllocation(ctx context.Context, alloc *entity.ReceiptAllocation) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	GetAllocationsByReceiptID(ctx context.Context, receiptID string) ([]*entity.ReceiptAllocation, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Receipt, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Receipt, error)
	UpdateStatus(ctx context.Context, receipt *entity.Receipt) error
	// NextNumber entrega el siguiente consecutivo de recibo de la empresa.
	NextNumber(ctx context.Context, companyID string) (int64, error)
}
