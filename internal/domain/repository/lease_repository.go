package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// LeaseRepository define el puerto de persistencia para contratos y sus conceptos de cobro.
type LeaseRepository interface {
	Create(ctx context.Context, lease *entity.Lease) error
	GetByID(ctx context.Context, id string) (*entity.Lease, error)
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Lease, error)
	// ListActiveByCompany devuelve todos los contratos ACTIVE (entrada de la corrida de facturación).
	ListActiveByCompany(ctx context.Context, companyID string) ([]*entity.Lease, error)
	Update(ctx context.Context, lease *entity.Lease) error
	// HasOverlappingActive informa si existe otro contrato ACTIVE sobre la unidad
	// cuya vigencia se solapa con [start, end]. excludeLeaseID permite re-validar
	// un contrato existente sin chocar consigo mismo (vacío = sin exclusión).
	HasOverlappingActive(ctx context.Context, unitID string, start, end time.Time, excludeLeaseID string) (bool, error)

	CreateCharge(ctx context.Context, charge *entity.LeaseCharge) error
	ListChargesByLease(ctx context.Context, leaseID string) ([]*entity.LeaseCharge, error)
	UpdateCharge(ctx context.Context, charge *entity.LeaseCharge) error
}
