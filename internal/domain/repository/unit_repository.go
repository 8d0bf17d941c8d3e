package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para unidades arrendables.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Unit, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	// IsOccupied informa si la unidad tiene un contrato ACTIVE cuya vigencia incluye la fecha.
	IsOccupied(ctx context.Context, unitID string, asOf time.Time) (bool, error)
}
