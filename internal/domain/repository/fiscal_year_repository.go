package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// FiscalYearRepository define el puerto de persistencia para años fiscales.
type FiscalYearRepository interface {
	Create(ctx context.Context, fy *entity.FiscalYear) error
	GetByID(ctx context.Context, id string) (*entity.FiscalYear, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.FiscalYear, error)
	Update(ctx context.Context, fy *entity.FiscalYear) error
	// HasOverlapping informa si algún año fiscal de la empresa se solapa con [start, end].
	HasOverlapping(ctx context.Context, companyID string, start, end time.Time) (bool, error)
	// GetOpenByDate devuelve el año fiscal OPEN que cubre la fecha, o nil si no hay.
	GetOpenByDate(ctx context.Context, companyID string, date time.Time) (*entity.FiscalYear, error)
}
