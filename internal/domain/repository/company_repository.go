package repository

import (
	"context"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company y sus módulos SaaS.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByNIT(nit string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}
