package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// UnitUseCase casos de uso para el maestro de unidades arrendables.
type UnitUseCase struct {
	repo repository.UnitRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo}
}

func validUnitType(t string) bool {
	switch t {
	case entity.UnitTypeApartment, entity.UnitTypeOffice, entity.UnitTypeLocal,
		entity.UnitTypeParking, entity.UnitTypeStorage:
		return true
	}
	return false
}

// Create registra una unidad. El código es único por empresa.
func (uc *UnitUseCase) Create(ctx context.Context, companyID string, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if in.Code == "" || !validUnitType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndCode(ctx, companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	unit := &entity.Unit{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Type:      in.Type,
		Address:   in.Address,
		AreaM2:    in.AreaM2,
		BaseRent:  in.BaseRent,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, unit), nil
}

// GetByID obtiene una unidad de la empresa con su estado de ocupación.
func (uc *UnitUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.UnitResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil || unit == nil {
		return nil, domain.ErrNotFound
	}
	if unit.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.toResponse(ctx, unit), nil
}

// List lista unidades de la empresa.
func (uc *UnitUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.UnitResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, uc.toResponse(ctx, u))
	}
	return out, nil
}

// Update actualiza el maestro de la unidad. El cambio de código re-valida unicidad.
func (uc *UnitUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	if in.Code == "" || !validUnitType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil || unit == nil {
		return nil, domain.ErrNotFound
	}
	if unit.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Code != unit.Code {
		existing, _ := uc.repo.GetByCompanyAndCode(ctx, companyID, in.Code)
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	unit.Code = in.Code
	unit.Type = in.Type
	unit.Address = in.Address
	unit.AreaM2 = in.AreaM2
	unit.BaseRent = in.BaseRent
	unit.Notes = in.Notes
	unit.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, unit), nil
}

// toResponse arma la respuesta derivando el estado de ocupación a hoy.
func (uc *UnitUseCase) toResponse(ctx context.Context, u *entity.Unit) *dto.UnitResponse {
	status := entity.UnitStatusAvailable
	if occupied, err := uc.repo.IsOccupied(ctx, u.ID, time.Now()); err == nil && occupied {
		status = entity.UnitStatusOccupied
	}
	return &dto.UnitResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Code:      u.Code,
		Type:      u.Type,
		Address:   u.Address,
		AreaM2:    u.AreaM2,
		BaseRent:  u.BaseRent,
		Status:    status,
		Notes:     u.Notes,
	}
}
