package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// FiscalYearUseCase administra los períodos contables de la empresa.
//
// Invariantes:
//   - Dos años fiscales de la misma empresa nunca se solapan (rangos inclusivos).
//   - Solo se emiten facturas con fecha dentro de un año fiscal OPEN.
//   - CLOSED es terminal: un año cerrado no se reabre.
type FiscalYearUseCase struct {
	repo repository.FiscalYearRepository
}

// NewFiscalYearUseCase construye el caso de uso.
func NewFiscalYearUseCase(repo repository.FiscalYearRepository) *FiscalYearUseCase {
	return &FiscalYearUseCase{repo: repo}
}

// Create abre un nuevo año fiscal. Valida EndDate > StartDate y que el rango
// no se solape con ningún año fiscal existente de la empresa.
func (uc *FiscalYearUseCase) Create(ctx context.Context, companyID string, in dto.CreateFiscalYearRequest) (*dto.FiscalYearResponse, error) {
	if in.Label == "" {
		return nil, domain.ErrInvalidInput
	}
	start, err := time.ParseInLocation("2006-01-02", in.StartDate, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	end, err := time.ParseInLocation("2006-01-02", in.EndDate, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: la fecha de fin debe ser posterior a la de inicio", domain.ErrInvalidInput)
	}
	overlaps, err := uc.repo.HasOverlapping(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, domain.ErrDateOverlap
	}
	now := time.Now()
	fy := &entity.FiscalYear{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Label:     in.Label,
		StartDate: start,
		EndDate:   end,
		Status:    entity.FiscalYearOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, fy); err != nil {
		return nil, err
	}
	return toFiscalYearResponse(fy), nil
}

// GetByID obtiene un año fiscal de la empresa.
func (uc *FiscalYearUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.FiscalYearResponse, error) {
	fy, err := uc.repo.GetByID(ctx, id)
	if err != nil || fy == nil {
		return nil, domain.ErrNotFound
	}
	if fy.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toFiscalYearResponse(fy), nil
}

// List lista los años fiscales de la empresa.
func (uc *FiscalYearUseCase) List(ctx context.Context, companyID string) ([]*dto.FiscalYearResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FiscalYearResponse, 0, len(list))
	for _, fy := range list {
		out = append(out, toFiscalYearResponse(fy))
	}
	return out, nil
}

// Close cierra un año fiscal. A partir del cierre no se emiten facturas con
// fecha dentro de ese período.
func (uc *FiscalYearUseCase) Close(ctx context.Context, companyID, id string) (*dto.FiscalYearResponse, error) {
	fy, err := uc.repo.GetByID(ctx, id)
	if err != nil || fy == nil {
		return nil, domain.ErrNotFound
	}
	if fy.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if fy.Status == entity.FiscalYearClosed {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	fy.Status = entity.FiscalYearClosed
	fy.ClosedAt = &now
	fy.UpdatedAt = now
	if err := uc.repo.Update(ctx, fy); err != nil {
		return nil, err
	}
	return toFiscalYearResponse(fy), nil
}

func toFiscalYearResponse(fy *entity.FiscalYear) *dto.FiscalYearResponse {
	resp := &dto.FiscalYearResponse{
		ID:        fy.ID,
		CompanyID: fy.CompanyID,
		Label:     fy.Label,
		StartDate: fy.StartDate.Format("2006-01-02"),
		EndDate:   fy.EndDate.Format("2006-01-02"),
		Status:    fy.Status,
	}
	if fy.ClosedAt != nil {
		resp.ClosedAt = fy.ClosedAt.Format("2006-01-02")
	}
	return resp
}
