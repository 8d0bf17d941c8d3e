package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// LeaseUseCase casos de uso del ciclo de vida del contrato:
// DRAFT → ACTIVE → TERMINATED, más la gestión de sus conceptos de cobro.
type LeaseUseCase struct {
	repo         repository.LeaseRepository
	unitRepo     repository.UnitRepository
	customerRepo repository.CustomerRepository
}

// NewLeaseUseCase construye el caso de uso.
func NewLeaseUseCase(
	repo repository.LeaseRepository,
	unitRepo repository.UnitRepository,
	customerRepo repository.CustomerRepository,
) *LeaseUseCase {
	return &LeaseUseCase{repo: repo, unitRepo: unitRepo, customerRepo: customerRepo}
}

func validChargeConcept(c string) bool {
	switch c {
	case entity.ChargeConceptRent, entity.ChargeConceptAdmin,
		entity.ChargeConceptParking, entity.ChargeConceptOther:
		return true
	}
	return false
}

// Create registra un contrato en estado DRAFT. Valida que la unidad y el
// arrendatario existan y pertenezcan a la empresa, y que EndDate sea
// estrictamente posterior a StartDate. El solapamiento con otros contratos
// se valida al activar, no aquí: varios borradores pueden convivir.
func (uc *LeaseUseCase) Create(ctx context.Context, companyID string, in dto.CreateLeaseRequest) (*dto.LeaseResponse, error) {
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
	if !in.MonthlyRent.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el canon mensual debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.Deposit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	unit, err := uc.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil || unit == nil {
		return nil, domain.ErrNotFound
	}
	if unit.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Los cargos se validan completos antes de persistir nada: un cargo
	// inválido no puede dejar un contrato a medias.
	for _, c := range in.Charges {
		if !validChargeConcept(c.Concept) || !c.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	contractNumber := in.ContractNumber
	if contractNumber == "" {
		contractNumber = fmt.Sprintf("CT-%s-%s", start.Format("2006"), uuid.New().String()[:8])
	}
	lease := &entity.Lease{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		UnitID:         in.UnitID,
		CustomerID:     in.CustomerID,
		ContractNumber: contractNumber,
		StartDate:      start,
		EndDate:        end,
		MonthlyRent:    in.MonthlyRent,
		Deposit:        in.Deposit,
		Status:         entity.LeaseStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, lease); err != nil {
		return nil, err
	}

	charges := make([]*entity.LeaseCharge, 0, len(in.Charges))
	for _, c := range in.Charges {
		charge := &entity.LeaseCharge{
			ID:          uuid.New().String(),
			LeaseID:     lease.ID,
			Concept:     c.Concept,
			Description: c.Description,
			Amount:      c.Amount,
			Taxed:       c.Taxed,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.repo.CreateCharge(ctx, charge); err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}
	return uc.toResponse(lease, unit.Code, customer.Name, charges), nil
}

// GetByID obtiene un contrato con sus conceptos de cobro.
func (uc *LeaseUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.LeaseResponse, error) {
	lease, err := uc.loadOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	charges, err := uc.repo.ListChargesByLease(ctx, id)
	if err != nil {
		return nil, err
	}
	unitCode, customerName := uc.lookupNames(ctx, lease)
	return uc.toResponse(lease, unitCode, customerName, charges), nil
}

// List lista contratos de la empresa, opcionalmente filtrados por estado.
func (uc *LeaseUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*dto.LeaseResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LeaseResponse, 0, len(list))
	for _, l := range list {
		out = append(out, uc.toResponse(l, "", "", nil))
	}
	return out, nil
}

// Activate pasa un contrato de DRAFT a ACTIVE. Aquí sí se valida el
// solapamiento: no puede haber dos contratos ACTIVE sobre la misma unidad
// con vigencias que se crucen.
func (uc *LeaseUseCase) Activate(ctx context.Context, companyID, id string) (*dto.LeaseResponse, error) {
	lease, err := uc.loadOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if lease.Status != entity.LeaseStatusDraft {
		return nil, domain.ErrConflict
	}
	overlaps, err := uc.repo.HasOverlappingActive(ctx, lease.UnitID, lease.StartDate, lease.EndDate, lease.ID)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, domain.ErrDateOverlap
	}
	lease.Status = entity.LeaseStatusActive
	lease.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, lease); err != nil {
		return nil, err
	}
	unitCode, customerName := uc.lookupNames(ctx, lease)
	return uc.toResponse(lease, unitCode, customerName, nil), nil
}

// Terminate termina un contrato ACTIVE. La fecha efectiva recorta la vigencia:
// a partir de ahí la corrida de facturación deja de emitir sobre el contrato
// y la unidad queda disponible.
func (uc *LeaseUseCase) Terminate(ctx context.Context, companyID, id string, in dto.TerminateLeaseRequest) (*dto.LeaseResponse, error) {
	lease, err := uc.loadOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if lease.Status != entity.LeaseStatusActive {
		return nil, domain.ErrConflict
	}
	effective := time.Now()
	if in.TerminationDate != "" {
		d, err := time.ParseInLocation("2006-01-02", in.TerminationDate, time.Local)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		effective = d
	}
	if effective.Before(lease.StartDate) {
		return nil, fmt.Errorf("%w: la fecha de terminación es anterior al inicio del contrato", domain.ErrInvalidInput)
	}
	if effective.Before(lease.EndDate) {
		lease.EndDate = effective
	}
	lease.Status = entity.LeaseStatusTerminated
	lease.TerminatedAt = &effective
	lease.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, lease); err != nil {
		return nil, err
	}
	unitCode, customerName := uc.lookupNames(ctx, lease)
	return uc.toResponse(lease, unitCode, customerName, nil), nil
}

// AddCharge agrega un concepto de cobro al contrato.
func (uc *LeaseUseCase) AddCharge(ctx context.Context, companyID, leaseID string, in dto.LeaseChargeRequest) (*dto.LeaseChargeResponse, error) {
	lease, err := uc.loadOwned(ctx, companyID, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.Status == entity.LeaseStatusTerminated {
		return nil, domain.ErrConflict
	}
	if !validChargeConcept(in.Concept) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	charge := &entity.LeaseCharge{
		ID:          uuid.New().String(),
		LeaseID:     leaseID,
		Concept:     in.Concept,
		Description: in.Description,
		Amount:      in.Amount,
		Taxed:       in.Taxed,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreateCharge(ctx, charge); err != nil {
		return nil, err
	}
	return toChargeResponse(charge), nil
}

// SetChargeActive activa o desactiva un concepto de cobro. Desactivar saca
// el cargo de las próximas corridas sin perder el histórico facturado.
func (uc *LeaseUseCase) SetChargeActive(ctx context.Context, companyID, leaseID, chargeID string, active bool) (*dto.LeaseChargeResponse, error) {
	if _, err := uc.loadOwned(ctx, companyID, leaseID); err != nil {
		return nil, err
	}
	charges, err := uc.repo.ListChargesByLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	for _, c := range charges {
		if c.ID != chargeID {
			continue
		}
		c.Active = active
		c.UpdatedAt = time.Now()
		if err := uc.repo.UpdateCharge(ctx, c); err != nil {
			return nil, err
		}
		return toChargeResponse(c), nil
	}
	return nil, domain.ErrNotFound
}

func (uc *LeaseUseCase) loadOwned(ctx context.Context, companyID, id string) (*entity.Lease, error) {
	lease, err := uc.repo.GetByID(ctx, id)
	if err != nil || lease == nil {
		return nil, domain.ErrNotFound
	}
	if lease.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return lease, nil
}

func (uc *LeaseUseCase) lookupNames(ctx context.Context, lease *entity.Lease) (unitCode, customerName string) {
	if unit, _ := uc.unitRepo.GetByID(ctx, lease.UnitID); unit != nil {
		unitCode = unit.Code
	}
	if customer, _ := uc.customerRepo.GetByID(lease.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return unitCode, customerName
}

func (uc *LeaseUseCase) toResponse(l *entity.Lease, unitCode, customerName string, charges []*entity.LeaseCharge) *dto.LeaseResponse {
	resp := &dto.LeaseResponse{
		ID:             l.ID,
		CompanyID:      l.CompanyID,
		UnitID:         l.UnitID,
		UnitCode:       unitCode,
		CustomerID:     l.CustomerID,
		CustomerName:   customerName,
		ContractNumber: l.ContractNumber,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		MonthlyRent:    l.MonthlyRent,
		Deposit:        l.Deposit,
		Status:         l.Status,
	}
	if l.TerminatedAt != nil {
		resp.TerminatedAt = l.TerminatedAt.Format("2006-01-02")
	}
	for _, c := range charges {
		resp.Charges = append(resp.Charges, *toChargeResponse(c))
	}
	return resp
}

func toChargeResponse(c *entity.LeaseCharge) *dto.LeaseChargeResponse {
	return &dto.LeaseChargeResponse{
		ID:          c.ID,
		Concept:     c.Concept,
		Description: c.Description,
		Amount:      c.Amount,
		Taxed:       c.Taxed,
		Active:      c.Active,
	}
}
