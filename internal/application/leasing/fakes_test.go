package leasing_test

import (
	"context"
	"sort"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// Fakes en memoria para los casos de uso de arrendamiento.

type fakeUnitRepo struct {
	byID map[string]*entity.Unit
	// occupied fija el estado de ocupación por unidad en las pruebas.
	occupied map[string]bool
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{
		byID:     make(map[string]*entity.Unit),
		occupied: make(map[string]bool),
	}
}

func (r *fakeUnitRepo) Create(_ context.Context, u *entity.Unit) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUnitRepo) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.Unit, error) {
	for _, u := range r.byID {
		if u.CompanyID == companyID && u.Code == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUnitRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Unit, error) {
	var out []*entity.Unit
	for _, u := range r.byID {
		if u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUnitRepo) Update(_ context.Context, u *entity.Unit) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUnitRepo) IsOccupied(_ context.Context, unitID string, _ time.Time) (bool, error) {
	return r.occupied[unitID], nil
}

type fakeLeaseRepo struct {
	byID    map[string]*entity.Lease
	charges map[string][]*entity.LeaseCharge
}

func newFakeLeaseRepo() *fakeLeaseRepo {
	return &fakeLeaseRepo{
		byID:    make(map[string]*entity.Lease),
		charges: make(map[string][]*entity.LeaseCharge),
	}
}

func (r *fakeLeaseRepo) Create(_ context.Context, l *entity.Lease) error {
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *fakeLeaseRepo) GetByID(_ context.Context, id string) (*entity.Lease, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLeaseRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.Lease, error) {
	var out []*entity.Lease
	for _, l := range r.byID {
		if l.CompanyID != companyID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractNumber < out[j].ContractNumber })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLeaseRepo) ListActiveByCompany(_ context.Context, companyID string) ([]*entity.Lease, error) {
	var out []*entity.Lease
	for _, l := range r.byID {
		if l.CompanyID == companyID && l.Status == entity.LeaseStatusActive {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLeaseRepo) Update(_ context.Context, l *entity.Lease) error {
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *fakeLeaseRepo) HasOverlappingActive(_ context.Context, unitID string, start, end time.Time, excludeLeaseID string) (bool, error) {
	for _, l := range r.byID {
		if l.UnitID != unitID || l.Status != entity.LeaseStatusActive || l.ID == excludeLeaseID {
			continue
		}
		if !start.After(l.EndDate) && !l.StartDate.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLeaseRepo) CreateCharge(_ context.Context, c *entity.LeaseCharge) error {
	cp := *c
	r.charges[c.LeaseID] = append(r.charges[c.LeaseID], &cp)
	return nil
}

func (r *fakeLeaseRepo) ListChargesByLease(_ context.Context, leaseID string) ([]*entity.LeaseCharge, error) {
	var out []*entity.LeaseCharge
	for _, c := range r.charges[leaseID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeLeaseRepo) UpdateCharge(_ context.Context, c *entity.LeaseCharge) error {
	for i, existing := range r.charges[c.LeaseID] {
		if existing.ID == c.ID {
			cp := *c
			r.charges[c.LeaseID][i] = &cp
			return nil
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	byID map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byID: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, c := range r.byID {
		if c.CompanyID == companyID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

var (
	_ repository.UnitRepository     = (*fakeUnitRepo)(nil)
	_ repository.LeaseRepository    = (*fakeLeaseRepo)(nil)
	_ repository.CustomerRepository = (*fakeCustomerRepo)(nil)
)
