package billing_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. Sustituyen a los repos de
// pgx en los tests de use cases; la transacción es un pasamanos directo.
// ──────────────────────────────────────────────────────────────────────────────

type memTxRunner struct {
	invoices *memInvoiceRepo
	receipts *memReceiptRepo
}

func (r *memTxRunner) RunInvoicing(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(r.invoices)
}

func (r *memTxRunner) RunReceipt(ctx context.Context, fn func(repository.ReceiptRepository, repository.InvoiceRepository) error) error {
	return fn(r.receipts, r.invoices)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

type memCustomerRepo struct {
	byID map[string]*entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byID: make(map[string]*entity.Customer)}
}

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.byID[id], nil
}

func (r *memCustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, c := range r.byID {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCustomerRepo) Update(c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *memCustomerRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type memInvoiceRepo struct {
	byID    map[string]*entity.Invoice
	details map[string][]*entity.InvoiceDetail
	seq     int64
	// lockedReads cuenta las lecturas con bloqueo de fila (GetByIDForUpdate).
	lockedReads int
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		byID:    make(map[string]*entity.Invoice),
		details: make(map[string][]*entity.InvoiceDetail),
	}
}

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) CreateDetail(_ context.Context, d *entity.InvoiceDetail) error {
	r.details[d.InvoiceID] = append(r.details[d.InvoiceID], d)
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	r.lockedReads++
	return r.GetByID(ctx, id)
}

func (r *memInvoiceRepo) GetDetailsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	return r.details[invoiceID], nil
}

func (r *memInvoiceRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.CompanyID == companyID && (status == "" || inv.Status == status) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) ListOpenByCustomer(_ context.Context, customerID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.CustomerID == customerID && inv.IsOpen() {
			cp := *inv
			out = append(out, &cp)
		}
	}
	// FIFO: de la más antigua a la más reciente, desempate por consecutivo
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *memInvoiceRepo) ExistsForLeaseAndPeriod(_ context.Context, leaseID, period string) (bool, error) {
	for _, inv := range r.byID {
		if inv.LeaseID == leaseID && inv.Period == period && inv.Status != entity.InvoiceStatusVoid {
			return true, nil
		}
	}
	return false, nil
}

func (r *memInvoiceRepo) UpdatePayment(_ context.Context, inv *entity.Invoice) error {
	stored, ok := r.byID[inv.ID]
	if !ok {
		return nil
	}
	stored.PaidTotal = inv.PaidTotal
	stored.Status = inv.Status
	stored.UpdatedAt = inv.UpdatedAt
	return nil
}

func (r *memInvoiceRepo) UpdateStatus(_ context.Context, inv *entity.Invoice) error {
	stored, ok := r.byID[inv.ID]
	if !ok {
		return nil
	}
	stored.Status = inv.Status
	stored.UpdatedAt = inv.UpdatedAt
	return nil
}

func (r *memInvoiceRepo) NextNumber(_ context.Context, companyID string) (int64, error) {
	r.seq++
	return r.seq, nil
}

// ── Receipts ──────────────────────────────────────────────────────────────────

type memReceiptRepo struct {
	byID        map[string]*entity.Receipt
	allocations map[string][]*entity.ReceiptAllocation
	seq         int64
}

func newMemReceiptRepo() *memReceiptRepo {
	return &memReceiptRepo{
		byID:        make(map[string]*entity.Receipt),
		allocations: make(map[string][]*entity.ReceiptAllocation),
	}
}

func (r *memReceiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	cp := *rc
	r.byID[rc.ID] = &cp
	return nil
}

func (r *memReceiptRepo) CreateAllocation(_ context.Context, a *entity.ReceiptAllocation) error {
	r.allocations[a.ReceiptID] = append(r.allocations[a.ReceiptID], a)
	return nil
}

func (r *memReceiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	rc, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *rc
	return &cp, nil
}

func (r *memReceiptRepo) GetAllocationsByReceiptID(_ context.Context, receiptID string) ([]*entity.ReceiptAllocation, error) {
	return r.allocations[receiptID], nil
}

func (r *memReceiptRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for _, rc := range r.byID {
		if rc.CompanyID == companyID {
			cp := *rc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReceiptRepo) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for _, rc := range r.byID {
		if rc.CustomerID == customerID {
			cp := *rc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReceiptRepo) UpdateStatus(_ context.Context, rc *entity.Receipt) error {
	stored, ok := r.byID[rc.ID]
	if !ok {
		return nil
	}
	stored.Status = rc.Status
	stored.UpdatedAt = rc.UpdatedAt
	return nil
}

func (r *memReceiptRepo) NextNumber(_ context.Context, companyID string) (int64, error) {
	r.seq++
	return r.seq, nil
}

// ── Leases ────────────────────────────────────────────────────────────────────

type memLeaseRepo struct {
	byID    map[string]*entity.Lease
	charges map[string][]*entity.LeaseCharge
}

func newMemLeaseRepo() *memLeaseRepo {
	return &memLeaseRepo{
		byID:    make(map[string]*entity.Lease),
		charges: make(map[string][]*entity.LeaseCharge),
	}
}

func (r *memLeaseRepo) Create(_ context.Context, l *entity.Lease) error {
	r.byID[l.ID] = l
	return nil
}

func (r *memLeaseRepo) GetByID(_ context.Context, id string) (*entity.Lease, error) {
	return r.byID[id], nil
}

func (r *memLeaseRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.Lease, error) {
	var out []*entity.Lease
	for _, l := range r.byID {
		if l.CompanyID == companyID && (status == "" || l.Status == status) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLeaseRepo) ListActiveByCompany(_ context.Context, companyID string) ([]*entity.Lease, error) {
	var out []*entity.Lease
	for _, l := range r.byID {
		if l.CompanyID == companyID && l.Status == entity.LeaseStatusActive {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractNumber < out[j].ContractNumber })
	return out, nil
}

func (r *memLeaseRepo) Update(_ context.Context, l *entity.Lease) error {
	r.byID[l.ID] = l
	return nil
}

func (r *memLeaseRepo) HasOverlappingActive(_ context.Context, unitID string, start, end time.Time, excludeLeaseID string) (bool, error) {
	for _, l := range r.byID {
		if l.UnitID != unitID || l.Status != entity.LeaseStatusActive || l.ID == excludeLeaseID {
			continue
		}
		if !l.StartDate.After(end) && !start.After(l.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLeaseRepo) CreateCharge(_ context.Context, ch *entity.LeaseCharge) error {
	r.charges[ch.LeaseID] = append(r.charges[ch.LeaseID], ch)
	return nil
}

func (r *memLeaseRepo) ListChargesByLease(_ context.Context, leaseID string) ([]*entity.LeaseCharge, error) {
	return r.charges[leaseID], nil
}

func (r *memLeaseRepo) UpdateCharge(_ context.Context, ch *entity.LeaseCharge) error {
	for i, existing := range r.charges[ch.LeaseID] {
		if existing.ID == ch.ID {
			r.charges[ch.LeaseID][i] = ch
		}
	}
	return nil
}

// ── Fiscal years ──────────────────────────────────────────────────────────────

type memFiscalYearRepo struct {
	byID map[string]*entity.FiscalYear
}

func newMemFiscalYearRepo() *memFiscalYearRepo {
	return &memFiscalYearRepo{byID: make(map[string]*entity.FiscalYear)}
}

func (r *memFiscalYearRepo) Create(_ context.Context, fy *entity.FiscalYear) error {
	r.byID[fy.ID] = fy
	return nil
}

func (r *memFiscalYearRepo) GetByID(_ context.Context, id string) (*entity.FiscalYear, error) {
	return r.byID[id], nil
}

func (r *memFiscalYearRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.FiscalYear, error) {
	var out []*entity.FiscalYear
	for _, fy := range r.byID {
		if fy.CompanyID == companyID {
			out = append(out, fy)
		}
	}
	return out, nil
}

func (r *memFiscalYearRepo) Update(_ context.Context, fy *entity.FiscalYear) error {
	r.byID[fy.ID] = fy
	return nil
}

func (r *memFiscalYearRepo) HasOverlapping(_ context.Context, companyID string, start, end time.Time) (bool, error) {
	for _, fy := range r.byID {
		if fy.CompanyID == companyID && fy.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFiscalYearRepo) GetOpenByDate(_ context.Context, companyID string, date time.Time) (*entity.FiscalYear, error) {
	for _, fy := range r.byID {
		if fy.CompanyID == companyID && fy.Status == entity.FiscalYearOpen && fy.Covers(date) {
			return fy, nil
		}
	}
	return nil, nil
}

// Aserciones de compilación: los fakes implementan los puertos reales.
var (
	_ repository.CustomerRepository   = (*memCustomerRepo)(nil)
	_ repository.InvoiceRepository    = (*memInvoiceRepo)(nil)
	_ repository.ReceiptRepository    = (*memReceiptRepo)(nil)
	_ repository.LeaseRepository      = (*memLeaseRepo)(nil)
	_ repository.FiscalYearRepository = (*memFiscalYearRepo)(nil)
	_ billing.BillingTxRunner         = (*memTxRunner)(nil)
	_ billing.EventPublisher          = (*capturePublisher)(nil)
)
