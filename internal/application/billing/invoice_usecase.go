package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	domleasing "github.com/tu-usuario/arriendo-pro/internal/domain/leasing"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// Config parámetros de facturación ya parseados (ver pkg/config.BillingConfig).
type Config struct {
	InvoicePrefix string
	ReceiptPrefix string
	TaxRate       decimal.Decimal // fracción, ej. 0.19
	DueDays       int
}

// InvoiceUseCase emite facturas de arrendamiento: la corrida mensual sobre los
// contratos ACTIVE y la factura manual sobre un contrato puntual.
//
// Reglas:
//   - Solo se factura con fecha dentro de un año fiscal OPEN.
//   - Una factura por (contrato, período); la corrida es idempotente.
//   - El canon del primer período se prorratea por días si el contrato inicia
//     después del día 1 del mes facturado.
//   - El canon no lleva IVA; los demás conceptos según su flag Taxed.
type InvoiceUseCase struct {
	txRunner       BillingTxRunner
	leaseRepo      repository.LeaseRepository
	customerRepo   repository.CustomerRepository
	fiscalYearRepo repository.FiscalYearRepository
	invoiceRepo    repository.InvoiceRepository // lecturas fuera de transacción
	events         EventPublisher
	cfg            Config
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	leaseRepo repository.LeaseRepository,
	customerRepo repository.CustomerRepository,
	fiscalYearRepo repository.FiscalYearRepository,
	invoiceRepo repository.InvoiceRepository,
	events EventPublisher,
	cfg Config,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:       txRunner,
		leaseRepo:      leaseRepo,
		customerRepo:   customerRepo,
		fiscalYearRepo: fiscalYearRepo,
		invoiceRepo:    invoiceRepo,
		events:         events,
		cfg:            cfg,
	}
}

// pendingInvoice factura preparada fuera de la transacción; el consecutivo se
// asigna dentro de la tx.
type pendingInvoice struct {
	invoice      *entity.Invoice
	details      []*entity.InvoiceDetail
	customerName string
}

// Run ejecuta la corrida de facturación del período ("2006-01") para todos los
// contratos ACTIVE de la empresa. Los contratos que ya tienen factura del período
// se omiten; todo lo demás se emite en una sola transacción.
func (uc *InvoiceUseCase) Run(ctx context.Context, companyID string, in dto.BillingRunRequest) (*dto.BillingRunResponse, error) {
	periodStart, err := time.ParseInLocation("2006-01", in.Period, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if fy, err := uc.fiscalYearRepo.GetOpenByDate(ctx, companyID, now); err != nil {
		return nil, err
	} else if fy == nil {
		return nil, domain.ErrNoOpenFiscalYear
	}

	leases, err := uc.leaseRepo.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	_, periodEnd := domleasing.PeriodBounds(periodStart.Year(), periodStart.Month(), periodStart.Location())
	dueDate := now.AddDate(0, 0, uc.cfg.DueDays)

	resp := &dto.BillingRunResponse{Period: in.Period, LeaseRun: len(leases)}
	var pending []pendingInvoice

	for _, lease := range leases {
		// Contratos sin vigencia en el mes facturado no generan factura.
		if !domleasing.RangesOverlap(lease.StartDate, lease.EndDate, periodStart, periodEnd) {
			continue
		}
		exists, err := uc.invoiceRepo.ExistsForLeaseAndPeriod(ctx, lease.ID, in.Period)
		if err != nil {
			return nil, err
		}
		if exists {
			resp.Skipped++
			continue
		}
		customer, err := uc.customerRepo.GetByID(lease.CustomerID)
		if err != nil || customer == nil {
			return nil, fmt.Errorf("corrida %s: arrendatario del contrato %s: %w", in.Period, lease.ContractNumber, domain.ErrNotFound)
		}
		charges, err := uc.leaseRepo.ListChargesByLease(ctx, lease.ID)
		if err != nil {
			return nil, err
		}
		p := uc.buildInvoice(lease, customer, charges, in.Period, periodStart, now, dueDate)
		pending = append(pending, p)
	}

	if err := uc.persistPending(ctx, companyID, pending); err != nil {
		return nil, err
	}
	for _, p := range pending {
		_ = uc.events.Publish(ctx, EventInvoiceIssued, invoiceToResponse(p.invoice, p.customerName, p.details))
		resp.Issued = append(resp.Issued, *invoiceToResponse(p.invoice, p.customerName, p.details))
	}
	return resp, nil
}

// buildInvoice arma cabecera y detalle de la factura de un contrato para el período.
func (uc *InvoiceUseCase) buildInvoice(
	lease *entity.Lease,
	customer *entity.Customer,
	charges []*entity.LeaseCharge,
	period string,
	periodStart, issueDate, dueDate time.Time,
) pendingInvoice {
	invoiceID := uuid.New().String()

	// Canon: prorrateado si el contrato inicia dentro del mes facturado después del día 1.
	rent := lease.MonthlyRent
	rentDesc := "Canon de arrendamiento " + period
	if lease.StartDate.Year() == periodStart.Year() && lease.StartDate.Month() == periodStart.Month() && lease.StartDate.Day() > 1 {
		rent = domleasing.ProrateFirstPeriod(lease.MonthlyRent, lease.StartDate)
		rentDesc = fmt.Sprintf("Canon prorrateado %s (desde %s)", period, lease.StartDate.Format("2006-01-02"))
	}

	details := []*entity.InvoiceDetail{{
		ID:          uuid.New().String(),
		InvoiceID:   invoiceID,
		Concept:     entity.ChargeConceptRent,
		Description: rentDesc,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   rent,
		TaxRate:     decimal.Zero,
		TaxAmount:   decimal.Zero,
		Subtotal:    rent,
	}}
	for _, ch := range charges {
		if !ch.Active {
			continue
		}
		taxRate := decimal.Zero
		taxAmount := decimal.Zero
		if ch.Taxed {
			taxRate = uc.cfg.TaxRate
			taxAmount = ch.Amount.Mul(taxRate).Round(2)
		}
		details = append(details, &entity.InvoiceDetail{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Concept:     ch.Concept,
			Description: ch.Description,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   ch.Amount,
			TaxRate:     taxRate,
			TaxAmount:   taxAmount,
			Subtotal:    ch.Amount,
		})
	}

	var netTotal, taxTotal decimal.Decimal
	for _, d := range details {
		netTotal = netTotal.Add(d.Subtotal)
		taxTotal = taxTotal.Add(d.TaxAmount)
	}

	inv := &entity.Invoice{
		ID:         invoiceID,
		CompanyID:  lease.CompanyID,
		CustomerID: lease.CustomerID,
		LeaseID:    lease.ID,
		Prefix:     uc.cfg.InvoicePrefix,
		Period:     period,
		Date:       issueDate,
		DueDate:    dueDate,
		NetTotal:   netTotal,
		TaxTotal:   taxTotal,
		GrandTotal: netTotal.Add(taxTotal),
		PaidTotal:  decimal.Zero,
		Status:     entity.InvoiceStatusIssued,
		CreatedAt:  issueDate,
		UpdatedAt:  issueDate,
	}
	return pendingInvoice{invoice: inv, details: details, customerName: customer.Name}
}

// persistPending asigna consecutivos e inserta facturas y detalles en una sola transacción.
func (uc *InvoiceUseCase) persistPending(ctx context.Context, companyID string, pending []pendingInvoice) error {
	if len(pending) == 0 {
		return nil
	}
	return uc.txRunner.RunInvoicing(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		for _, p := range pending {
			seq, err := invoiceRepo.NextNumber(ctx, companyID)
			if err != nil {
				return err
			}
			p.invoice.Number = fmt.Sprintf("%06d", seq)
			if err := invoiceRepo.Create(ctx, p.invoice); err != nil {
				return err
			}
			for _, d := range p.details {
				if err := invoiceRepo.CreateDetail(ctx, d); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Create emite una factura manual sobre un contrato con líneas explícitas.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.LeaseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lease, err := uc.leaseRepo.GetByID(ctx, in.LeaseID)
	if err != nil || lease == nil {
		return nil, domain.ErrNotFound
	}
	if lease.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.customerRepo.GetByID(lease.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if fy, err := uc.fiscalYearRepo.GetOpenByDate(ctx, companyID, now); err != nil {
		return nil, err
	} else if fy == nil {
		return nil, domain.ErrNoOpenFiscalYear
	}

	invoiceID := uuid.New().String()
	var details []*entity.InvoiceDetail
	var netTotal, taxTotal decimal.Decimal
	for _, item := range in.Items {
		if !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		subtotal := item.Quantity.Mul(item.UnitPrice)
		taxRate := decimal.Zero
		taxAmount := decimal.Zero
		if item.Taxed {
			taxRate = uc.cfg.TaxRate
			taxAmount = subtotal.Mul(taxRate).Round(2)
		}
		concept := item.Concept
		if concept == "" {
			concept = entity.ChargeConceptOther
		}
		details = append(details, &entity.InvoiceDetail{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Concept:     concept,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     taxRate,
			TaxAmount:   taxAmount,
			Subtotal:    subtotal,
		})
		netTotal = netTotal.Add(subtotal)
		taxTotal = taxTotal.Add(taxAmount)
	}

	inv := &entity.Invoice{
		ID:         invoiceID,
		CompanyID:  companyID,
		CustomerID: lease.CustomerID,
		LeaseID:    lease.ID,
		Prefix:     uc.cfg.InvoicePrefix,
		Date:       now,
		DueDate:    now.AddDate(0, 0, uc.cfg.DueDays),
		NetTotal:   netTotal,
		TaxTotal:   taxTotal,
		GrandTotal: netTotal.Add(taxTotal),
		PaidTotal:  decimal.Zero,
		Status:     entity.InvoiceStatusIssued,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.RunInvoicing(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		seq, err := invoiceRepo.NextNumber(ctx, companyID)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("%06d", seq)
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, d := range details {
			if err := invoiceRepo.CreateDetail(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, EventInvoiceIssued, invoiceToResponse(inv, customer.Name, details))
	return invoiceToResponse(inv, customer.Name, details), nil
}

// GetInvoice obtiene una factura por ID con su detalle completo y saldo.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return invoiceToResponse(inv, customerName, details), nil
}

// List lista facturas de la empresa, opcionalmente filtradas por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.ListByCompany(ctx, companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, invoiceToResponse(inv, "", nil))
	}
	return out, nil
}

// Void anula una factura. Solo se permite si no tiene pagos aplicados.
func (uc *InvoiceUseCase) Void(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if inv.Status == entity.InvoiceStatusVoid {
		return invoiceToResponse(inv, "", nil), nil // ya anulada
	}
	if inv.PaidTotal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrConflict
	}
	inv.Status = entity.InvoiceStatusVoid
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, inv); err != nil {
		return nil, err
	}
	return invoiceToResponse(inv, "", nil), nil
}

func invoiceToResponse(inv *entity.Invoice, customerName string, details []*entity.InvoiceDetail) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		LeaseID:      inv.LeaseID,
		Prefix:       inv.Prefix,
		Number:       inv.Number,
		Period:       inv.Period,
		Date:         inv.Date.Format("2006-01-02"),
		DueDate:      inv.DueDate.Format("2006-01-02"),
		NetTotal:     inv.NetTotal,
		TaxTotal:     inv.TaxTotal,
		GrandTotal:   inv.GrandTotal,
		PaidTotal:    inv.PaidTotal,
		Balance:      inv.Balance(),
		Status:       inv.Status,
		Notes:        inv.Notes,
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.InvoiceDetailResponse{
			ID:          d.ID,
			Concept:     d.Concept,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			TaxRate:     d.TaxRate,
			TaxAmount:   d.TaxAmount,
			Subtotal:    d.Subtotal,
		})
	}
	return resp
}
