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
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// ReceiptUseCase registra recibos de caja y su aplicación a facturas.
//
// Invariantes:
//   - La suma de las aplicaciones de un recibo POSTED es igual a su monto.
//   - Ninguna aplicación excede el saldo de la factura al momento de aplicarla.
//   - La inserción del recibo, sus aplicaciones y la actualización de los saldos
//     de las facturas ocurren en una sola transacción.
type ReceiptUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository // lecturas fuera de transacción
	receiptRepo  repository.ReceiptRepository
	events       EventPublisher
	cfg          Config
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	events EventPublisher,
	cfg Config,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		receiptRepo:  receiptRepo,
		events:       events,
		cfg:          cfg,
	}
}

// Post registra un recibo de caja y lo aplica a facturas del cliente.
// Con aplicaciones explícitas valida que sumen exactamente el monto; sin ellas
// aplica FIFO sobre las facturas abiertas (de la más antigua a la más reciente).
func (uc *ReceiptUseCase) Post(ctx context.Context, companyID string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if in.CustomerID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	receiptDate := time.Now()
	if in.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", in.Date, time.Local)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		receiptDate = d
	}

	now := time.Now()
	receipt := &entity.Receipt{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		Prefix:     uc.cfg.ReceiptPrefix,
		Date:       receiptDate,
		Method:     in.Method,
		Amount:     in.Amount,
		Status:     entity.ReceiptStatusPosted,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var allocations []*entity.ReceiptAllocation
	err = uc.txRunner.RunReceipt(ctx, func(
		receiptRepo repository.ReceiptRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var txErr error
		if len(in.Allocations) > 0 {
			allocations, txErr = uc.applyExplicit(ctx, invoiceRepo, receipt, in.Allocations)
		} else {
			allocations, txErr = uc.applyFIFO(ctx, invoiceRepo, receipt)
		}
		if txErr != nil {
			return txErr
		}
		seq, err := receiptRepo.NextNumber(ctx, companyID)
		if err != nil {
			return err
		}
		receipt.Number = fmt.Sprintf("%06d", seq)
		if err := receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}
		for _, a := range allocations {
			if err := receiptRepo.CreateAllocation(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := receiptToResponse(receipt, customer.Name, allocations)
	_ = uc.events.Publish(ctx, EventReceiptPosted, resp)
	return resp, nil
}

// applyExplicit valida y aplica las asignaciones enviadas por el cliente.
// La suma debe ser exactamente el monto del recibo; no se guarda remanente sin aplicar.
func (uc *ReceiptUseCase) applyExplicit(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	receipt *entity.Receipt,
	reqs []dto.ReceiptAllocationRequest,
) ([]*entity.ReceiptAllocation, error) {
	var sum decimal.Decimal
	for _, r := range reqs {
		sum = sum.Add(r.Amount)
	}
	if !sum.Equal(receipt.Amount) {
		return nil, domain.ErrInvalidInput
	}

	allocations := make([]*entity.ReceiptAllocation, 0, len(reqs))
	for _, r := range reqs {
		if !r.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		// Lectura con bloqueo de fila: dos recibos concurrentes sobre la misma
		// factura se serializan y el saldo se valida contra el paid_total vigente.
		inv, err := invoiceRepo.GetByIDForUpdate(ctx, r.InvoiceID)
		if err != nil || inv == nil {
			return nil, domain.ErrNotFound
		}
		if inv.CompanyID != receipt.CompanyID || inv.CustomerID != receipt.CustomerID {
			return nil, domain.ErrForbidden
		}
		if !inv.IsOpen() {
			return nil, domain.ErrInvoiceNotOpen
		}
		if r.Amount.GreaterThan(inv.Balance()) {
			return nil, domain.ErrPaymentExceedsDebt
		}
		inv.ApplyPayment(r.Amount)
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.UpdatePayment(ctx, inv); err != nil {
			return nil, err
		}
		allocations = append(allocations, &entity.ReceiptAllocation{
			ID:        uuid.New().String(),
			ReceiptID: receipt.ID,
			InvoiceID: inv.ID,
			Amount:    r.Amount,
		})
	}
	return allocations, nil
}

// applyFIFO aplica el pago a las facturas abiertas del cliente, de la más antigua a
// la más reciente. Si queda remanente después de la última factura, el recibo se
// rechaza: el sistema no maneja saldos a favor.
func (uc *ReceiptUseCase) applyFIFO(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	receipt *entity.Receipt,
) ([]*entity.ReceiptAllocation, error) {
	open, err := invoiceRepo.ListOpenByCustomer(ctx, receipt.CustomerID)
	if err != nil {
		return nil, err
	}
	remaining := receipt.Amount
	var allocations []*entity.ReceiptAllocation
	for _, candidate := range open {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		// El listado no bloquea filas; se relee cada factura con bloqueo y se
		// recalcula el saldo, porque otro recibo pudo aplicarse entre ambas lecturas.
		inv, err := invoiceRepo.GetByIDForUpdate(ctx, candidate.ID)
		if err != nil || inv == nil {
			return nil, domain.ErrNotFound
		}
		if !inv.IsOpen() {
			continue
		}
		applied := decimal.Min(remaining, inv.Balance())
		if !applied.GreaterThan(decimal.Zero) {
			continue
		}
		inv.ApplyPayment(applied)
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.UpdatePayment(ctx, inv); err != nil {
			return nil, err
		}
		allocations = append(allocations, &entity.ReceiptAllocation{
			ID:        uuid.New().String(),
			ReceiptID: receipt.ID,
			InvoiceID: inv.ID,
			Amount:    applied,
		})
		remaining = remaining.Sub(applied)
	}
	if remaining.GreaterThan(decimal.Zero) {
		return nil, domain.ErrPaymentExceedsDebt
	}
	return allocations, nil
}

// Void anula un recibo: revierte todas sus aplicaciones y restaura los saldos de
// las facturas afectadas en una sola transacción.
func (uc *ReceiptUseCase) Void(ctx context.Context, companyID, id string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.receiptRepo.GetByID(ctx, id)
	if err != nil || receipt == nil {
		return nil, domain.ErrNotFound
	}
	if receipt.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if receipt.Status == entity.ReceiptStatusVoid {
		return nil, domain.ErrConflict
	}

	var allocations []*entity.ReceiptAllocation
	err = uc.txRunner.RunReceipt(ctx, func(
		receiptRepo repository.ReceiptRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var txErr error
		allocations, txErr = receiptRepo.GetAllocationsByReceiptID(ctx, id)
		if txErr != nil {
			return txErr
		}
		for _, a := range allocations {
			inv, err := invoiceRepo.GetByIDForUpdate(ctx, a.InvoiceID)
			if err != nil || inv == nil {
				return fmt.Errorf("anular recibo %s: factura %s: %w", receipt.Number, a.InvoiceID, domain.ErrNotFound)
			}
			inv.ReversePayment(a.Amount)
			inv.UpdatedAt = time.Now()
			if err := invoiceRepo.UpdatePayment(ctx, inv); err != nil {
				return err
			}
		}
		receipt.Status = entity.ReceiptStatusVoid
		receipt.UpdatedAt = time.Now()
		return receiptRepo.UpdateStatus(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	resp := receiptToResponse(receipt, "", allocations)
	_ = uc.events.Publish(ctx, EventReceiptVoided, resp)
	return resp, nil
}

// GetReceipt obtiene un recibo con sus aplicaciones.
func (uc *ReceiptUseCase) GetReceipt(ctx context.Context, companyID, id string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.receiptRepo.GetByID(ctx, id)
	if err != nil || receipt == nil {
		return nil, domain.ErrNotFound
	}
	if receipt.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	allocations, err := uc.receiptRepo.GetAllocationsByReceiptID(ctx, id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(receipt.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return receiptToResponse(receipt, customerName, allocations), nil
}

// List lista recibos de la empresa.
func (uc *ReceiptUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.ReceiptResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.receiptRepo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReceiptResponse, 0, len(list))
	for _, rc := range list {
		out = append(out, receiptToResponse(rc, "", nil))
	}
	return out, nil
}

func receiptToResponse(rc *entity.Receipt, customerName string, allocations []*entity.ReceiptAllocation) *dto.ReceiptResponse {
	resp := &dto.ReceiptResponse{
		ID:           rc.ID,
		CompanyID:    rc.CompanyID,
		CustomerID:   rc.CustomerID,
		CustomerName: customerName,
		Prefix:       rc.Prefix,
		Number:       rc.Number,
		Date:         rc.Date.Format("2006-01-02"),
		Method:       rc.Method,
		Amount:       rc.Amount,
		Status:       rc.Status,
		Notes:        rc.Notes,
	}
	for _, a := range allocations {
		resp.Allocations = append(resp.Allocations, dto.ReceiptAllocationResponse{
			InvoiceID: a.InvoiceID,
			Amount:    a.Amount,
		})
	}
	return resp
}
