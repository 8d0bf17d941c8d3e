package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// CustomerUseCase casos de uso para arrendatarios.
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
	receiptRepo repository.ReceiptRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo, receiptRepo: receiptRepo}
}

// Create crea un nuevo arrendatario.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndTaxID(companyID, in.TaxID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un arrendatario de la empresa.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(customer), nil
}

// List lista arrendatarios de la empresa.
func (uc *CustomerUseCase) List(companyID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update actualiza los datos del arrendatario.
func (uc *CustomerUseCase) Update(companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.repo.GetByID(id)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.TaxID != customer.TaxID {
		existing, _ := uc.repo.GetByCompanyAndTaxID(companyID, in.TaxID)
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	customer.Name = in.Name
	customer.TaxID = in.TaxID
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un arrendatario de la empresa. Un arrendatario con facturas
// abiertas o recibos registrados no se puede eliminar.
func (uc *CustomerUseCase) Delete(ctx context.Context, companyID, id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil || customer == nil {
		return domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return domain.ErrForbidden
	}
	open, err := uc.invoiceRepo.ListOpenByCustomer(ctx, id)
	if err != nil {
		return err
	}
	receipts, err := uc.receiptRepo.ListByCustomer(ctx, id, 1, 0)
	if err != nil {
		return err
	}
	if len(open) > 0 || len(receipts) > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

// Statement construye el estado de cuenta: facturas abiertas con saldo y recibos del cliente.
func (uc *CustomerUseCase) Statement(ctx context.Context, companyID, id string) (*dto.CustomerStatementResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	invoices, err := uc.invoiceRepo.ListOpenByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	receipts, err := uc.receiptRepo.ListByCustomer(ctx, id, 50, 0)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerStatementResponse{Customer: *toCustomerResponse(customer)}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, *invoiceToResponse(inv, customer.Name, nil))
	}
	for _, rc := range receipts {
		out.Receipts = append(out.Receipts, *receiptToResponse(rc, customer.Name, nil))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}
