package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de facturas y recibos.
// Solo se generan PDFs de documentos ya numerados: una factura ANULADA sí se
// puede descargar (lleva marca de agua), pero nunca un documento sin número.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	receiptRepo  repository.ReceiptRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	invoiceGen   InvoicePDFGenerator
	receiptGen   ReceiptPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	invoiceGen InvoicePDFGenerator,
	receiptGen ReceiptPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		receiptRepo:  receiptRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		invoiceGen:   invoiceGen,
		receiptGen:   receiptGen,
	}
}

// DownloadInvoicePDF recupera todos los datos de la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	companyID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	if inv.Number == "" {
		return nil, "", fmt.Errorf("%w: la factura aún no tiene número asignado", domain.ErrInvalidInput)
	}

	// ── 2. Cargar empresa ─────────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}

	// ── 3. Cargar cliente ─────────────────────────────────────────────────────
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	// ── 4. Cargar detalles ────────────────────────────────────────────────────
	rawDetails, err := uc.invoiceRepo.GetDetailsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener detalles: %w", err)
	}
	details := make([]InvoiceDetailForPDF, 0, len(rawDetails))
	for _, d := range rawDetails {
		details = append(details, InvoiceDetailForPDF{InvoiceDetail: *d})
	}

	// ── 5. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.invoiceGen.GenerateInvoicePDF(ctx, inv, company, customer, details)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("factura_%s%s.pdf", inv.Prefix, inv.Number)
	return pdfBytes, filename, nil
}

// DownloadReceiptPDF recupera el recibo con sus aplicaciones y genera el PDF.
// Cada aplicación se enriquece con el número de la factura a la que se aplicó.
func (uc *PDFUseCase) DownloadReceiptPDF(
	ctx context.Context,
	companyID, receiptID string,
) (pdfBytes []byte, filename string, err error) {
	receipt, err := uc.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener recibo: %w", err)
	}
	if receipt == nil {
		return nil, "", domain.ErrNotFound
	}
	if receipt.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(receipt.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	rawAllocs, err := uc.receiptRepo.GetAllocationsByReceiptID(ctx, receiptID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener aplicaciones: %w", err)
	}
	allocs := make([]AllocationForPDF, 0, len(rawAllocs))
	for _, a := range rawAllocs {
		number := a.InvoiceID // fallback
		if inv, iErr := uc.invoiceRepo.GetByID(ctx, a.InvoiceID); iErr == nil && inv != nil {
			number = inv.Prefix + inv.Number
		}
		allocs = append(allocs, AllocationForPDF{
			ReceiptAllocation: *a,
			InvoiceNumber:     number,
		})
	}

	pdfBytes, err = uc.receiptGen.GenerateReceiptPDF(ctx, receipt, company, customer, allocs)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("recibo_%s%s.pdf", receipt.Prefix, receipt.Number)
	return pdfBytes, filename, nil
}
