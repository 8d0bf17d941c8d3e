package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
)

// ReceiptHandler maneja las peticiones HTTP de recibos de caja (protegido, módulo billing).
type ReceiptHandler struct {
	uc    *billing.ReceiptUseCase
	pdfUC *billing.PDFUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *billing.ReceiptUseCase, pdfUC *billing.PDFUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, pdfUC: pdfUC}
}

// receiptError mapea los errores de dominio de recibos.
func receiptError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recibo no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el recibo pertenece a otra empresa"})
	case errors.Is(err, domain.ErrPaymentExceedsDebt):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PAYMENT_EXCEEDS_DEBT", Message: "el pago excede el saldo pendiente del cliente"})
	case errors.Is(err, domain.ErrInvoiceNotOpen):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVOICE_NOT_OPEN", Message: "una de las facturas no admite pagos en su estado actual"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Post POST /api/receipts — registra un pago y lo aplica a facturas (FIFO o explícito).
func (h *ReceiptHandler) Post(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	receipt, err := h.uc.Post(c.Context(), companyID, in)
	if err != nil {
		return receiptError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// GetByID GET /api/receipts/:id
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	receipt, err := h.uc.GetReceipt(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return receiptError(c, err)
	}
	return c.JSON(receipt)
}

// List GET /api/receipts?limit=20&offset=0
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.uc.List(c.Context(), companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Void POST /api/receipts/:id/void — anula el recibo revirtiendo las aplicaciones.
func (h *ReceiptHandler) Void(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	receipt, err := h.uc.Void(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return receiptError(c, err)
	}
	return c.JSON(receipt)
}

// DownloadPDF GET /api/receipts/:id/pdf — descarga la representación PDF del recibo.
func (h *ReceiptHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadReceiptPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return receiptError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
