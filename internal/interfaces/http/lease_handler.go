package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/application/leasing"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
)

// LeaseHandler maneja las peticiones HTTP de contratos de arriendo (protegido, módulo leasing).
type LeaseHandler struct {
	uc *leasing.LeaseUseCase
}

// NewLeaseHandler construye el handler.
func NewLeaseHandler(uc *leasing.LeaseUseCase) *LeaseHandler {
	return &LeaseHandler{uc: uc}
}

// leaseError mapea los errores de dominio del ciclo de vida del contrato.
// El detalle de ErrInvalidInput se propaga porque el use case arma mensajes
// específicos (fechas, montos, conceptos).
func leaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contrato no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el contrato pertenece a otra empresa"})
	case errors.Is(err, domain.ErrDateOverlap):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DATE_OVERLAP", Message: "la unidad ya tiene un contrato activo que se solapa en fechas"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un contrato con ese número"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Create POST /api/leases — crea el contrato en estado DRAFT.
func (h *LeaseHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateLeaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lease, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return leaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lease)
}

// GetByID GET /api/leases/:id
func (h *LeaseHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	lease, err := h.uc.GetByID(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return leaseError(c, err)
	}
	return c.JSON(lease)
}

// List GET /api/leases?status=ACTIVE&limit=20&offset=0
func (h *LeaseHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.uc.List(c.Context(), companyID, c.Query("status"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Activate POST /api/leases/:id/activate — DRAFT → ACTIVE, validando solape de fechas.
func (h *LeaseHandler) Activate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	lease, err := h.uc.Activate(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return leaseError(c, err)
	}
	return c.JSON(lease)
}

// Terminate POST /api/leases/:id/terminate — ACTIVE → TERMINATED.
func (h *LeaseHandler) Terminate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TerminateLeaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lease, err := h.uc.Terminate(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return leaseError(c, err)
	}
	return c.JSON(lease)
}

// AddCharge POST /api/leases/:id/charges — agrega un concepto de cobro recurrente.
func (h *LeaseHandler) AddCharge(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.LeaseChargeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	charge, err := h.uc.AddCharge(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return leaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(charge)
}

// SetChargeActive PATCH /api/leases/:id/charges/:chargeId — activa o desactiva un cargo.
func (h *LeaseHandler) SetChargeActive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	charge, err := h.uc.SetChargeActive(c.Context(), companyID, c.Params("id"), c.Params("chargeId"), in.Active)
	if err != nil {
		return leaseError(c, err)
	}
	return c.JSON(charge)
}
