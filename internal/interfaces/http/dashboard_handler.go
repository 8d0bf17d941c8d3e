package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/arriendo-pro/internal/application/analytics"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
)

// DashboardHandler maneja las peticiones HTTP del dashboard (protegido, módulo analytics).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary GET /api/dashboard/summary — KPIs del mes, cartera, ocupación y top deudores.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summary, err := h.uc.GetSummary(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}
