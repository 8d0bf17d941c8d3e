package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/arriendo-pro/internal/application/analytics"
	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/application/leasing"
	"github.com/tu-usuario/arriendo-pro/internal/application/usecase"
)

// Modos soportados por el endpoint RPC legacy. Los números se mantienen
// compatibles con los clientes existentes que consumen la API por "mode".
const (
	ModeCustomerList     = 1
	ModeCustomerCreate   = 2
	ModeCustomerGet      = 3
	ModeUnitList         = 10
	ModeLeaseList        = 20
	ModeInvoiceGet       = 30
	ModeInvoiceList      = 31
	ModeReceiptPost      = 40
	ModeFiscalYearList   = 50
	ModeDashboardSummary = 60
)

// RPCRequest sobre `{mode, parameters}` del cliente legacy.
type RPCRequest struct {
	Mode       int             `json:"mode"`
	Parameters json.RawMessage `json:"parameters"`
}

// RPCResponse sobre de respuesta. El cliente legacy solo inspecciona success
// y message; los errores de negocio viajan con HTTP 200 y success=false.
type RPCResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RPCHandler expone las operaciones de negocio detrás del sobre `{mode, parameters}`.
// Es una fachada sobre los mismos use cases que sirven la API REST.
type RPCHandler struct {
	customerUC   *billing.CustomerUseCase
	unitUC       *leasing.UnitUseCase
	leaseUC      *leasing.LeaseUseCase
	invoiceUC    *billing.InvoiceUseCase
	receiptUC    *billing.ReceiptUseCase
	fiscalYearUC *usecase.FiscalYearUseCase
	dashboardUC  *analytics.DashboardUseCase
}

// NewRPCHandler construye el handler RPC.
func NewRPCHandler(
	customerUC *billing.CustomerUseCase,
	unitUC *leasing.UnitUseCase,
	leaseUC *leasing.LeaseUseCase,
	invoiceUC *billing.InvoiceUseCase,
	receiptUC *billing.ReceiptUseCase,
	fiscalYearUC *usecase.FiscalYearUseCase,
	dashboardUC *analytics.DashboardUseCase,
) *RPCHandler {
	return &RPCHandler{
		customerUC:   customerUC,
		unitUC:       unitUC,
		leaseUC:      leaseUC,
		invoiceUC:    invoiceUC,
		receiptUC:    receiptUC,
		fiscalYearUC: fiscalYearUC,
		dashboardUC:  dashboardUC,
	}
}

// rpcPageParams parámetros comunes de paginación en el sobre.
type rpcPageParams struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Status string `json:"status,omitempty"`
}

// rpcIDParams parámetros de operaciones por identificador.
type rpcIDParams struct {
	ID string `json:"id"`
}

// Dispatch POST /api/rpc — despacha el modo al use case correspondiente.
// Un modo desconocido NO es un error HTTP: responde 200 con success=false,
// igual que hacía el backend que los clientes legacy ya consumen.
func (h *RPCHandler) Dispatch(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req RPCRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(RPCResponse{Success: false, Message: "cuerpo inválido: se espera {mode, parameters}"})
	}

	data, err := h.dispatch(c, companyID, req)
	if err != nil {
		return c.JSON(RPCResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(RPCResponse{Success: true, Message: "ok", Data: data})
}

func (h *RPCHandler) dispatch(c *fiber.Ctx, companyID string, req RPCRequest) (any, error) {
	switch req.Mode {
	case ModeCustomerList:
		var p rpcPageParams
		unmarshalParams(req.Parameters, &p)
		return h.customerUC.List(companyID, p.Limit, p.Offset)

	case ModeCustomerCreate:
		var in dto.CreateCustomerRequest
		if err := json.Unmarshal(req.Parameters, &in); err != nil {
			return nil, fmt.Errorf("parameters inválidos: %w", err)
		}
		return h.customerUC.Create(companyID, in)

	case ModeCustomerGet:
		var p rpcIDParams
		unmarshalParams(req.Parameters, &p)
		return h.customerUC.GetByID(companyID, p.ID)

	case ModeUnitList:
		var p rpcPageParams
		unmarshalParams(req.Parameters, &p)
		return h.unitUC.List(c.Context(), companyID, p.Limit, p.Offset)

	case ModeLeaseList:
		var p rpcPageParams
		unmarshalParams(req.Parameters, &p)
		return h.leaseUC.List(c.Context(), companyID, p.Status, p.Limit, p.Offset)

	case ModeInvoiceGet:
		var p rpcIDParams
		unmarshalParams(req.Parameters, &p)
		return h.invoiceUC.GetInvoice(c.Context(), companyID, p.ID)

	case ModeInvoiceList:
		var p rpcPageParams
		unmarshalParams(req.Parameters, &p)
		return h.invoiceUC.List(c.Context(), companyID, p.Status, p.Limit, p.Offset)

	case ModeReceiptPost:
		var in dto.CreateReceiptRequest
		if err := json.Unmarshal(req.Parameters, &in); err != nil {
			return nil, fmt.Errorf("parameters inválidos: %w", err)
		}
		return h.receiptUC.Post(c.Context(), companyID, in)

	case ModeFiscalYearList:
		return h.fiscalYearUC.List(c.Context(), companyID)

	case ModeDashboardSummary:
		return h.dashboardUC.GetSummary(c.Context(), companyID)

	default:
		return nil, fmt.Errorf("modo %d no soportado", req.Mode)
	}
}

// unmarshalParams decodifica parámetros opcionales; un JSON vacío o nulo deja
// la struct en ceros (los use cases aplican sus propios defaults).
func unmarshalParams(raw json.RawMessage, v any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}
