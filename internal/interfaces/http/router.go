package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/arriendo-pro/internal/application/analytics"
	"github.com/tu-usuario/arriendo-pro/internal/application/auth"
	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/application/leasing"
	"github.com/tu-usuario/arriendo-pro/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	FiscalYearUC *usecase.FiscalYearUseCase
	ModuleSvc    *usecase.ModuleService
	UnitUC       *leasing.UnitUseCase
	LeaseUC      *leasing.LeaseUseCase
	CustomerUC   *billing.CustomerUseCase
	InvoiceUC    *billing.InvoiceUseCase
	ReceiptUC    *billing.ReceiptUseCase
	PDFUC        *billing.PDFUseCase
	DashboardUC  *analytics.DashboardUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Fiscal years (protegido; cerrar el año es de admin/contador)
	fiscalYears := protected.Group("/fiscal-years")
	fiscalYearHandler := NewFiscalYearHandler(deps.FiscalYearUC)
	fiscalYears.Post("/", RequireRole("admin", "contador"), fiscalYearHandler.Create)
	fiscalYears.Get("/", fiscalYearHandler.List)
	fiscalYears.Get("/:id", fiscalYearHandler.GetByID)
	fiscalYears.Post("/:id/close", RequireRole("admin", "contador"), fiscalYearHandler.Close)

	// Units (protegido, módulo leasing)
	units := protected.Group("/units", RequireModule("leasing", deps.ModuleSvc))
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", unitHandler.Update)

	// Leases (protegido, módulo leasing)
	leases := protected.Group("/leases", RequireModule("leasing", deps.ModuleSvc))
	leaseHandler := NewLeaseHandler(deps.LeaseUC)
	leases.Post("/", leaseHandler.Create)
	leases.Get("/", leaseHandler.List)
	leases.Get("/:id", leaseHandler.GetByID)
	leases.Post("/:id/activate", leaseHandler.Activate)
	leases.Post("/:id/terminate", RequireRole("admin", "gestor"), leaseHandler.Terminate)
	leases.Post("/:id/charges", leaseHandler.AddCharge)
	leases.Patch("/:id/charges/:chargeId", leaseHandler.SetChargeActive)

	// Customers (protegido, módulo billing)
	customers := protected.Group("/customers", RequireModule("billing", deps.ModuleSvc))
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", RequireRole("admin"), customerHandler.Delete)
	customers.Get("/:id/statement", customerHandler.Statement)

	// Invoices (protegido, módulo billing)
	invoices := protected.Group("/invoices", RequireModule("billing", deps.ModuleSvc))
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/run", RequireRole("admin", "contador"), invoiceHandler.Run)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/void", RequireRole("admin", "contador"), invoiceHandler.Void)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Receipts (protegido, módulo billing)
	receipts := protected.Group("/receipts", RequireModule("billing", deps.ModuleSvc))
	receiptHandler := NewReceiptHandler(deps.ReceiptUC, deps.PDFUC)
	receipts.Post("/", receiptHandler.Post)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Post("/:id/void", RequireRole("admin", "contador"), receiptHandler.Void)
	receipts.Get("/:id/pdf", receiptHandler.DownloadPDF)

	// Dashboard (protegido, módulo analytics)
	dashboard := protected.Group("/dashboard", RequireModule("analytics", deps.ModuleSvc))
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)

	// RPC legacy `{mode, parameters}` (protegido; mismos use cases que la API REST)
	rpcHandler := NewRPCHandler(
		deps.CustomerUC, deps.UnitUC, deps.LeaseUC,
		deps.InvoiceUC, deps.ReceiptUC, deps.FiscalYearUC, deps.DashboardUC,
	)
	protected.Post("/rpc", rpcHandler.Dispatch)
}
