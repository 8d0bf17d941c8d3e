package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	appanalytics "github.com/tu-usuario/arriendo-pro/internal/application/analytics"
	"github.com/tu-usuario/arriendo-pro/internal/application/auth"
	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/application/leasing"
	"github.com/tu-usuario/arriendo-pro/internal/application/usecase"
	"github.com/tu-usuario/arriendo-pro/internal/infrastructure/events"
	infrapdf "github.com/tu-usuario/arriendo-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/arriendo-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/arriendo-pro/internal/interfaces/http"
	"github.com/tu-usuario/arriendo-pro/pkg/config"
	"github.com/tu-usuario/arriendo-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Migraciones embebidas (goose): idempotentes en cada arranque.
	if err := postgres.UpMigrations(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones de base de datos")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	leaseRepo := postgres.NewLeaseRepository(pool)
	fiscalYearRepo := postgres.NewFiscalYearRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Publicador de eventos: Kafka si hay brokers, no-op si no.
	var publisher billing.EventPublisher
	if cfg.Kafka.Brokers != "" {
		kafkaPub := events.NewKafkaPublisher(log, strings.Split(cfg.Kafka.Brokers, ","), cfg.Kafka.Topic)
		defer kafkaPub.Close()
		publisher = kafkaPub
		log.Info().Str("topic", cfg.Kafka.Topic).Msg("eventos de facturación hacia Kafka")
	} else {
		publisher = events.NewNopPublisher()
	}

	taxRate, err := decimal.NewFromString(cfg.Billing.TaxRate)
	if err != nil {
		log.Fatal().Err(err).Str("tax_rate", cfg.Billing.TaxRate).Msg("BILLING_TAX_RATE inválido")
	}
	billingCfg := billing.Config{
		InvoicePrefix: cfg.Billing.InvoicePrefix,
		ReceiptPrefix: cfg.Billing.ReceiptPrefix,
		TaxRate:       taxRate,
		DueDays:       cfg.Billing.DueDays,
	}

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	fiscalYearUC := usecase.NewFiscalYearUseCase(fiscalYearRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	unitUC := leasing.NewUnitUseCase(unitRepo)
	leaseUC := leasing.NewLeaseUseCase(leaseRepo, unitRepo, customerRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo, invoiceRepo, receiptRepo)
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, leaseRepo, customerRepo, fiscalYearRepo, invoiceRepo, publisher, billingCfg,
	)
	receiptUC := billing.NewReceiptUseCase(
		txRunner, customerRepo, invoiceRepo, receiptRepo, publisher, billingCfg,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	// PDF: representación gráfica de facturas y recibos de caja
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(
		invoiceRepo, receiptRepo, companyRepo, customerRepo, pdfGenerator, pdfGenerator,
	)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ArriendoPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:    companyUC,
		FiscalYearUC: fiscalYearUC,
		ModuleSvc:    moduleSvc,
		UnitUC:       unitUC,
		LeaseUC:      leaseUC,
		CustomerUC:   customerUC,
		InvoiceUC:    invoiceUC,
		ReceiptUC:    receiptUC,
		PDFUC:        pdfUC,
		DashboardUC:  dashboardUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
