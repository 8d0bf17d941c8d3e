package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	domleasing "github.com/tu-usuario/arriendo-pro/internal/domain/leasing"
)

const (
	companyID  = "co-00000000-0000-0000-0000-000000000001"
	customerID = "cu-00000000-0000-0000-0000-000000000001"
	unitID     = "un-00000000-0000-0000-0000-000000000001"
)

// billingEnv agrupa fakes y use cases listos para un escenario de facturación.
type billingEnv struct {
	customers   *memCustomerRepo
	invoices    *memInvoiceRepo
	receipts    *memReceiptRepo
	leases      *memLeaseRepo
	fiscalYears *memFiscalYearRepo
	events      *capturePublisher
	invoiceUC   *billing.InvoiceUseCase
	receiptUC   *billing.ReceiptUseCase
}

func newBillingEnv(t *testing.T) *billingEnv {
	t.Helper()
	env := &billingEnv{
		customers:   newMemCustomerRepo(),
		invoices:    newMemInvoiceRepo(),
		receipts:    newMemReceiptRepo(),
		leases:      newMemLeaseRepo(),
		fiscalYears: newMemFiscalYearRepo(),
		events:      &capturePublisher{},
	}
	tx := &memTxRunner{invoices: env.invoices, receipts: env.receipts}
	cfg := billing.Config{
		InvoicePrefix: "FA",
		ReceiptPrefix: "RC",
		TaxRate:       decimal.RequireFromString("0.19"),
		DueDays:       10,
	}
	env.invoiceUC = billing.NewInvoiceUseCase(tx, env.leases, env.customers, env.fiscalYears, env.invoices, env.events, cfg)
	env.receiptUC = billing.NewReceiptUseCase(tx, env.customers, env.invoices, env.receipts, env.events, cfg)

	require.NoError(t, env.customers.Create(&entity.Customer{
		ID:        customerID,
		CompanyID: companyID,
		Name:      "Comercializadora La Ceiba",
		TaxID:     "900111222-3",
	}))
	return env
}

// withOpenFiscalYear registra un año fiscal OPEN que cubre la fecha actual.
func (env *billingEnv) withOpenFiscalYear(t *testing.T) {
	t.Helper()
	now := time.Now()
	require.NoError(t, env.fiscalYears.Create(context.Background(), &entity.FiscalYear{
		ID:        "fy-1",
		CompanyID: companyID,
		Label:     now.Format("2006"),
		StartDate: now.AddDate(-1, 0, 0),
		EndDate:   now.AddDate(1, 0, 0),
		Status:    entity.FiscalYearOpen,
	}))
}

// withActiveLease registra un contrato ACTIVE con el canon indicado.
func (env *billingEnv) withActiveLease(t *testing.T, id string, start, end time.Time, rent string) *entity.Lease {
	t.Helper()
	lease := &entity.Lease{
		ID:             id,
		CompanyID:      companyID,
		UnitID:         unitID,
		CustomerID:     customerID,
		ContractNumber: "CT-" + id,
		StartDate:      start,
		EndDate:        end,
		MonthlyRent:    decimal.RequireFromString(rent),
		Deposit:        decimal.Zero,
		Status:         entity.LeaseStatusActive,
	}
	require.NoError(t, env.leases.Create(context.Background(), lease))
	return lease
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrida de facturación
// ──────────────────────────────────────────────────────────────────────────────

func TestBillingRun_EmiteFacturaConCanonCompleto(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	now := time.Now()
	period := now.Format("2006-01")
	env.withActiveLease(t, "l-1", now.AddDate(0, -6, 0), now.AddDate(1, 0, 0), "1500000")

	resp, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: period})
	require.NoError(t, err)

	require.Len(t, resp.Issued, 1, "debe emitirse una factura por el contrato activo")
	inv := resp.Issued[0]
	assert.Equal(t, "FA", inv.Prefix)
	assert.Equal(t, "000001", inv.Number, "el consecutivo arranca en 1 con padding a 6 dígitos")
	assert.Equal(t, period, inv.Period)
	assert.Equal(t, entity.InvoiceStatusIssued, inv.Status)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1500000")),
		"el canon sin cargos adicionales es el total: %s", inv.GrandTotal)
	assert.True(t, inv.Balance.Equal(inv.GrandTotal), "sin pagos, saldo = total")
	assert.Contains(t, env.events.events, billing.EventInvoiceIssued)
}

func TestBillingRun_ProrrateaElPrimerMes(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	now := time.Now()
	period := now.Format("2006-01")
	// Contrato que inicia el día 10 del mes facturado: canon por días.
	start := time.Date(now.Year(), now.Month(), 10, 0, 0, 0, 0, time.Local)
	monthly := decimal.RequireFromString("3100000")
	env.withActiveLease(t, "l-1", start, start.AddDate(1, 0, 0), "3100000")

	resp, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: period})
	require.NoError(t, err)
	require.Len(t, resp.Issued, 1)

	want := domleasing.ProrateFirstPeriod(monthly, start)
	assert.True(t, resp.Issued[0].GrandTotal.Equal(want),
		"canon prorrateado: esperado %s, obtenido %s", want, resp.Issued[0].GrandTotal)
	assert.True(t, resp.Issued[0].GrandTotal.LessThan(monthly),
		"el prorrateo debe ser menor al canon completo")
}

func TestBillingRun_CargoGravadoSumaIVA(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	now := time.Now()
	period := now.Format("2006-01")
	lease := env.withActiveLease(t, "l-1", now.AddDate(0, -3, 0), now.AddDate(1, 0, 0), "1000000")
	require.NoError(t, env.leases.CreateCharge(context.Background(), &entity.LeaseCharge{
		ID:      "ch-1",
		LeaseID: lease.ID,
		Concept: entity.ChargeConceptAdmin,
		Amount:  decimal.RequireFromString("200000"),
		Taxed:   true,
		Active:  true,
	}))

	resp, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: period})
	require.NoError(t, err)
	require.Len(t, resp.Issued, 1)

	inv := resp.Issued[0]
	// Neto = canon + administración; IVA solo sobre el cargo gravado (19%)
	assert.True(t, inv.NetTotal.Equal(decimal.RequireFromString("1200000")), "neto: %s", inv.NetTotal)
	assert.True(t, inv.TaxTotal.Equal(decimal.RequireFromString("38000")), "IVA: %s", inv.TaxTotal)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1238000")), "total: %s", inv.GrandTotal)
}

func TestBillingRun_EsIdempotentePorPeriodo(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	now := time.Now()
	period := now.Format("2006-01")
	env.withActiveLease(t, "l-1", now.AddDate(0, -6, 0), now.AddDate(1, 0, 0), "900000")

	first, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: period})
	require.NoError(t, err)
	require.Len(t, first.Issued, 1)

	second, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: period})
	require.NoError(t, err)
	assert.Empty(t, second.Issued, "la segunda corrida no debe emitir facturas")
	assert.Equal(t, 1, second.Skipped, "el contrato ya facturado se omite")
}

func TestBillingRun_SinAnioFiscalAbierto_Falla(t *testing.T) {
	env := newBillingEnv(t)
	// Sin año fiscal registrado
	now := time.Now()
	env.withActiveLease(t, "l-1", now.AddDate(0, -6, 0), now.AddDate(1, 0, 0), "900000")

	_, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: now.Format("2006-01")})
	assert.ErrorIs(t, err, domain.ErrNoOpenFiscalYear)
}

func TestBillingRun_PeriodoInvalido_Falla(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	_, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: "agosto-2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBillingRun_ContratoSinVigenciaEnElMes_NoFactura(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	now := time.Now()
	// Contrato que terminó hace un año: no entra en la corrida del mes actual.
	env.withActiveLease(t, "l-1", now.AddDate(-2, 0, 0), now.AddDate(-1, 0, 0), "900000")

	resp, err := env.invoiceUC.Run(context.Background(), companyID, dto.BillingRunRequest{Period: now.Format("2006-01")})
	require.NoError(t, err)
	assert.Empty(t, resp.Issued)
	assert.Zero(t, resp.Skipped)
}

// ──────────────────────────────────────────────────────────────────────────────
// Factura manual
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_Manual_CalculaTotalesYSaldo(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenFiscalYear(t)

	now := time.Now()
	lease := env.withActiveLease(t, "l-1", now.AddDate(0, -3, 0), now.AddDate(1, 0, 0), "1000000")

	inv, err := env.invoiceUC.Create(context.Background(), companyID, dto.CreateInvoiceRequest{
		LeaseID: lease.ID,
		Items: []dto.InvoiceItemRequest{
			{
				Concept:   entity.ChargeConceptOther,
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.RequireFromString("50000"),
				Taxed:     true,
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, inv.NetTotal.Equal(decimal.RequireFromString("100000")))
	assert.True(t, inv.TaxTotal.Equal(decimal.RequireFromString("19000")))
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("119000")))
	assert.True(t, inv.Balance.Equal(inv.GrandTotal), "saldo = total − pagado, con pagado en cero")
	assert.Empty(t, inv.Period, "las facturas manuales no llevan período")
}

func TestCreateInvoice_SinAnioFiscalAbierto_Falla(t *testing.T) {
	env := newBillingEnv(t)

	now := time.Now()
	lease := env.withActiveLease(t, "l-1", now.AddDate(0, -3, 0), now.AddDate(1, 0, 0), "1000000")

	_, err := env.invoiceUC.Create(context.Background(), companyID, dto.CreateInvoiceRequest{
		LeaseID: lease.ID,
		Items: []dto.InvoiceItemRequest{
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("50000")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenFiscalYear)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestVoidInvoice_ConPagosAplicados_Falla(t *testing.T) {
	env := newBillingEnv(t)
	require.NoError(t, env.invoices.Create(context.Background(), &entity.Invoice{
		ID:         "inv-1",
		CompanyID:  companyID,
		CustomerID: customerID,
		Prefix:     "FA",
		Number:     "000001",
		GrandTotal: decimal.RequireFromString("100000"),
		PaidTotal:  decimal.RequireFromString("40000"),
		Status:     entity.InvoiceStatusPartial,
	}))

	_, err := env.invoiceUC.Void(context.Background(), companyID, "inv-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "una factura con pagos no se puede anular")
}

func TestVoidInvoice_SinPagos_QuedaVoid(t *testing.T) {
	env := newBillingEnv(t)
	require.NoError(t, env.invoices.Create(context.Background(), &entity.Invoice{
		ID:         "inv-1",
		CompanyID:  companyID,
		CustomerID: customerID,
		Prefix:     "FA",
		Number:     "000001",
		GrandTotal: decimal.RequireFromString("100000"),
		PaidTotal:  decimal.Zero,
		Status:     entity.InvoiceStatusIssued,
	}))

	out, err := env.invoiceUC.Void(context.Background(), companyID, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusVoid, out.Status)

	stored, _ := env.invoices.GetByID(context.Background(), "inv-1")
	assert.Equal(t, entity.InvoiceStatusVoid, stored.Status, "el estado debe persistirse")
}

func TestVoidInvoice_DeOtraEmpresa_Falla(t *testing.T) {
	env := newBillingEnv(t)
	require.NoError(t, env.invoices.Create(context.Background(), &entity.Invoice{
		ID:         "inv-1",
		CompanyID:  "otra-empresa",
		CustomerID: customerID,
		Status:     entity.InvoiceStatusIssued,
	}))

	_, err := env.invoiceUC.Void(context.Background(), companyID, "inv-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
