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
)

// withOpenInvoice registra una factura ISSUED del cliente de prueba.
func (env *billingEnv) withOpenInvoice(t *testing.T, id, number, total string, date time.Time) {
	t.Helper()
	require.NoError(t, env.invoices.Create(context.Background(), &entity.Invoice{
		ID:         id,
		CompanyID:  companyID,
		CustomerID: customerID,
		Prefix:     "FA",
		Number:     number,
		Date:       date,
		DueDate:    date.AddDate(0, 0, 10),
		NetTotal:   decimal.RequireFromString(total),
		GrandTotal: decimal.RequireFromString(total),
		PaidTotal:  decimal.Zero,
		Status:     entity.InvoiceStatusIssued,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestPostReceipt_FIFO_AplicaDeLaMasAntiguaALaMasReciente(t *testing.T) {
	env := newBillingEnv(t)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	env.withOpenInvoice(t, "inv-vieja", "000001", "100000", base)
	env.withOpenInvoice(t, "inv-nueva", "000002", "200000", base.AddDate(0, 1, 0))

	// 150.000: cubre la factura vieja completa y 50.000 de la nueva
	out, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ReceiptStatusPosted, out.Status)
	assert.Equal(t, "000001", out.Number, "el consecutivo de recibos arranca en 1")
	require.Len(t, out.Allocations, 2)
	assert.Equal(t, "inv-vieja", out.Allocations[0].InvoiceID, "primero la factura más antigua")
	assert.True(t, out.Allocations[0].Amount.Equal(decimal.RequireFromString("100000")))
	assert.Equal(t, "inv-nueva", out.Allocations[1].InvoiceID)
	assert.True(t, out.Allocations[1].Amount.Equal(decimal.RequireFromString("50000")))

	ctx := context.Background()
	vieja, _ := env.invoices.GetByID(ctx, "inv-vieja")
	assert.Equal(t, entity.InvoiceStatusPaid, vieja.Status, "la antigua queda saldada")
	assert.True(t, vieja.Balance().IsZero())

	nueva, _ := env.invoices.GetByID(ctx, "inv-nueva")
	assert.Equal(t, entity.InvoiceStatusPartial, nueva.Status)
	assert.True(t, nueva.Balance().Equal(decimal.RequireFromString("150000")),
		"saldo = total − pagado: %s", nueva.Balance())

	assert.Contains(t, env.events.events, billing.EventReceiptPosted)
}

func TestPostReceipt_FIFO_PagoMayorALaDeuda_Rechazado(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))

	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodCash,
		Amount:     decimal.RequireFromString("130000"),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsDebt,
		"el sistema no maneja saldos a favor: el remanente rechaza el recibo")

	receipts, _ := env.receipts.ListByCompany(context.Background(), companyID, 20, 0)
	assert.Empty(t, receipts, "no debe persistirse ningún recibo")
}

func TestPostReceipt_AplicaConLecturaBloqueante(t *testing.T) {
	env := newBillingEnv(t)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", base)
	env.withOpenInvoice(t, "inv-2", "000002", "200000", base.AddDate(0, 1, 0))

	// FIFO: cada factura candidata se relee con bloqueo antes de aplicarle pago
	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, env.invoices.lockedReads,
		"cada factura tocada se lee con bloqueo de fila dentro de la transacción")

	// Aplicación explícita: misma regla
	env.invoices.lockedReads = 0
	env.withOpenInvoice(t, "inv-3", "000003", "80000", base.AddDate(0, 2, 0))
	_, err = env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodCash,
		Amount:     decimal.RequireFromString("80000"),
		Allocations: []dto.ReceiptAllocationRequest{
			{InvoiceID: "inv-3", Amount: decimal.RequireFromString("80000")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.invoices.lockedReads)
}

func TestVoidReceipt_RevierteConLecturaBloqueante(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))

	posted, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("100000"),
	})
	require.NoError(t, err)

	env.invoices.lockedReads = 0
	_, err = env.receiptUC.Void(context.Background(), companyID, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.invoices.lockedReads,
		"el reverso también lee la factura con bloqueo de fila")
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicaciones explícitas
// ──────────────────────────────────────────────────────────────────────────────

func TestPostReceipt_Explicito_LaSumaDebeSerExacta(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))

	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("80000"),
		Allocations: []dto.ReceiptAllocationRequest{
			{InvoiceID: "inv-1", Amount: decimal.RequireFromString("50000")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"las aplicaciones explícitas deben sumar exactamente el monto del recibo")
}

func TestPostReceipt_Explicito_NoPuedeExcederElSaldo(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))

	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("120000"),
		Allocations: []dto.ReceiptAllocationRequest{
			{InvoiceID: "inv-1", Amount: decimal.RequireFromString("120000")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsDebt)
}

func TestPostReceipt_Explicito_FacturaAnuladaNoAdmitePagos(t *testing.T) {
	env := newBillingEnv(t)
	require.NoError(t, env.invoices.Create(context.Background(), &entity.Invoice{
		ID:         "inv-void",
		CompanyID:  companyID,
		CustomerID: customerID,
		GrandTotal: decimal.RequireFromString("100000"),
		Status:     entity.InvoiceStatusVoid,
	}))

	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodCard,
		Amount:     decimal.RequireFromString("100000"),
		Allocations: []dto.ReceiptAllocationRequest{
			{InvoiceID: "inv-void", Amount: decimal.RequireFromString("100000")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotOpen)
}

func TestPostReceipt_MedioDePagoInvalido_Falla(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     "bitcoin",
		Amount:     decimal.RequireFromString("100000"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostReceipt_ClienteDeOtraEmpresa_Falla(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.receiptUC.Post(context.Background(), "otra-empresa", dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodCash,
		Amount:     decimal.RequireFromString("100000"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación de recibos
// ──────────────────────────────────────────────────────────────────────────────

func TestVoidReceipt_RestauraLosSaldosDeLasFacturas(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))

	posted, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("100000"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	paid, _ := env.invoices.GetByID(ctx, "inv-1")
	require.Equal(t, entity.InvoiceStatusPaid, paid.Status)

	voided, err := env.receiptUC.Void(ctx, companyID, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusVoid, voided.Status)

	restored, _ := env.invoices.GetByID(ctx, "inv-1")
	assert.Equal(t, entity.InvoiceStatusIssued, restored.Status, "el reverso restaura el estado")
	assert.True(t, restored.Balance().Equal(restored.GrandTotal), "el saldo vuelve al total")

	assert.Contains(t, env.events.events, billing.EventReceiptVoided)
}

func TestVoidReceipt_YaAnulado_Falla(t *testing.T) {
	env := newBillingEnv(t)
	env.withOpenInvoice(t, "inv-1", "000001", "100000", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))

	posted, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodTransfer,
		Amount:     decimal.RequireFromString("100000"),
	})
	require.NoError(t, err)

	_, err = env.receiptUC.Void(context.Background(), companyID, posted.ID)
	require.NoError(t, err)

	_, err = env.receiptUC.Void(context.Background(), companyID, posted.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "anular dos veces no es válido")
}

func TestPostReceipt_FechaInvalida_Falla(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.receiptUC.Post(context.Background(), companyID, dto.CreateReceiptRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodCash,
		Amount:     decimal.RequireFromString("50000"),
		Date:       "23/08/2026",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
