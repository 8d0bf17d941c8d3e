package leasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/arriendo-pro/internal/application/dto"
	"github.com/tu-usuario/arriendo-pro/internal/application/leasing"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
)

const (
	testCompanyID  = "11111111-aaaa-bbbb-cccc-000000000001"
	testUnitID     = "22222222-aaaa-bbbb-cccc-000000000002"
	testCustomerID = "33333333-aaaa-bbbb-cccc-000000000003"
)

type leasingEnv struct {
	units     *fakeUnitRepo
	leases    *fakeLeaseRepo
	customers *fakeCustomerRepo
	leaseUC   *leasing.LeaseUseCase
	unitUC    *leasing.UnitUseCase
}

func newLeasingEnv(t *testing.T) *leasingEnv {
	t.Helper()
	env := &leasingEnv{
		units:     newFakeUnitRepo(),
		leases:    newFakeLeaseRepo(),
		customers: newFakeCustomerRepo(),
	}
	env.leaseUC = leasing.NewLeaseUseCase(env.leases, env.units, env.customers)
	env.unitUC = leasing.NewUnitUseCase(env.units)

	require.NoError(t, env.units.Create(context.Background(), &entity.Unit{
		ID:        testUnitID,
		CompanyID: testCompanyID,
		Code:      "APT-101",
		Type:      entity.UnitTypeApartment,
		Address:   "Cra 7 # 45-10, Bogotá",
	}))
	require.NoError(t, env.customers.Create(&entity.Customer{
		ID:        testCustomerID,
		CompanyID: testCompanyID,
		Name:      "Inversiones El Nogal SAS",
		TaxID:     "900123456-7",
	}))
	return env
}

func baseLeaseRequest() dto.CreateLeaseRequest {
	return dto.CreateLeaseRequest{
		UnitID:      testUnitID,
		CustomerID:  testCustomerID,
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MonthlyRent: decimal.RequireFromString("2500000"),
		Deposit:     decimal.RequireFromString("2500000"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateLease_QuedaEnBorradorConNumeroGenerado(t *testing.T) {
	env := newLeasingEnv(t)

	out, err := env.leaseUC.Create(context.Background(), testCompanyID, baseLeaseRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.LeaseStatusDraft, out.Status)
	assert.NotEmpty(t, out.ContractNumber)
	assert.Contains(t, out.ContractNumber, "CT-2026-", "el consecutivo lleva el año de inicio")
	assert.Equal(t, "APT-101", out.UnitCode)
	assert.Equal(t, "Inversiones El Nogal SAS", out.CustomerName)
}

func TestCreateLease_ConservaElNumeroDeContratoEnviado(t *testing.T) {
	env := newLeasingEnv(t)

	in := baseLeaseRequest()
	in.ContractNumber = "CT-2026-MANUAL"
	out, err := env.leaseUC.Create(context.Background(), testCompanyID, in)
	require.NoError(t, err)
	assert.Equal(t, "CT-2026-MANUAL", out.ContractNumber)
}

func TestCreateLease_FinAnteriorAlInicio_Falla(t *testing.T) {
	env := newLeasingEnv(t)

	in := baseLeaseRequest()
	in.StartDate = "2026-12-31"
	in.EndDate = "2026-01-01"
	_, err := env.leaseUC.Create(context.Background(), testCompanyID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateLease_CanonCero_Falla(t *testing.T) {
	env := newLeasingEnv(t)

	in := baseLeaseRequest()
	in.MonthlyRent = decimal.Zero
	_, err := env.leaseUC.Create(context.Background(), testCompanyID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateLease_UnidadDeOtraEmpresa_Falla(t *testing.T) {
	env := newLeasingEnv(t)

	_, err := env.leaseUC.Create(context.Background(), "otra-empresa", baseLeaseRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateLease_ConCargosIniciales(t *testing.T) {
	env := newLeasingEnv(t)

	in := baseLeaseRequest()
	in.Charges = []dto.LeaseChargeRequest{
		{Concept: entity.ChargeConceptAdmin, Description: "Cuota de administración", Amount: decimal.RequireFromString("350000"), Taxed: true},
		{Concept: entity.ChargeConceptParking, Amount: decimal.RequireFromString("150000")},
	}
	out, err := env.leaseUC.Create(context.Background(), testCompanyID, in)
	require.NoError(t, err)
	require.Len(t, out.Charges, 2)
	assert.True(t, out.Charges[0].Active, "los cargos nacen activos")
	assert.True(t, out.Charges[0].Taxed)
	assert.False(t, out.Charges[1].Taxed)
}

func TestCreateLease_CargoConConceptoInvalido_Falla(t *testing.T) {
	env := newLeasingEnv(t)

	in := baseLeaseRequest()
	in.Charges = []dto.LeaseChargeRequest{
		{Concept: entity.ChargeConceptAdmin, Amount: decimal.RequireFromString("350000")},
		{Concept: "GIMNASIO", Amount: decimal.RequireFromString("50000")},
	}
	_, err := env.leaseUC.Create(context.Background(), testCompanyID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Nada queda a medias: ni el contrato ni el cargo válido que lo acompañaba
	assert.Empty(t, env.leases.byID, "no debe persistirse ningún contrato")
	assert.Empty(t, env.leases.charges, "no debe persistirse ningún cargo")
}

func TestCreateLease_CargoConMontoCero_NoPersisteNada(t *testing.T) {
	env := newLeasingEnv(t)

	in := baseLeaseRequest()
	in.Charges = []dto.LeaseChargeRequest{
		{Concept: entity.ChargeConceptParking, Amount: decimal.Zero},
	}
	_, err := env.leaseUC.Create(context.Background(), testCompanyID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, env.leases.byID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Activación
// ──────────────────────────────────────────────────────────────────────────────

func TestActivateLease_DeBorradorAActivo(t *testing.T) {
	env := newLeasingEnv(t)
	created, err := env.leaseUC.Create(context.Background(), testCompanyID, baseLeaseRequest())
	require.NoError(t, err)

	out, err := env.leaseUC.Activate(context.Background(), testCompanyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LeaseStatusActive, out.Status)

	stored, _ := env.leases.GetByID(context.Background(), created.ID)
	assert.Equal(t, entity.LeaseStatusActive, stored.Status)
}

func TestActivateLease_ConVigenciaSolapada_Falla(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	primero, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, primero.ID)
	require.NoError(t, err)

	// Segundo contrato sobre la misma unidad con fechas que se cruzan
	in := baseLeaseRequest()
	in.StartDate = "2026-06-01"
	in.EndDate = "2027-05-31"
	segundo, err := env.leaseUC.Create(ctx, testCompanyID, in)
	require.NoError(t, err, "varios borradores pueden convivir")

	_, err = env.leaseUC.Activate(ctx, testCompanyID, segundo.ID)
	assert.ErrorIs(t, err, domain.ErrDateOverlap)
}

func TestActivateLease_NoEsBorrador_Falla(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	created, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, created.ID)
	require.NoError(t, err)

	_, err = env.leaseUC.Activate(ctx, testCompanyID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Terminación
// ──────────────────────────────────────────────────────────────────────────────

func TestTerminateLease_RecortaLaVigencia(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	created, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, created.ID)
	require.NoError(t, err)

	out, err := env.leaseUC.Terminate(ctx, testCompanyID, created.ID, dto.TerminateLeaseRequest{
		TerminationDate: "2026-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.LeaseStatusTerminated, out.Status)
	assert.Equal(t, "2026-06-30", out.EndDate, "la fecha efectiva recorta la vigencia")
	assert.Equal(t, "2026-06-30", out.TerminatedAt)
}

func TestTerminateLease_EnBorrador_Falla(t *testing.T) {
	env := newLeasingEnv(t)
	created, err := env.leaseUC.Create(context.Background(), testCompanyID, baseLeaseRequest())
	require.NoError(t, err)

	_, err = env.leaseUC.Terminate(context.Background(), testCompanyID, created.ID, dto.TerminateLeaseRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTerminateLease_FechaAnteriorAlInicio_Falla(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	created, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, created.ID)
	require.NoError(t, err)

	_, err = env.leaseUC.Terminate(ctx, testCompanyID, created.ID, dto.TerminateLeaseRequest{
		TerminationDate: "2025-12-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conceptos de cobro
// ──────────────────────────────────────────────────────────────────────────────

func TestAddCharge_SobreContratoActivo(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	created, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, created.ID)
	require.NoError(t, err)

	charge, err := env.leaseUC.AddCharge(ctx, testCompanyID, created.ID, dto.LeaseChargeRequest{
		Concept: entity.ChargeConceptAdmin,
		Amount:  decimal.RequireFromString("350000"),
		Taxed:   true,
	})
	require.NoError(t, err)
	assert.True(t, charge.Active)
	assert.Equal(t, entity.ChargeConceptAdmin, charge.Concept)
}

func TestAddCharge_SobreContratoTerminado_Falla(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	created, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, created.ID)
	require.NoError(t, err)
	_, err = env.leaseUC.Terminate(ctx, testCompanyID, created.ID, dto.TerminateLeaseRequest{})
	require.NoError(t, err)

	_, err = env.leaseUC.AddCharge(ctx, testCompanyID, created.ID, dto.LeaseChargeRequest{
		Concept: entity.ChargeConceptOther,
		Amount:  decimal.RequireFromString("100000"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSetChargeActive_DesactivaSinBorrar(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	in := baseLeaseRequest()
	in.Charges = []dto.LeaseChargeRequest{
		{Concept: entity.ChargeConceptParking, Amount: decimal.RequireFromString("150000")},
	}
	created, err := env.leaseUC.Create(ctx, testCompanyID, in)
	require.NoError(t, err)
	chargeID := created.Charges[0].ID

	out, err := env.leaseUC.SetChargeActive(ctx, testCompanyID, created.ID, chargeID, false)
	require.NoError(t, err)
	assert.False(t, out.Active)

	charges, _ := env.leases.ListChargesByLease(ctx, created.ID)
	require.Len(t, charges, 1, "desactivar no borra el cargo")
	assert.False(t, charges[0].Active)
}

func TestSetChargeActive_CargoInexistente_Falla(t *testing.T) {
	env := newLeasingEnv(t)
	created, err := env.leaseUC.Create(context.Background(), testCompanyID, baseLeaseRequest())
	require.NoError(t, err)

	_, err = env.leaseUC.SetChargeActive(context.Background(), testCompanyID, created.ID, "no-existe", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestListLeases_FiltraPorEstado(t *testing.T) {
	env := newLeasingEnv(t)
	ctx := context.Background()

	primero, err := env.leaseUC.Create(ctx, testCompanyID, baseLeaseRequest())
	require.NoError(t, err)
	_, err = env.leaseUC.Activate(ctx, testCompanyID, primero.ID)
	require.NoError(t, err)

	in := baseLeaseRequest()
	in.StartDate = "2027-01-01"
	in.EndDate = "2027-12-31"
	_, err = env.leaseUC.Create(ctx, testCompanyID, in)
	require.NoError(t, err)

	activos, err := env.leaseUC.List(ctx, testCompanyID, entity.LeaseStatusActive, 20, 0)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := env.leaseUC.List(ctx, testCompanyID, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
