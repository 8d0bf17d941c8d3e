package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	apphttp "github.com/tu-usuario/arriendo-pro/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de repositorio en memoria (solo lo que necesita el RPC de clientes)
// ──────────────────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(id string) error {
	delete(r.customers, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildRPCApp monta el endpoint RPC protegido con un use case de clientes
// respaldado por el fake en memoria. Los demás use cases van en nil: los modos
// bajo prueba no los tocan.
func buildRPCApp() (*fiber.App, *fakeCustomerRepo) {
	repo := newFakeCustomerRepo()
	customerUC := billing.NewCustomerUseCase(repo, nil, nil)
	rpc := apphttp.NewRPCHandler(customerUC, nil, nil, nil, nil, nil, nil)

	app := fiber.New()
	app.Post("/api/rpc", apphttp.AuthMiddleware(testJWTSecret), rpc.Dispatch)
	return app, repo
}

func doRPC(t *testing.T, app *fiber.App, mode int, params any) apphttp.RPCResponse {
	t.Helper()
	body, err := json.Marshal(map[string]any{"mode": mode, "parameters": params})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	// El contrato legacy: errores de negocio viajan con HTTP 200
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out apphttp.RPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRPC_CrearYListarClientes(t *testing.T) {
	app, _ := buildRPCApp()

	created := doRPC(t, app, apphttp.ModeCustomerCreate, map[string]any{
		"name":   "Inversiones El Roble SAS",
		"tax_id": "900123456-7",
		"email":  "pagos@elroble.co",
	})
	require.True(t, created.Success, "crear cliente debe responder success=true: %s", created.Message)
	require.NotNil(t, created.Data)

	listed := doRPC(t, app, apphttp.ModeCustomerList, map[string]any{"limit": 10, "offset": 0})
	require.True(t, listed.Success)

	items, ok := listed.Data.([]any)
	require.True(t, ok, "data debe ser una lista")
	assert.Len(t, items, 1, "debe listar el cliente creado")
}

func TestRPC_ClienteDuplicado_SuccessFalse(t *testing.T) {
	app, _ := buildRPCApp()

	params := map[string]any{"name": "Arrendatario Uno", "tax_id": "1030567890"}
	first := doRPC(t, app, apphttp.ModeCustomerCreate, params)
	require.True(t, first.Success)

	second := doRPC(t, app, apphttp.ModeCustomerCreate, params)
	assert.False(t, second.Success, "tax_id repetido debe responder success=false")
	assert.NotEmpty(t, second.Message)
}

func TestRPC_ModoDesconocido_SuccessFalseConHTTP200(t *testing.T) {
	app, _ := buildRPCApp()

	out := doRPC(t, app, 9999, nil)
	assert.False(t, out.Success, "modo desconocido debe responder success=false")
	assert.Contains(t, out.Message, "9999")
}

func TestRPC_SinToken_Retorna401(t *testing.T) {
	app, _ := buildRPCApp()

	body, _ := json.Marshal(map[string]any{"mode": apphttp.ModeCustomerList})
	req := httptest.NewRequest(http.MethodPost, "/api/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRPC_ParametrosVacios_UsaDefaults(t *testing.T) {
	app, repo := buildRPCApp()
	repo.customers["c1"] = &entity.Customer{ID: "c1", CompanyID: testCompanyID, Name: "Uno", TaxID: "1"}

	out := doRPC(t, app, apphttp.ModeCustomerList, nil)
	require.True(t, out.Success, "parameters nulos deben listarse con defaults")
}
