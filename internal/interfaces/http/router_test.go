package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Facturacion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// newAPI arma la API completa sobre el store en memoria.
func newAPI() *fiber.App {
	store := memory.New()
	deps := usecase.Deps{Tx: store, Pipeline: pipeline.Default(logger.Nop())}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(store, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:     usecase.NewUserUseCase(deps),
		CompanyUC:  usecase.NewCompanyUseCase(deps),
		ClientUC:   usecase.NewClientUseCase(deps),
		ProductUC:  usecase.NewProductUseCase(deps),
		InvoiceUC:  billing.NewInvoiceUseCase(deps),
		EstimateUC: billing.NewEstimateUseCase(deps),
		PaymentUC:  billing.NewPaymentUseCase(deps),
		InvoicePDF: billing.NewPDFUseCase(deps, infrapdf.NewMarotoPDFGenerator()),
		SummaryUC:  analytics.NewSummaryUseCase(deps),
	})
	return app
}

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (a apiClient) do(method, path string, body any) (int, []byte) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out
}

func (a apiClient) json(method, path string, body any, wantStatus int) map[string]any {
	a.t.Helper()
	status, raw := a.do(method, path, body)
	require.Equal(a.t, wantStatus, status, string(raw))
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out))
	}
	return out
}

// signUp registra y hace login; devuelve un cliente autenticado.
func signUp(t *testing.T, app *fiber.App, email string) apiClient {
	t.Helper()
	anon := apiClient{t: t, app: app}
	anon.json(http.MethodPost, "/api/auth/register", map[string]any{"email": email, "password": "supersecreto"}, http.StatusCreated)
	login := anon.json(http.MethodPost, "/api/auth/login", map[string]any{"email": email, "password": "supersecreto"}, http.StatusOK)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)
	return apiClient{t: t, app: app, token: token}
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	status, _ := apiClient{t: t, app: newAPI()}.do(http.MethodGet, "/api/companies", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_Me_DevuelveElUsuario(t *testing.T) {
	app := newAPI()
	ana := signUp(t, app, "ana@x.io")
	me := ana.json(http.MethodGet, "/api/me", nil, http.StatusOK)
	assert.Equal(t, "ana@x.io", me["email"])
	assert.Equal(t, "active", me["status"])
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	app := newAPI()
	signUp(t, app, "ana@x.io")
	out := apiClient{t: t, app: app}.json(http.MethodPost, "/api/auth/login",
		map[string]any{"email": "ana@x.io", "password": "incorrecta"}, http.StatusUnauthorized)
	assert.Equal(t, "UNAUTHORIZED", out["code"])
}

func TestAPI_RegistroDuplicado_409(t *testing.T) {
	app := newAPI()
	signUp(t, app, "ana@x.io")
	out := apiClient{t: t, app: app}.json(http.MethodPost, "/api/auth/register",
		map[string]any{"email": "ANA@x.io", "password": "supersecreto"}, http.StatusConflict)
	assert.Equal(t, "EMAIL_EXISTS", out["code"])
}

func TestAPI_FlujoFacturacion(t *testing.T) {
	app := newAPI()
	ana := signUp(t, app, "ana@x.io")

	company := ana.json(http.MethodPost, "/api/companies", map[string]any{"name": "Acme"}, http.StatusCreated)
	base := "/api/companies/" + company["id"].(string)

	client := ana.json(http.MethodPost, base+"/clients", map[string]any{"name": "Cliente", "email": "c@x.io"}, http.StatusCreated)
	product := ana.json(http.MethodPost, base+"/products", map[string]any{"name": "Horas", "price": "12.50"}, http.StatusCreated)

	inv := ana.json(http.MethodPost, base+"/invoices", map[string]any{
		"client_id":  client["id"],
		"issue_date": "2026-03-01",
		"due_date":   "2026-03-31",
		"lines":      []map[string]any{{"product_id": product["id"], "quantity": "2"}},
	}, http.StatusCreated)
	assert.Equal(t, "INV-000001", inv["number"])
	assert.Equal(t, "25", inv["total"])
	invPath := base + "/invoices/" + inv["id"].(string)

	pay := ana.json(http.MethodPost, invPath+"/payments", map[string]any{"amount": "10", "method": "cash"}, http.StatusCreated)
	payments := ana.json(http.MethodGet, invPath+"/payments", nil, http.StatusOK)
	assert.Equal(t, "15", payments["balance"])

	over := ana.json(http.MethodPost, invPath+"/payments", map[string]any{"amount": "100"}, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION", over["code"])

	status, raw := ana.do(http.MethodGet, invPath+"/pdf", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	status, _ = ana.do(http.MethodDelete, invPath+"/payments/"+pay["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, status)

	conflict := ana.json(http.MethodDelete, base+"/clients/"+client["id"].(string), nil, http.StatusConflict)
	assert.Equal(t, "CONFLICT", conflict["code"])

	summary := ana.json(http.MethodGet, base+"/summary", nil, http.StatusOK)
	assert.EqualValues(t, 1, summary["invoices"])
	assert.Equal(t, "25", summary["outstanding"])

	status, _ = ana.do(http.MethodDelete, invPath, nil)
	assert.Equal(t, http.StatusNoContent, status)
	gone := ana.json(http.MethodGet, invPath, nil, http.StatusNotFound)
	assert.Equal(t, "INVOICE_NOT_FOUND", gone["code"])
}

func TestAPI_Cotizacion_Convertir(t *testing.T) {
	app := newAPI()
	ana := signUp(t, app, "ana@x.io")
	company := ana.json(http.MethodPost, "/api/companies", map[string]any{"name": "Acme"}, http.StatusCreated)
	base := "/api/companies/" + company["id"].(string)
	client := ana.json(http.MethodPost, base+"/clients", map[string]any{"name": "Cliente", "email": "c@x.io"}, http.StatusCreated)
	product := ana.json(http.MethodPost, base+"/products", map[string]any{"name": "Horas", "price": "10"}, http.StatusCreated)

	est := ana.json(http.MethodPost, base+"/estimates", map[string]any{
		"client_id":   client["id"],
		"issue_date":  "2026-03-01",
		"valid_until": "2026-03-15",
		"lines":       []map[string]any{{"product_id": product["id"], "quantity": "3"}},
	}, http.StatusCreated)
	estPath := base + "/estimates/" + est["id"].(string)

	inv := ana.json(http.MethodPost, estPath+"/convert", map[string]any{"issue_date": "2026-03-05", "due_date": "2026-04-05"}, http.StatusCreated)
	assert.Equal(t, "30", inv["total"])
	assert.Equal(t, "INV-000001", inv["number"])

	again := ana.json(http.MethodPost, estPath+"/convert", nil, http.StatusConflict)
	assert.Equal(t, "CONFLICT", again["code"])
}

func TestAPI_AislamientoEntreUsuarios(t *testing.T) {
	app := newAPI()
	ana := signUp(t, app, "ana@x.io")
	beto := signUp(t, app, "beto@x.io")

	company := ana.json(http.MethodPost, "/api/companies", map[string]any{"name": "Acme"}, http.StatusCreated)
	base := "/api/companies/" + company["id"].(string)

	out := beto.json(http.MethodGet, base, nil, http.StatusNotFound)
	assert.Equal(t, "COMPANY_NOT_FOUND", out["code"])
	out = beto.json(http.MethodPost, base+"/clients", map[string]any{"name": "X", "email": "x@x.io"}, http.StatusNotFound)
	assert.Equal(t, "COMPANY_NOT_FOUND", out["code"])

	list := beto.json(http.MethodGet, "/api/companies", nil, http.StatusOK)
	assert.Empty(t, list["items"])
}

func TestAPI_ValidacionDeCampos(t *testing.T) {
	app := newAPI()
	ana := signUp(t, app, "ana@x.io")
	company := ana.json(http.MethodPost, "/api/companies", map[string]any{"name": "Acme"}, http.StatusCreated)

	out := ana.json(http.MethodPost, "/api/companies/"+company["id"].(string)+"/clients",
		map[string]any{"name": "Sin email"}, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION", out["code"])
	fields, _ := out["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]any)["field"])

	status, _ := ana.do(http.MethodPost, "/api/companies", "{no-es-json")
	assert.Equal(t, http.StatusBadRequest, status)
}
