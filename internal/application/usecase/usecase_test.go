package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

type env struct {
	deps      usecase.Deps
	companies *usecase.CompanyUseCase
	clients   *usecase.ClientUseCase
	products  *usecase.ProductUseCase
	invoices  *billing.InvoiceUseCase
	asU       context.Context
	asV       context.Context
}

// newEnv usuarios U y V registrados en un store en memoria.
func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	err := store.Run(context.Background(), func(s repository.Store) error {
		if err := s.Users().Create(context.Background(), &entity.User{ID: "U", Email: "u@x.io", Status: entity.UserStatusActive}); err != nil {
			return err
		}
		return s.Users().Create(context.Background(), &entity.User{ID: "V", Email: "v@x.io", Status: entity.UserStatusActive})
	})
	require.NoError(t, err)

	deps := usecase.Deps{
		Tx:       store,
		Pipeline: pipeline.Default(logger.Nop()),
		Now:      func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
	return &env{
		deps:      deps,
		companies: usecase.NewCompanyUseCase(deps),
		clients:   usecase.NewClientUseCase(deps),
		products:  usecase.NewProductUseCase(deps),
		invoices:  billing.NewInvoiceUseCase(deps),
		asU:       identity.WithCaller(context.Background(), identity.Caller{UserID: "U"}),
		asV:       identity.WithCaller(context.Background(), identity.Caller{UserID: "V"}),
	}
}

func (e *env) company(t *testing.T, ctx context.Context, name string) string {
	t.Helper()
	c, err := e.companies.Create(ctx, dto.CreateCompanyRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func (e *env) client(t *testing.T, ctx context.Context, companyID string) string {
	t.Helper()
	c, err := e.clients.Create(ctx, dto.CreateClientRequest{CompanyID: companyID, Name: "Cliente", Email: "cliente@x.io"})
	require.NoError(t, err)
	return c.ID
}

func (e *env) product(t *testing.T, ctx context.Context, companyID, price string) string {
	t.Helper()
	p, err := e.products.Create(ctx, dto.CreateProductRequest{CompanyID: companyID, Name: "Servicio", Price: decimal.RequireFromString(price)})
	require.NoError(t, err)
	return p.ID
}

func page() dto.PageRequest { return dto.PageRequest{Limit: 20} }

func TestSinIdentidad_RetornaUnauthenticated(t *testing.T) {
	e := newEnv(t)
	_, err := e.companies.Create(context.Background(), dto.CreateCompanyRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = e.companies.List(context.Background(), dto.ListCompaniesRequest{Page: page()})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUsuarioInexistente(t *testing.T) {
	e := newEnv(t)
	ctx := identity.WithCaller(context.Background(), identity.Caller{UserID: "fantasma"})
	_, err := e.companies.Create(ctx, dto.CreateCompanyRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestEmpresa_CicloCompleto(t *testing.T) {
	e := newEnv(t)
	id := e.company(t, e.asU, "Acme")

	got, err := e.companies.Get(e.asU, dto.CompanyRef{CompanyID: id})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	e.company(t, e.asV, "Otra")
	list, err := e.companies.List(e.asU, dto.ListCompaniesRequest{Page: page()})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, id, list.Items[0].ID)

	phone := "555-1234"
	upd, err := e.companies.Update(e.asU, dto.UpdateCompanyRequest{CompanyID: id, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Acme", upd.Name)
	assert.Equal(t, phone, upd.Phone)

	require.NoError(t, e.companies.Delete(e.asU, dto.CompanyRef{CompanyID: id}))
	_, err = e.companies.Get(e.asU, dto.CompanyRef{CompanyID: id})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestEmpresa_DeOtroDuenoEsNoEncontrada(t *testing.T) {
	e := newEnv(t)
	id := e.company(t, e.asU, "Acme")

	_, err := e.companies.Get(e.asV, dto.CompanyRef{CompanyID: id})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	name := "Robada"
	_, err = e.companies.Update(e.asV, dto.UpdateCompanyRequest{CompanyID: id, Name: &name})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	assert.ErrorIs(t, e.companies.Delete(e.asV, dto.CompanyRef{CompanyID: id}), domain.ErrCompanyNotFound)

	got, err := e.companies.Get(e.asU, dto.CompanyRef{CompanyID: id})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}

func TestEmpresa_BorradoEnCascada(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	cl := e.client(t, e.asU, c1)

	require.NoError(t, e.companies.Delete(e.asU, dto.CompanyRef{CompanyID: c1}))
	_, err := e.clients.Get(e.asU, dto.ResourceRef{CompanyID: c1, ID: cl})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestCliente_BorrarDeOtraEmpresa(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	c2 := e.company(t, e.asV, "Otra")
	cl := e.client(t, e.asU, c1)

	// V usa su propia empresa con el id del cliente de U.
	err := e.clients.Delete(e.asV, dto.ResourceRef{CompanyID: c2, ID: cl})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	// V apunta directamente a la empresa de U.
	err = e.clients.Delete(e.asV, dto.ResourceRef{CompanyID: c1, ID: cl})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	got, err := e.clients.Get(e.asU, dto.ResourceRef{CompanyID: c1, ID: cl})
	require.NoError(t, err)
	assert.Equal(t, cl, got.ID)
}

func TestCliente_ActualizacionParcial(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	cl := e.client(t, e.asU, c1)

	email := "nuevo@x.io"
	upd, err := e.clients.Update(e.asU, dto.UpdateClientRequest{CompanyID: c1, ClientID: cl, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@x.io", upd.Email)
	assert.Equal(t, "Cliente", upd.Name)

	bad := "no-es-email"
	_, err = e.clients.Update(e.asU, dto.UpdateClientRequest{CompanyID: c1, ClientID: cl, Email: &bad})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)
}

func TestCliente_ValidacionAlCrear(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")

	_, err := e.clients.Create(e.asU, dto.CreateClientRequest{CompanyID: c1, Name: "Sin email"})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	list, err := e.clients.List(e.asU, dto.ListRequest{CompanyID: c1, Page: page()})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCliente_BorrarReferenciadoEsConflicto(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	cl := e.client(t, e.asU, c1)
	p := e.product(t, e.asU, c1, "10")

	_, err := e.invoices.Create(e.asU, dto.CreateInvoiceRequest{
		CompanyID: c1, ClientID: cl, IssueDate: "2026-03-01", DueDate: "2026-03-31",
		Lines: []dto.LineRequest{{ProductID: p, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	err = e.clients.Delete(e.asU, dto.ResourceRef{CompanyID: c1, ID: cl})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProducto_CambioDePrecioNoAlteraLineasEmitidas(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	cl := e.client(t, e.asU, c1)
	p := e.product(t, e.asU, c1, "12.50")

	inv, err := e.invoices.Create(e.asU, dto.CreateInvoiceRequest{
		CompanyID: c1, ClientID: cl, IssueDate: "2026-03-01", DueDate: "2026-03-31",
		Lines: []dto.LineRequest{{ProductID: p, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "25.00", inv.Total.StringFixed(2))

	price := decimal.RequireFromString("20")
	upd, err := e.products.Update(e.asU, dto.UpdateProductRequest{CompanyID: c1, ProductID: p, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "20.00", upd.Price.StringFixed(2))

	got, err := e.invoices.Get(e.asU, dto.ResourceRef{CompanyID: c1, ID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Total.StringFixed(2))
	assert.Equal(t, "12.50", got.Lines[0].UnitPrice.StringFixed(2))
}

func TestProducto_BorrarConservaLaCopiaEnLaFactura(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	cl := e.client(t, e.asU, c1)
	p := e.product(t, e.asU, c1, "7")

	inv, err := e.invoices.Create(e.asU, dto.CreateInvoiceRequest{
		CompanyID: c1, ClientID: cl, IssueDate: "2026-03-01", DueDate: "2026-03-31",
		Lines: []dto.LineRequest{{ProductID: p, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	require.NoError(t, e.products.Delete(e.asU, dto.ResourceRef{CompanyID: c1, ID: p}))

	got, err := e.invoices.Get(e.asU, dto.ResourceRef{CompanyID: c1, ID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "21.00", got.Total.StringFixed(2))
	assert.Equal(t, "Servicio", got.Lines[0].Description)
	assert.Empty(t, got.Lines[0].ProductID)
}

func TestProducto_DeOtraEmpresaEsNoEncontrado(t *testing.T) {
	e := newEnv(t)
	c1 := e.company(t, e.asU, "Acme")
	c2 := e.company(t, e.asV, "Otra")
	p := e.product(t, e.asU, c1, "5")

	_, err := e.products.Get(e.asV, dto.ResourceRef{CompanyID: c2, ID: p})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUsuario_Me(t *testing.T) {
	e := newEnv(t)
	users := usecase.NewUserUseCase(e.deps)

	me, err := users.Me(e.asU)
	require.NoError(t, err)
	assert.Equal(t, "U", me.ID)
	assert.Equal(t, "u@x.io", me.Email)

	_, err = users.Me(identity.WithCaller(context.Background(), identity.Caller{UserID: "borrado"}))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = users.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
