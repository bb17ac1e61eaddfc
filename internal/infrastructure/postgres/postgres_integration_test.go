//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// setupDB levanta PostgreSQL en un contenedor y aplica el schema embebido.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("facturacion"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.ApplySchema(ctx, pool))
	// Idempotente.
	require.NoError(t, postgres.ApplySchema(ctx, pool))
	return pool
}

func createUser(t *testing.T, tx repository.TxRunner, email string) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC()
	err := tx.Run(context.Background(), func(s repository.Store) error {
		return s.Users().Create(context.Background(), &entity.User{
			ID: id, Email: email, PasswordHash: "x", Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
		})
	})
	require.NoError(t, err)
	return id
}

func TestPostgres_FlujoFacturacion(t *testing.T) {
	pool := setupDB(t)
	tx := postgres.NewTxRunner(pool)
	deps := usecase.Deps{Tx: tx, Pipeline: pipeline.Default(logger.Nop())}

	companies := usecase.NewCompanyUseCase(deps)
	clients := usecase.NewClientUseCase(deps)
	products := usecase.NewProductUseCase(deps)
	invoices := billing.NewInvoiceUseCase(deps)
	payments := billing.NewPaymentUseCase(deps)

	asU := identity.WithCaller(context.Background(), identity.Caller{UserID: createUser(t, tx, "u@x.io")})
	asV := identity.WithCaller(context.Background(), identity.Caller{UserID: createUser(t, tx, "v@x.io")})

	c1, err := companies.Create(asU, dto.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	c2, err := companies.Create(asV, dto.CreateCompanyRequest{Name: "Otra"})
	require.NoError(t, err)
	cl, err := clients.Create(asU, dto.CreateClientRequest{CompanyID: c1.ID, Name: "Cliente", Email: "c@x.io"})
	require.NoError(t, err)
	p, err := products.Create(asU, dto.CreateProductRequest{CompanyID: c1.ID, Name: "Horas", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)

	inv, err := invoices.Create(asU, dto.CreateInvoiceRequest{
		CompanyID: c1.ID, ClientID: cl.ID, IssueDate: "2026-03-01", DueDate: "2026-03-31",
		Lines: []dto.LineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", inv.Number)
	assert.Equal(t, "25.00", inv.Total.StringFixed(2))

	// Cambiar el precio no altera la factura emitida.
	price := decimal.NewFromInt(20)
	_, err = products.Update(asU, dto.UpdateProductRequest{CompanyID: c1.ID, ProductID: p.ID, Price: &price})
	require.NoError(t, err)
	got, err := invoices.Get(asU, dto.ResourceRef{CompanyID: c1.ID, ID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Total.StringFixed(2))

	// Aislamiento entre empresas.
	_, err = invoices.Get(asV, dto.ResourceRef{CompanyID: c2.ID, ID: inv.ID})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	err = clients.Delete(asV, dto.ResourceRef{CompanyID: c2.ID, ID: cl.ID})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
	_, err = invoices.Get(asU, dto.ResourceRef{CompanyID: c1.ID, ID: "no-es-uuid"})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	// Número duplicado dentro de la empresa.
	_, err = invoices.Create(asU, dto.CreateInvoiceRequest{
		CompanyID: c1.ID, ClientID: cl.ID, Number: "INV-000001", IssueDate: "2026-03-01", DueDate: "2026-03-31",
		Lines: []dto.LineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Pagos y cascada.
	_, err = payments.Create(asU, dto.CreatePaymentRequest{CompanyID: c1.ID, InvoiceID: inv.ID, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = payments.Create(asU, dto.CreatePaymentRequest{CompanyID: c1.ID, InvoiceID: inv.ID, Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	err = clients.Delete(asU, dto.ResourceRef{CompanyID: c1.ID, ID: cl.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Borrar el producto conserva la copia en la línea.
	require.NoError(t, products.Delete(asU, dto.ResourceRef{CompanyID: c1.ID, ID: p.ID}))
	got, err = invoices.Get(asU, dto.ResourceRef{CompanyID: c1.ID, ID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Total.StringFixed(2))
	assert.Empty(t, got.Lines[0].ProductID)
	assert.Equal(t, "15.00", got.Balance.StringFixed(2))

	require.NoError(t, invoices.Delete(asU, dto.ResourceRef{CompanyID: c1.ID, ID: inv.ID}))
	var remaining int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM payments`).Scan(&remaining))
	assert.Zero(t, remaining)

	// Borrar la empresa arrastra todo lo que posee.
	require.NoError(t, companies.Delete(asU, dto.CompanyRef{CompanyID: c1.ID}))
	var clientsLeft int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM clients WHERE company_id = $1`, c1.ID).Scan(&clientsLeft))
	assert.Zero(t, clientsLeft)
}

func TestPostgres_ErrorRevierteLaTransaccion(t *testing.T) {
	pool := setupDB(t)
	tx := postgres.NewTxRunner(pool)
	userID := uuid.New().String()
	now := time.Now().UTC()

	err := tx.Run(context.Background(), func(s repository.Store) error {
		if err := s.Users().Create(context.Background(), &entity.User{ID: userID, Email: "r@x.io", PasswordHash: "x", Status: "active", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return domain.ErrConflict
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = tx.Run(context.Background(), func(s repository.Store) error {
		u, err := s.Users().GetByID(context.Background(), userID)
		assert.Nil(t, u)
		return err
	})
	assert.NoError(t, err)
}

// billingFixture empresa con cliente y un producto de 12.50 sobre Postgres.
type billingFixture struct {
	invoices *billing.InvoiceUseCase
	payments *billing.PaymentUseCase
	asU      context.Context
	company  string
	client   string
	product  string
}

func newBillingFixture(t *testing.T, price string) *billingFixture {
	t.Helper()
	tx := postgres.NewTxRunner(setupDB(t))
	deps := usecase.Deps{Tx: tx, Pipeline: pipeline.Default(logger.Nop())}
	f := &billingFixture{
		invoices: billing.NewInvoiceUseCase(deps),
		payments: billing.NewPaymentUseCase(deps),
		asU:      identity.WithCaller(context.Background(), identity.Caller{UserID: createUser(t, tx, "u@x.io")}),
	}
	c, err := usecase.NewCompanyUseCase(deps).Create(f.asU, dto.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	cl, err := usecase.NewClientUseCase(deps).Create(f.asU, dto.CreateClientRequest{CompanyID: c.ID, Name: "Cliente", Email: "c@x.io"})
	require.NoError(t, err)
	p, err := usecase.NewProductUseCase(deps).Create(f.asU, dto.CreateProductRequest{CompanyID: c.ID, Name: "Horas", Price: decimal.RequireFromString(price)})
	require.NoError(t, err)
	f.company, f.client, f.product = c.ID, cl.ID, p.ID
	return f
}

func (f *billingFixture) createInvoice(qty int64) (*dto.InvoiceResponse, error) {
	return f.invoices.Create(f.asU, dto.CreateInvoiceRequest{
		CompanyID: f.company, ClientID: f.client, IssueDate: "2026-03-01", DueDate: "2026-03-31",
		Lines: []dto.LineRequest{{ProductID: f.product, Quantity: decimal.NewFromInt(qty)}},
	})
}

func TestPostgres_PagosConcurrentesNoSuperanElSaldo(t *testing.T) {
	f := newBillingFixture(t, "12.50")
	inv, err := f.createInvoice(2)
	require.NoError(t, err)

	const workers = 4
	start := make(chan struct{})
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.payments.Create(f.asU, dto.CreatePaymentRequest{
				CompanyID: f.company, InvoiceID: inv.ID, Amount: decimal.NewFromInt(25),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	}
	assert.Equal(t, 1, ok)

	list, err := f.payments.List(f.asU, dto.InvoiceRef{CompanyID: f.company, InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "25.00", list.PaidTotal.StringFixed(2))
	assert.True(t, list.Balance.IsZero())
}

func TestPostgres_AltasConcurrentesGeneranNumerosDistintos(t *testing.T) {
	f := newBillingFixture(t, "12.50")

	const workers = 5
	start := make(chan struct{})
	numbers := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			inv, err := f.createInvoice(1)
			errs[i] = err
			if err == nil {
				numbers[i] = inv.Number
			}
		}(i)
	}
	close(start)
	wg.Wait()

	seen := map[string]bool{}
	for i := range numbers {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "número repetido %s", numbers[i])
		seen[numbers[i]] = true
	}
	assert.Len(t, seen, workers)
}

func TestPostgres_CuatroDecimalesSinRedondeo(t *testing.T) {
	f := newBillingFixture(t, "1.2345")
	inv, err := f.createInvoice(3)
	require.NoError(t, err)

	got, err := f.invoices.Get(f.asU, dto.ResourceRef{CompanyID: f.company, ID: inv.ID})
	require.NoError(t, err)
	assert.True(t, inv.Total.Equal(got.Total), "create=%s get=%s", inv.Total, got.Total)
	assert.Equal(t, "3.7035", got.Total.StringFixed(4))
}
