package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

type createThing struct {
	Name  string          `json:"name" validate:"required,max=10"`
	Email string          `json:"email" validate:"omitempty,email"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Items []thingItem     `json:"items" validate:"required,min=1,dive"`
}

type thingItem struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type rangeReq struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r rangeReq) Validate() error {
	if r.To < r.From {
		return domain.NewValidationError("to", "debe ser mayor o igual a from")
	}
	return nil
}

func authed() context.Context {
	return identity.WithCaller(context.Background(), identity.Caller{UserID: "u1"})
}

func validThing() createThing {
	return createThing{Name: "x", Price: decimal.NewFromInt(1), Items: []thingItem{{Quantity: decimal.NewFromInt(1)}}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad
// ──────────────────────────────────────────────────────────────────────────────

func TestSend_SinIdentidad_NoEjecutaEtapasNiHandler(t *testing.T) {
	stageRan, handlerRan := false, false
	p := pipeline.New(func(ctx context.Context, req any, next pipeline.Next) (any, error) {
		stageRan = true
		return next(ctx, req)
	})

	_, err := pipeline.Send(context.Background(), p, validThing(), func(context.Context, identity.Caller, createThing) (string, error) {
		handlerRan = true
		return "ok", nil
	})

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.False(t, stageRan)
	assert.False(t, handlerRan)
}

func TestSend_PasaElLlamadorAlHandler(t *testing.T) {
	got, err := pipeline.Send(authed(), pipeline.New(), validThing(), func(_ context.Context, c identity.Caller, _ createThing) (string, error) {
		return c.UserID, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden y corte de etapas
// ──────────────────────────────────────────────────────────────────────────────

func TestSend_EtapasEnOrdenDeclarado(t *testing.T) {
	var trace []string
	mk := func(name string) pipeline.Stage {
		return func(ctx context.Context, req any, next pipeline.Next) (any, error) {
			trace = append(trace, name+">")
			res, err := next(ctx, req)
			trace = append(trace, "<"+name)
			return res, err
		}
	}
	p := pipeline.New(mk("a")).With(mk("b"))

	_, err := pipeline.Send(authed(), p, 1, func(context.Context, identity.Caller, int) (int, error) {
		trace = append(trace, "h")
		return 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a>", "b>", "h", "<b", "<a"}, trace)
}

func TestSend_EtapaCortaLaCadena(t *testing.T) {
	boom := errors.New("boom")
	p := pipeline.New(func(context.Context, any, pipeline.Next) (any, error) { return nil, boom })

	called := false
	_, err := pipeline.Send(authed(), p, 1, func(context.Context, identity.Caller, int) (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestSend_RespuestaPunteroNil(t *testing.T) {
	type out struct{}
	res, err := pipeline.Send(authed(), pipeline.New(), 1, func(context.Context, identity.Caller, int) (*out, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidation_RechazaAntesDelHandler(t *testing.T) {
	p := pipeline.New(pipeline.Validation(pipeline.NewValidator()))
	req := createThing{
		Name:  "",
		Email: "no-es-email",
		Price: decimal.NewFromInt(-1),
		Items: []thingItem{{Quantity: decimal.Zero}},
	}

	called := false
	_, err := pipeline.Send(authed(), p, req, func(context.Context, identity.Caller, createThing) (string, error) {
		called = true
		return "", nil
	})

	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.False(t, called)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "es requerido", fields["name"])
	assert.Equal(t, "email inválido", fields["email"])
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "items[0].quantity")
}

func TestValidation_AceptaPeticionValida(t *testing.T) {
	p := pipeline.New(pipeline.Validation(pipeline.NewValidator()))
	res, err := pipeline.Send(authed(), p, validThing(), func(_ context.Context, _ identity.Caller, r createThing) (string, error) {
		return r.Name, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", res)
}

func TestValidation_SelfValidator(t *testing.T) {
	p := pipeline.New(pipeline.Validation(pipeline.NewValidator()))
	_, err := pipeline.Send(authed(), p, rangeReq{From: 5, To: 1}, func(context.Context, identity.Caller, rangeReq) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recover y logging
// ──────────────────────────────────────────────────────────────────────────────

func TestRecover_ConviertePanicoEnError(t *testing.T) {
	p := pipeline.New(pipeline.Recover(logger.Nop()))
	_, err := pipeline.Send(authed(), p, 1, func(context.Context, identity.Caller, int) (int, error) {
		panic("explota")
	})
	assert.ErrorIs(t, err, pipeline.ErrPanic)
}

func TestLogging_RegistraErrorYUsuario(t *testing.T) {
	var buf bytes.Buffer
	p := pipeline.New(pipeline.Logging(logger.NewWithWriter(&buf, "debug")))

	_, err := pipeline.Send(authed(), p, 1, func(context.Context, identity.Caller, int) (int, error) {
		return 0, domain.ErrClientNotFound
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"user_id":"u1"`)
	assert.Contains(t, out, "cliente no encontrado")
}

func TestSend_SinPipeline_NoEjecutaHandler(t *testing.T) {
	handlerRan := false
	_, err := pipeline.Send(authed(), nil, validThing(), func(context.Context, identity.Caller, createThing) (string, error) {
		handlerRan = true
		return "ok", nil
	})
	assert.ErrorIs(t, err, pipeline.ErrNoPipeline)
	assert.False(t, handlerRan)
}
