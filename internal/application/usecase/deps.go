package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// Deps dependencias comunes de los casos de uso.
type Deps struct {
	Tx       repository.TxRunner
	Pipeline *pipeline.Pipeline
	Now      func() time.Time // inyectable en tests
	NewID    func() string
}

// WithDefaults completa reloj, IDs y pipeline si no vienen. Sin pipeline explícito se usa
// pipeline.Default, así ningún caso de uso queda sin validación.
func (d Deps) WithDefaults() Deps {
	if d.Pipeline == nil {
		d.Pipeline = pipeline.Default(logger.Nop())
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NewID == nil {
		d.NewID = func() string { return uuid.New().String() }
	}
	return d
}

// Empty respuesta de operaciones sin cuerpo (delete).
type Empty struct{}

// InTx ejecuta fn en una transacción y devuelve su resultado.
func InTx[T any](ctx context.Context, tx repository.TxRunner, fn func(s repository.Store) (T, error)) (T, error) {
	var out T
	err := tx.Run(ctx, func(s repository.Store) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Today fecha actual sin hora (UTC).
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
