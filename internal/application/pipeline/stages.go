package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// Logging registra cada petición con su duración. Los errores esperados (validación,
// no encontrado, conflicto) salen en warn; el resto en error.
func Logging(log *logger.Logger) Stage {
	return func(ctx context.Context, req any, next Next) (any, error) {
		start := time.Now()
		res, err := next(ctx, req)

		var ev *zerolog.Event
		switch {
		case err == nil:
			ev = log.Debug()
		case isExpected(err):
			ev = log.Warn().Err(err)
		default:
			ev = log.Error().Err(err)
		}
		if caller, cerr := identity.Current(ctx); cerr == nil {
			ev = ev.Str("user_id", caller.UserID)
		}
		ev.Str("request", fmt.Sprintf("%T", req)).
			Dur("duration", time.Since(start)).
			Msg("petición procesada")
		return res, err
	}
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidationFailed) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrDuplicate) ||
		errors.Is(err, domain.ErrInvalidInput)
}

// ErrPanic se devuelve cuando un handler entra en pánico.
var ErrPanic = errors.New("pipeline: pánico en el handler")

// Recover convierte un pánico del handler en ErrPanic para que el adaptador responda 500.
func Recover(log *logger.Logger) Stage {
	return func(ctx context.Context, req any, next Next) (res any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request", fmt.Sprintf("%T", req)).
					Str("stack", string(debug.Stack())).
					Msgf("pánico recuperado: %v", r)
				res, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		return next(ctx, req)
	}
}

// Default pipeline estándar: logging → recover → validación.
func Default(log *logger.Logger) *Pipeline {
	return New(Logging(log), Recover(log), Validation(NewValidator()))
}
