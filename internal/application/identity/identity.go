// Package identity transporta la identidad del llamador autenticado en el context.Context.
// El adaptador HTTP la coloca después de verificar el token; el pipeline la exige antes de
// ejecutar cualquier etapa.
package identity

import (
	"context"
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// Caller identidad del llamador.
type Caller struct {
	UserID string
}

type callerKey struct{}

// WithCaller devuelve un contexto que transporta al llamador.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// Current devuelve el llamador del contexto o domain.ErrUnauthenticated.
func Current(ctx context.Context) (Caller, error) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return Caller{}, domain.ErrUnauthenticated
	}
	return c, nil
}
