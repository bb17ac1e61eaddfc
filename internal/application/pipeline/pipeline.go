// Package pipeline implementa la mediación de peticiones: identidad → etapas → handler.
//
// Cada caso de uso expone sus operaciones llamando a Send; el handler real no es accesible
// desde fuera, así que ninguna operación puede saltarse la identidad ni la validación.
// Las etapas (validación, logging, recover…) se componen en el orden declarado y cualquiera
// puede cortar la cadena devolviendo un error.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/application/identity"
)

// ErrNoPipeline Send sin pipeline: se rechaza en lugar de ejecutar el handler sin validación.
var ErrNoPipeline = errors.New("pipeline: no configurado")

// Next continúa la cadena con la petición dada.
type Next func(ctx context.Context, req any) (any, error)

// Stage etapa transversal. Debe llamar a next para continuar o devolver un error para cortar.
type Stage func(ctx context.Context, req any, next Next) (any, error)

// Pipeline lista ordenada de etapas. No guarda estado entre invocaciones.
type Pipeline struct {
	stages []Stage
}

// New construye el pipeline con las etapas en orden de ejecución (la primera envuelve a las demás).
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage(nil), stages...)}
}

// With devuelve un pipeline nuevo con etapas adicionales al final.
func (p *Pipeline) With(stages ...Stage) *Pipeline {
	out := &Pipeline{stages: make([]Stage, 0, len(p.stages)+len(stages))}
	out.stages = append(out.stages, p.stages...)
	out.stages = append(out.stages, stages...)
	return out
}

// Send despacha req por el pipeline hasta h, la lógica del caso de uso, que recibe el llamador ya resuelto.
// Sin llamador autenticado devuelve domain.ErrUnauthenticated antes de ejecutar cualquier etapa;
// con p nil devuelve ErrNoPipeline.
func Send[Req, Res any](ctx context.Context, p *Pipeline, req Req, h func(context.Context, identity.Caller, Req) (Res, error)) (Res, error) {
	var zero Res
	if p == nil {
		return zero, ErrNoPipeline
	}
	caller, err := identity.Current(ctx)
	if err != nil {
		return zero, err
	}

	next := Next(func(ctx context.Context, r any) (any, error) {
		typed, ok := r.(Req)
		if !ok {
			return nil, fmt.Errorf("pipeline: la petición %T no corresponde al handler", r)
		}
		return h(ctx, caller, typed)
	})
	for i := len(p.stages) - 1; i >= 0; i-- {
		stage, inner := p.stages[i], next
		next = func(ctx context.Context, r any) (any, error) {
			return stage(ctx, r, inner)
		}
	}

	out, err := next(ctx, req)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	res, ok := out.(Res)
	if !ok {
		return zero, fmt.Errorf("pipeline: respuesta %T inesperada", out)
	}
	return res, nil
}
