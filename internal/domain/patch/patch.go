// Package patch modela actualizaciones parciales como un conjunto explícito de campos.
//
// Un Set asocia nombre de campo → nuevo valor. Un campo ausente, o presente con valor nil,
// deja el valor almacenado intacto ("set-if-present"). La fusión la hacen funciones puras
// sobre las entidades, sin tocar persistencia.
package patch

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Set conjunto de campos a actualizar.
type Set map[string]any

// Put agrega el campo solo si el puntero no es nil. Útil para construir un Set desde un DTO
// con campos opcionales.
func Put[T any](s Set, field string, v *T) Set {
	if v != nil {
		s[field] = *v
	}
	return s
}

// Has informa si el campo viene con un valor no nulo.
func (s Set) Has(field string) bool {
	v, ok := s[field]
	return ok && v != nil
}

// Fields devuelve los nombres de campo con valor, ordenados.
func (s Set) Fields() []string {
	out := make([]string, 0, len(s))
	for k, v := range s {
		if v != nil {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Check verifica que todos los campos con valor estén en allowed.
func (s Set) Check(allowed ...string) error {
	ok := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		ok[a] = struct{}{}
	}
	verr := &domain.ValidationError{}
	for _, f := range s.Fields() {
		if _, found := ok[f]; !found {
			verr.Add(f, "campo no actualizable")
		}
	}
	return verr.OrNil()
}

// String aplica el campo sobre dst si está presente.
func (s Set) String(field string, dst *string) error {
	return apply(s, field, dst)
}

// Decimal aplica el campo sobre dst si está presente.
func (s Set) Decimal(field string, dst *decimal.Decimal) error {
	return apply(s, field, dst)
}

// Time aplica el campo sobre dst si está presente.
func (s Set) Time(field string, dst *time.Time) error {
	return apply(s, field, dst)
}

func apply[T any](s Set, field string, dst *T) error {
	raw, ok := s[field]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case T:
		*dst = v
	case *T:
		if v != nil {
			*dst = *v
		}
	default:
		return domain.NewValidationError(field, fmt.Sprintf("tipo inválido %T", raw))
	}
	return nil
}
