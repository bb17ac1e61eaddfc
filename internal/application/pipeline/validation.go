package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// SelfValidator reglas entre campos que los tags no expresan (ej. fechas relacionadas).
type SelfValidator interface {
	Validate() error
}

// NewValidator configura validator/v10: nombres de campo desde el tag json (o params) y
// decimal.Decimal validable con gt/gte/lte.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			// Campos de ruta (:companyId…) no viajan en el body.
			name = fld.Tag.Get("params")
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validation etapa de validación estructural. Si falla, el handler nunca se ejecuta.
func Validation(v *validator.Validate) Stage {
	return func(ctx context.Context, req any, next Next) (any, error) {
		if err := Validate(v, req); err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

// Validate aplica los tags y, si pasan, SelfValidator. Devuelve *domain.ValidationError.
func Validate(v *validator.Validate, req any) error {
	if req == nil {
		return domain.NewValidationError("body", "petición vacía")
	}
	rv := reflect.ValueOf(req)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return domain.NewValidationError("body", "petición vacía")
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		if err := v.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			out := &domain.ValidationError{}
			for _, fe := range verrs {
				out.Add(fieldPath(fe), message(fe))
			}
			return out
		}
	}
	if sv, ok := req.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// fieldPath quita el nombre del struct raíz: "CreateInvoiceRequest.lines[0].quantity" → "lines[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "email inválido"
	case "uuid":
		return "UUID inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe tener al menos " + fe.Param() + " elementos"
	case "max":
		if fe.Kind() == reflect.String {
			return "debe tener como máximo " + fe.Param() + " caracteres"
		}
		return "debe ser como máximo " + fe.Param()
	case "gt":
		return "debe ser mayor a " + fe.Param()
	case "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "lte":
		return "debe ser menor o igual a " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "datetime":
		return "formato de fecha inválido, se espera " + fe.Param()
	default:
		return "valor inválido"
	}
}
