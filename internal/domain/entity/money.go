package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// DecimalScale decimales que persisten las columnas NUMERIC(18,4) de montos y cantidades.
const DecimalScale = 4

// ScaleMessage mensaje de campo para valores con demasiados decimales.
var ScaleMessage = fmt.Sprintf("admite como máximo %d decimales", DecimalScale)

// WithinScale indica si d se almacena sin redondeo. Redondear en silencio haría que el total
// devuelto al crear no coincida con el que se lee después.
func WithinScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(DecimalScale))
}

// CheckScale devuelve un ValidationError sobre field si d excede DecimalScale.
func CheckScale(field string, d decimal.Decimal) error {
	if !WithinScale(d) {
		return domain.NewValidationError(field, ScaleMessage)
	}
	return nil
}
