package entity

import "github.com/shopspring/decimal"

// LineItem datos comunes de una línea de factura o cotización.
// UnitPrice y Description son una copia del producto en el momento de agregar la línea.
type LineItem struct {
	ProductID   string // vacío si el producto fue eliminado después de emitir
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Subtotal precio × cantidad.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// SumLines suma los subtotales de las líneas.
func SumLines(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
