package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment pago aplicado a una factura. Pertenece a la empresa de la factura de forma transitiva;
// eliminar un pago nunca elimina la factura.
type Payment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	PaidAt    time.Time
	Method    string // transfer, cash, card…
	Reference string
	CreatedAt time.Time
}

// SumPayments suma los montos.
func SumPayments(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
