// Package billing contiene las reglas de consistencia del agregado Factura (y Cotización):
// líneas con precio congelado, productos de la misma empresa, fechas y totales derivados.
package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Prefijos para numeración generada.
const (
	InvoiceNumberPrefix  = "INV"
	EstimateNumberPrefix = "EST"
)

// LineInput línea solicitada por el llamador. UnitPrice nil = tomar el precio actual del producto.
type LineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// BuildLines construye las líneas a partir de los productos resueltos dentro de la empresa.
// products debe venir de una búsqueda acotada a companyID; un producto ausente o de otra
// empresa se rechaza con ErrProductNotFound. El precio y la descripción se copian del producto
// en este momento y no vuelven a sincronizarse.
func BuildLines(companyID string, inputs []LineInput, products map[string]*entity.Product) ([]entity.LineItem, error) {
	verr := &domain.ValidationError{}
	lines := make([]entity.LineItem, 0, len(inputs))
	for i, in := range inputs {
		product, ok := products[in.ProductID]
		if !ok || product == nil || product.CompanyID != companyID {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
		}
		if !in.Quantity.IsPositive() {
			verr.Add(fmt.Sprintf("lines[%d].quantity", i), "debe ser mayor a 0")
			continue
		}
		if !entity.WithinScale(in.Quantity) {
			verr.Add(fmt.Sprintf("lines[%d].quantity", i), entity.ScaleMessage)
			continue
		}
		price := product.Price
		if in.UnitPrice != nil {
			if in.UnitPrice.IsNegative() {
				verr.Add(fmt.Sprintf("lines[%d].unit_price", i), "debe ser mayor o igual a 0")
				continue
			}
			if !entity.WithinScale(*in.UnitPrice) {
				verr.Add(fmt.Sprintf("lines[%d].unit_price", i), entity.ScaleMessage)
				continue
			}
			price = *in.UnitPrice
		}
		lines = append(lines, entity.LineItem{
			ProductID:   product.ID,
			Description: product.Name,
			Quantity:    in.Quantity,
			UnitPrice:   price,
		})
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ValidateDates exige que el vencimiento no sea anterior a la fecha de emisión.
func ValidateDates(issue, due time.Time) error {
	if due.Before(issue) {
		return domain.NewValidationError("due_date", "no puede ser anterior a issue_date")
	}
	return nil
}

// InvoiceLines asigna las líneas a la factura con IDs nuevos.
func InvoiceLines(invoiceID string, items []entity.LineItem, newID func() string) []entity.ProductInvoice {
	out := make([]entity.ProductInvoice, 0, len(items))
	for _, it := range items {
		out = append(out, entity.ProductInvoice{ID: newID(), InvoiceID: invoiceID, LineItem: it})
	}
	return out
}

// EstimateLines asigna las líneas a la cotización con IDs nuevos.
func EstimateLines(estimateID string, items []entity.LineItem, newID func() string) []entity.ProductEstimate {
	out := make([]entity.ProductEstimate, 0, len(items))
	for _, it := range items {
		out = append(out, entity.ProductEstimate{ID: newID(), EstimateID: estimateID, LineItem: it})
	}
	return out
}

// FormatNumber numeración correlativa por empresa: INV-000001, EST-000042…
func FormatNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// Balance saldo pendiente = total − pagos.
func Balance(inv *entity.Invoice, payments []*entity.Payment) decimal.Decimal {
	return inv.Total().Sub(entity.SumPayments(payments))
}

// ValidatePayment exige monto positivo y que no supere el saldo pendiente.
func ValidatePayment(amount, outstanding decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidationError("amount", "debe ser mayor a 0")
	}
	if err := entity.CheckScale("amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(outstanding) {
		return domain.NewValidationError("amount", "supera el saldo pendiente ("+outstanding.StringFixed(2)+")")
	}
	return nil
}

// ValidateCoversPayments al reemplazar líneas, el nuevo total no puede quedar por debajo de lo ya pagado.
func ValidateCoversPayments(total, paid decimal.Decimal) error {
	if total.LessThan(paid) {
		return domain.NewValidationError("lines", "el total ("+total.StringFixed(2)+") no puede ser menor a lo pagado ("+paid.StringFixed(2)+")")
	}
	return nil
}
