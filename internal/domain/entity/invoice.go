package entity

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura. Es dueña de sus líneas (ProductInvoice);
// el total no se almacena: siempre se calcula desde las líneas.
type Invoice struct {
	ID        string
	CompanyID string
	ClientID  string
	Number    string // único por empresa
	IssueDate time.Time
	DueDate   time.Time
	Notes     string
	Lines     []ProductInvoice
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductInvoice una línea de la factura.
type ProductInvoice struct {
	ID        string
	InvoiceID string
	LineItem
}

// Total Σ precio × cantidad de las líneas.
func (i *Invoice) Total() decimal.Decimal {
	items := make([]LineItem, 0, len(i.Lines))
	for _, l := range i.Lines {
		items = append(items, l.LineItem)
	}
	return SumLines(items)
}

// InvoiceFields campos de cabecera actualizables de Invoice.
var InvoiceFields = []string{"client_id", "number", "issue_date", "due_date", "notes"}

// Merge devuelve una copia de la cabecera con los campos presentes en s aplicados.
// Las líneas no se tocan: se reemplazan con las reglas de billing.
func (i Invoice) Merge(s patch.Set) (Invoice, error) {
	if err := s.Check(InvoiceFields...); err != nil {
		return i, err
	}
	for field, dst := range map[string]*string{
		"client_id": &i.ClientID,
		"number":    &i.Number,
		"notes":     &i.Notes,
	} {
		if err := s.String(field, dst); err != nil {
			return i, err
		}
	}
	if err := s.Time("issue_date", &i.IssueDate); err != nil {
		return i, err
	}
	if err := s.Time("due_date", &i.DueDate); err != nil {
		return i, err
	}
	return i, nil
}
