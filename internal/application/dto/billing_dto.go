package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// LineRequest línea de factura o cotización. Sin unit_price se toma el precio actual del producto.
type LineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// LineInputs convierte las líneas al formato del agregado.
func LineInputs(lines []LineRequest) []billing.LineInput {
	out := make([]billing.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, billing.LineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return out
}

// LineProductIDs ids de producto referenciados, en orden y sin repetir.
func LineProductIDs(lines []LineRequest) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		out = append(out, l.ProductID)
	}
	return out
}

// CreateInvoiceRequest body para POST /api/companies/:companyId/invoices.
// Number opcional; si va vacío se genera INV-000001, INV-000002…
type CreateInvoiceRequest struct {
	CompanyID string        `json:"-" params:"companyId"`
	ClientID  string        `json:"client_id" validate:"required"`
	Number    string        `json:"number,omitempty" validate:"omitempty,max=50"`
	IssueDate string        `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate   string        `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes     string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Lines     []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// Validate vencimiento no anterior a la emisión.
func (r CreateInvoiceRequest) Validate() error {
	return validateDatePair(r.IssueDate, "due_date", r.DueDate)
}

// UpdateInvoiceRequest actualización parcial de la cabecera. Si Lines viene (no nil) reemplaza
// todas las líneas de la factura.
type UpdateInvoiceRequest struct {
	CompanyID string        `json:"-" params:"companyId"`
	InvoiceID string        `json:"-" params:"id"`
	ClientID  *string       `json:"client_id" validate:"omitempty,min=1"`
	Number    *string       `json:"number" validate:"omitempty,max=50"` // "" vuelve a generar el correlativo
	IssueDate *string       `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate   *string       `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string       `json:"notes" validate:"omitempty,max=2000"`
	Lines     []LineRequest `json:"lines" validate:"omitempty,dive"`
}

// Validate lines presente pero vacío no se acepta: una factura siempre tiene líneas.
func (r UpdateInvoiceRequest) Validate() error {
	if r.Lines != nil && len(r.Lines) == 0 {
		return domain.NewValidationError("lines", "debe tener al menos 1 elementos")
	}
	return nil
}

// Patch campos de cabecera presentes; las fechas ya vienen parseadas.
func (r UpdateInvoiceRequest) Patch() (patch.Set, error) {
	s := patch.Set{}
	patch.Put(s, "client_id", r.ClientID)
	patch.Put(s, "number", r.Number)
	patch.Put(s, "notes", r.Notes)
	if err := putDate(s, "issue_date", r.IssueDate); err != nil {
		return nil, err
	}
	if err := putDate(s, "due_date", r.DueDate); err != nil {
		return nil, err
	}
	return s, nil
}

// InvoiceLineResponse línea en la respuesta.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse factura con líneas y saldo. Total se calcula desde las líneas.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	CompanyID  string                `json:"company_id"`
	ClientID   string                `json:"client_id"`
	ClientName string                `json:"client_name,omitempty"`
	Number     string                `json:"number"`
	IssueDate  string                `json:"issue_date"`
	DueDate    string                `json:"due_date"`
	Notes      string                `json:"notes,omitempty"`
	Total      decimal.Decimal       `json:"total"`
	PaidTotal  decimal.Decimal       `json:"paid_total"`
	Balance    decimal.Decimal       `json:"balance"`
	Lines      []InvoiceLineResponse `json:"lines"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreatePaymentRequest body para POST /api/companies/:companyId/invoices/:invoiceId/payments.
// Amount no puede superar el saldo pendiente.
type CreatePaymentRequest struct {
	CompanyID string          `json:"-" params:"companyId"`
	InvoiceID string          `json:"-" params:"invoiceId"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	PaidAt    string          `json:"paid_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Method    string          `json:"method,omitempty" validate:"omitempty,oneof=cash transfer card check other"`
	Reference string          `json:"reference,omitempty" validate:"omitempty,max=100"`
}

// InvoiceRef apunta a una factura (rutas anidadas /invoices/:invoiceId/...).
type InvoiceRef struct {
	CompanyID string `json:"-" params:"companyId"`
	InvoiceID string `json:"-" params:"invoiceId"`
}

// PaymentRef apunta a un pago de una factura.
type PaymentRef struct {
	CompanyID string `json:"-" params:"companyId"`
	InvoiceID string `json:"-" params:"invoiceId"`
	PaymentID string `json:"-" params:"paymentId"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    string          `json:"paid_at"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PaymentListResponse pagos de una factura con el saldo resultante.
type PaymentListResponse struct {
	Items     []PaymentResponse `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	PaidTotal decimal.Decimal   `json:"paid_total"`
	Balance   decimal.Decimal   `json:"balance"`
}

// InvoicePDF archivo generado para descarga.
type InvoicePDF struct {
	Filename string
	Content  []byte
}

func putDate(s patch.Set, field string, v *string) error {
	if v == nil {
		return nil
	}
	t, err := ParseDate(field, *v)
	if err != nil {
		return err
	}
	s[field] = t
	return nil
}

func validateDatePair(issue, field, other string) error {
	from, err := time.ParseInLocation(DateLayout, issue, time.UTC)
	if err != nil {
		return nil // el tag datetime ya lo reporta
	}
	to, err := time.ParseInLocation(DateLayout, other, time.UTC)
	if err != nil {
		return nil
	}
	if to.Before(from) {
		return domain.NewValidationError(field, "no puede ser anterior a issue_date")
	}
	return nil
}
