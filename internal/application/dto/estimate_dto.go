package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// CreateEstimateRequest body para POST /api/companies/:companyId/estimates.
type CreateEstimateRequest struct {
	CompanyID  string        `json:"-" params:"companyId"`
	ClientID   string        `json:"client_id" validate:"required"`
	Number     string        `json:"number,omitempty" validate:"omitempty,max=50"`
	IssueDate  string        `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ValidUntil string        `json:"valid_until" validate:"required,datetime=2006-01-02"`
	Notes      string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Lines      []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// Validate vigencia no anterior a la emisión.
func (r CreateEstimateRequest) Validate() error {
	return validateDatePair(r.IssueDate, "valid_until", r.ValidUntil)
}

// UpdateEstimateRequest actualización parcial; Lines no nil reemplaza todas las líneas.
type UpdateEstimateRequest struct {
	CompanyID  string        `json:"-" params:"companyId"`
	EstimateID string        `json:"-" params:"id"`
	ClientID   *string       `json:"client_id" validate:"omitempty,min=1"`
	Number     *string       `json:"number" validate:"omitempty,max=50"`
	IssueDate  *string       `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil *string       `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string       `json:"notes" validate:"omitempty,max=2000"`
	Lines      []LineRequest `json:"lines" validate:"omitempty,dive"`
}

// Validate lines presente pero vacío no se acepta.
func (r UpdateEstimateRequest) Validate() error {
	if r.Lines != nil && len(r.Lines) == 0 {
		return domain.NewValidationError("lines", "debe tener al menos 1 elementos")
	}
	return nil
}

// Patch campos de cabecera presentes.
func (r UpdateEstimateRequest) Patch() (patch.Set, error) {
	s := patch.Set{}
	patch.Put(s, "client_id", r.ClientID)
	patch.Put(s, "number", r.Number)
	patch.Put(s, "notes", r.Notes)
	if err := putDate(s, "issue_date", r.IssueDate); err != nil {
		return nil, err
	}
	if err := putDate(s, "valid_until", r.ValidUntil); err != nil {
		return nil, err
	}
	return s, nil
}

// ConvertEstimateRequest genera una factura desde la cotización con los precios cotizados.
// Sin issue_date se usa la fecha actual; sin due_date, la de emisión.
type ConvertEstimateRequest struct {
	CompanyID  string `json:"-" params:"companyId"`
	EstimateID string `json:"-" params:"id"`
	Number     string `json:"number,omitempty" validate:"omitempty,max=50"`
	IssueDate  string `json:"issue_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate    string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Validate si vienen ambas fechas, vencimiento no anterior a la emisión.
func (r ConvertEstimateRequest) Validate() error {
	if r.IssueDate == "" || r.DueDate == "" {
		return nil
	}
	return validateDatePair(r.IssueDate, "due_date", r.DueDate)
}

// EstimateResponse cotización con líneas.
type EstimateResponse struct {
	ID         string                `json:"id"`
	CompanyID  string                `json:"company_id"`
	ClientID   string                `json:"client_id"`
	Number     string                `json:"number"`
	IssueDate  string                `json:"issue_date"`
	ValidUntil string                `json:"valid_until"`
	Notes      string                `json:"notes,omitempty"`
	Status     string                `json:"status"`
	InvoiceID  string                `json:"invoice_id,omitempty"`
	Total      decimal.Decimal       `json:"total"`
	Lines      []InvoiceLineResponse `json:"lines"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// EstimateListResponse lista paginada de cotizaciones.
type EstimateListResponse struct {
	Items []EstimateResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
