package dto

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// DateLayout formato de fechas de factura/cotización en requests y responses.
const DateLayout = "2006-01-02"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `json:"limit" query:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// CompanyRef apunta a una empresa del llamador (rutas /companies/:companyId).
type CompanyRef struct {
	CompanyID string `json:"-" params:"companyId"`
}

// ResourceRef apunta a un recurso dentro de una empresa (/companies/:companyId/<recurso>/:id).
type ResourceRef struct {
	CompanyID string `json:"-" params:"companyId"`
	ID        string `json:"-" params:"id"`
}

// ListRequest listado paginado dentro de una empresa.
type ListRequest struct {
	CompanyID string      `json:"-" params:"companyId"`
	Page      PageRequest `json:"page"`
}

// ParseDate interpreta una fecha DateLayout en UTC.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "formato de fecha inválido, se espera "+DateLayout)
	}
	return t, nil
}

// FormatDate inverso de ParseDate.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
