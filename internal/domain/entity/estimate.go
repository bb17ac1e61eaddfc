package entity

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	EstimateStatusDraft     = "draft"
	EstimateStatusConverted = "converted" // ya generó una factura; no se puede editar
)

// Estimate cotización previa a la factura; misma estructura de líneas que Invoice.
type Estimate struct {
	ID         string
	CompanyID  string
	ClientID   string
	Number     string
	IssueDate  time.Time
	ValidUntil time.Time
	Notes      string
	Status     string
	InvoiceID  string // factura generada al convertir
	Lines      []ProductEstimate
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductEstimate una línea de la cotización.
type ProductEstimate struct {
	ID         string
	EstimateID string
	LineItem
}

// Total Σ precio × cantidad de las líneas.
func (e *Estimate) Total() decimal.Decimal {
	items := make([]LineItem, 0, len(e.Lines))
	for _, l := range e.Lines {
		items = append(items, l.LineItem)
	}
	return SumLines(items)
}

// EstimateFields campos de cabecera actualizables de Estimate.
var EstimateFields = []string{"client_id", "number", "issue_date", "valid_until", "notes"}

// Merge devuelve una copia de la cabecera con los campos presentes en s aplicados.
func (e Estimate) Merge(s patch.Set) (Estimate, error) {
	if err := s.Check(EstimateFields...); err != nil {
		return e, err
	}
	for field, dst := range map[string]*string{
		"client_id": &e.ClientID,
		"number":    &e.Number,
		"notes":     &e.Notes,
	} {
		if err := s.String(field, dst); err != nil {
			return e, err
		}
	}
	if err := s.Time("issue_date", &e.IssueDate); err != nil {
		return e, err
	}
	if err := s.Time("valid_until", &e.ValidUntil); err != nil {
		return e, err
	}
	return e, nil
}
