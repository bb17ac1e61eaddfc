package dto

import "github.com/shopspring/decimal"

// CompanySummaryDTO respuesta de GET /api/companies/:companyId/summary.
type CompanySummaryDTO struct {
	Clients   int `json:"clients"`
	Products  int `json:"products"`
	Invoices  int `json:"invoices"`
	Estimates int `json:"estimates"`

	InvoicedTotal decimal.Decimal `json:"invoiced_total"` // Σ totales de factura
	PaidTotal     decimal.Decimal `json:"paid_total"`     // Σ pagos
	Outstanding   decimal.Decimal `json:"outstanding"`    // facturado - pagado

	OverdueInvoices int    `json:"overdue_invoices"` // vencidas con saldo
	AsOf            string `json:"as_of"`
}
