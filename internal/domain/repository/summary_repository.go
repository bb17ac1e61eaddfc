package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CompanySummary resultado crudo del resumen de facturación de una empresa.
// Lo produce la DB; el caso de uso lo convierte en DTO.
type CompanySummary struct {
	Clients       int
	Products      int
	Invoices      int
	Estimates     int
	InvoicedTotal decimal.Decimal // Σ precio × cantidad de todas las líneas de factura
	PaidTotal     decimal.Decimal // Σ pagos
	OverdueCount  int             // facturas vencidas con saldo pendiente
}

// SummaryRepository consultas de solo lectura para el resumen de una empresa.
type SummaryRepository interface {
	// GetCompanySummary agrega los totales de la empresa; asOf define qué facturas están vencidas.
	GetCompanySummary(ctx context.Context, companyID string, asOf time.Time) (*CompanySummary, error)
}
