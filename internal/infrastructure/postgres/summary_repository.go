package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.SummaryRepository = (*SummaryRepo)(nil)

// SummaryRepo consultas de solo lectura para el resumen de facturación.
type SummaryRepo struct {
	q Querier
}

// NewSummaryRepository construye el adaptador de resumen.
func NewSummaryRepository(q Querier) *SummaryRepo {
	return &SummaryRepo{q: q}
}

// GetCompanySummary agrega conteos y totales de la empresa en una sola consulta.
// Totales por factura = Σ quantity × unit_price de sus líneas; vencida = due_date < asOf con saldo.
func (r *SummaryRepo) GetCompanySummary(ctx context.Context, companyID string, asOf time.Time) (*repository.CompanySummary, error) {
	const query = `
	WITH totals AS (
	    SELECT i.id,
	           i.due_date,
	           COALESCE((SELECT SUM(l.quantity * l.unit_price) FROM product_invoices l WHERE l.invoice_id = i.id), 0) AS total,
	           COALESCE((SELECT SUM(p.amount)                  FROM payments p         WHERE p.invoice_id = i.id), 0) AS paid
	      FROM invoices i
	     WHERE i.company_id = $1
	)
	SELECT
	    (SELECT COUNT(*) FROM clients   WHERE company_id = $1)          AS clients,
	    (SELECT COUNT(*) FROM products  WHERE company_id = $1)          AS products,
	    (SELECT COUNT(*) FROM totals)                                   AS invoices,
	    (SELECT COUNT(*) FROM estimates WHERE company_id = $1)          AS estimates,
	    COALESCE((SELECT SUM(total) FROM totals), 0)                    AS invoiced_total,
	    COALESCE((SELECT SUM(paid)  FROM totals), 0)                    AS paid_total,
	    (SELECT COUNT(*) FROM totals WHERE due_date < $2 AND total > paid) AS overdue`

	var s repository.CompanySummary
	err := r.q.QueryRow(ctx, query, companyID, asOf).Scan(
		&s.Clients, &s.Products, &s.Invoices, &s.Estimates,
		&s.InvoicedTotal, &s.PaidTotal, &s.OverdueCount,
	)
	if err != nil {
		return nil, fmt.Errorf("summary.GetCompanySummary: %w", err)
	}
	return &s, nil
}
