package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository. Toda consulta va acotada a la factura.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, invoice_id, amount, paid_at, method, reference, created_at`

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.InvoiceID, p.Amount, p.PaidAt, p.Method, p.Reference, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetInInvoice obtiene un pago por ID dentro de la factura.
func (r *PaymentRepo) GetInInvoice(ctx context.Context, invoiceID, id string) (*entity.Payment, error) {
	if !validID(invoiceID, id) {
		return nil, nil
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND invoice_id = $2`
	var p entity.Payment
	err := r.q.QueryRow(ctx, query, id, invoiceID).Scan(
		&p.ID, &p.InvoiceID, &p.Amount, &p.PaidAt, &p.Method, &p.Reference, &p.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// ListByInvoice pagos de la factura en orden de registro.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments WHERE invoice_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaidAt, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina el pago. La factura no se toca.
func (r *PaymentRepo) Delete(ctx context.Context, invoiceID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1 AND invoice_id = $2`, id, invoiceID)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
