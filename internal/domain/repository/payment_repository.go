package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
// Los pagos se buscan siempre a través de su factura.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetInInvoice(ctx context.Context, invoiceID, id string) (*entity.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	Delete(ctx context.Context, invoiceID, id string) error
}
