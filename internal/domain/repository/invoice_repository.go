package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetInCompany devuelve la factura con sus líneas si pertenece a companyID.
	GetInCompany(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	// GetForUpdate igual que GetInCompany pero bloquea la fila hasta el fin de la transacción.
	// Lo usan las escrituras que validan contra el saldo (pagos, reemplazo de líneas).
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error)
	// UpdateHeader actualiza solo la cabecera.
	UpdateHeader(ctx context.Context, invoice *entity.Invoice) error
	// ReplaceLines borra las líneas actuales e inserta las de invoice.Lines.
	ReplaceLines(ctx context.Context, invoice *entity.Invoice) error
	// Delete elimina la factura con sus líneas y pagos.
	Delete(ctx context.Context, companyID, id string) error
	NumberExists(ctx context.Context, companyID, number, excludeID string) (bool, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	// LockNumbering serializa la numeración de facturas de la empresa hasta el fin de la transacción.
	LockNumbering(ctx context.Context, companyID string) error
}
