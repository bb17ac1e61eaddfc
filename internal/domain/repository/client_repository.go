package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Todas las búsquedas van acotadas a una empresa ya resuelta.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetInCompany(ctx context.Context, companyID, id string) (*entity.Client, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, companyID, id string) error
	// IsReferenced informa si alguna factura o cotización apunta al cliente.
	IsReferenced(ctx context.Context, companyID, id string) (bool, error)
}
