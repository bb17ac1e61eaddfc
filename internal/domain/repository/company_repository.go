package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// No expone búsqueda por ID sin dueño: toda lectura se filtra por owner_id.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	// GetOwned devuelve la empresa solo si pertenece a ownerID; (nil, nil) en otro caso.
	GetOwned(ctx context.Context, ownerID, companyID string) (*entity.Company, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// Delete elimina la empresa y en cascada todo lo que posee.
	Delete(ctx context.Context, companyID string) error
}
