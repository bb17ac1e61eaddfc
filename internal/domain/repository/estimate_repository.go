package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// EstimateRepository define el puerto de persistencia para Estimate y sus líneas.
type EstimateRepository interface {
	Create(ctx context.Context, estimate *entity.Estimate) error
	GetInCompany(ctx context.Context, companyID, id string) (*entity.Estimate, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Estimate, error)
	UpdateHeader(ctx context.Context, estimate *entity.Estimate) error
	ReplaceLines(ctx context.Context, estimate *entity.Estimate) error
	Delete(ctx context.Context, companyID, id string) error
	NumberExists(ctx context.Context, companyID, number, excludeID string) (bool, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	LockNumbering(ctx context.Context, companyID string) error
}
