package usecase

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/ownership"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. El precio del producto solo afecta líneas nuevas.
type ProductUseCase struct {
	deps Deps
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(deps Deps) *ProductUseCase {
	return &ProductUseCase{deps: deps.WithDefaults()}
}

// Create crea un producto en la empresa.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.create)
}

func (uc *ProductUseCase) create(ctx context.Context, caller identity.Caller, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ProductResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		now := uc.deps.Now()
		product := &entity.Product{
			ID:          uc.deps.NewID(),
			CompanyID:   res.Company.ID,
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			ImageRef:    in.ImageRef,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Products().Create(ctx, product); err != nil {
			return nil, err
		}
		return toProductResponse(product), nil
	})
}

// Get obtiene un producto de la empresa.
func (uc *ProductUseCase) Get(ctx context.Context, in dto.ResourceRef) (*dto.ProductResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.get)
}

func (uc *ProductUseCase) get(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (*dto.ProductResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ProductResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.ProductID(in.ID))
		if err != nil {
			return nil, err
		}
		return toProductResponse(res.Product(in.ID)), nil
	})
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ListRequest) (*dto.ProductListResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.list)
}

func (uc *ProductUseCase) list(ctx context.Context, caller identity.Caller, in dto.ListRequest) (*dto.ProductListResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ProductListResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		list, err := s.Products().ListByCompany(ctx, res.Company.ID, in.Page.Limit, in.Page.Offset)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			items = append(items, *toProductResponse(p))
		}
		return &dto.ProductListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset},
		}, nil
	})
}

// Update actualiza un producto. Las líneas ya emitidas conservan el precio copiado.
func (uc *ProductUseCase) Update(ctx context.Context, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.update)
}

func (uc *ProductUseCase) update(ctx context.Context, caller identity.Caller, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ProductResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.ProductID(in.ProductID))
		if err != nil {
			return nil, err
		}
		merged, err := res.Product(in.ProductID).Merge(in.Patch())
		if err != nil {
			return nil, err
		}
		merged.UpdatedAt = uc.deps.Now()
		if err := s.Products().Update(ctx, &merged); err != nil {
			return nil, err
		}
		return toProductResponse(&merged), nil
	})
}

// Delete elimina un producto; las líneas que lo usaban quedan sin referencia pero intactas.
func (uc *ProductUseCase) Delete(ctx context.Context, in dto.ResourceRef) error {
	_, err := pipeline.Send(ctx, uc.deps.Pipeline, in, uc.delete)
	return err
}

func (uc *ProductUseCase) delete(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (Empty, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (Empty, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.ProductID(in.ID))
		if err != nil {
			return Empty{}, err
		}
		return Empty{}, s.Products().Delete(ctx, res.Company.ID, in.ID)
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageRef:    p.ImageRef,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
