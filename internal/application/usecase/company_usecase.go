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

// CompanyUseCase empresas del llamador. La empresa es el límite del tenant.
type CompanyUseCase struct {
	deps Deps
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(deps Deps) *CompanyUseCase {
	return &CompanyUseCase{deps: deps.WithDefaults()}
}

// Create crea una empresa cuyo dueño es el llamador.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.create)
}

func (uc *CompanyUseCase) create(ctx context.Context, caller identity.Caller, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.CompanyResponse, error) {
		user, err := ownership.ResolveUser(ctx, s, caller.UserID)
		if err != nil {
			return nil, err
		}
		now := uc.deps.Now()
		company := &entity.Company{
			ID:          uc.deps.NewID(),
			OwnerID:     user.ID,
			Name:        in.Name,
			TaxID:       in.TaxID,
			Address:     in.Address,
			Phone:       in.Phone,
			Email:       in.Email,
			BankAccount: in.BankAccount,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Companies().Create(ctx, company); err != nil {
			return nil, err
		}
		return toCompanyResponse(company), nil
	})
}

// Get obtiene una empresa del llamador.
func (uc *CompanyUseCase) Get(ctx context.Context, in dto.CompanyRef) (*dto.CompanyResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.get)
}

func (uc *CompanyUseCase) get(ctx context.Context, caller identity.Caller, in dto.CompanyRef) (*dto.CompanyResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.CompanyResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		return toCompanyResponse(res.Company), nil
	})
}

// List lista las empresas del llamador con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, in dto.ListCompaniesRequest) (*dto.CompanyListResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.list)
}

func (uc *CompanyUseCase) list(ctx context.Context, caller identity.Caller, in dto.ListCompaniesRequest) (*dto.CompanyListResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.CompanyListResponse, error) {
		user, err := ownership.ResolveUser(ctx, s, caller.UserID)
		if err != nil {
			return nil, err
		}
		list, err := s.Companies().ListByOwner(ctx, user.ID, in.Page.Limit, in.Page.Offset)
		if err != nil {
			return nil, err
		}
		items := make([]dto.CompanyResponse, 0, len(list))
		for _, c := range list {
			items = append(items, *toCompanyResponse(c))
		}
		return &dto.CompanyListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset},
		}, nil
	})
}

// Update aplica los campos presentes; los omitidos conservan su valor.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.update)
}

func (uc *CompanyUseCase) update(ctx context.Context, caller identity.Caller, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.CompanyResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		merged, err := res.Company.Merge(in.Patch())
		if err != nil {
			return nil, err
		}
		merged.UpdatedAt = uc.deps.Now()
		if err := s.Companies().Update(ctx, &merged); err != nil {
			return nil, err
		}
		return toCompanyResponse(&merged), nil
	})
}

// Delete elimina la empresa y todo lo que posee.
func (uc *CompanyUseCase) Delete(ctx context.Context, in dto.CompanyRef) error {
	_, err := pipeline.Send(ctx, uc.deps.Pipeline, in, uc.delete)
	return err
}

func (uc *CompanyUseCase) delete(ctx context.Context, caller identity.Caller, in dto.CompanyRef) (Empty, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (Empty, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return Empty{}, err
		}
		return Empty{}, s.Companies().Delete(ctx, res.Company.ID)
	})
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		TaxID:       c.TaxID,
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		BankAccount: c.BankAccount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
