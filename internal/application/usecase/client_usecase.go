package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/ownership"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ClientUseCase CRUD de clientes dentro de una empresa del llamador.
type ClientUseCase struct {
	deps Deps
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(deps Deps) *ClientUseCase {
	return &ClientUseCase{deps: deps.WithDefaults()}
}

// Create crea un cliente en la empresa.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.create)
}

func (uc *ClientUseCase) create(ctx context.Context, caller identity.Caller, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ClientResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		now := uc.deps.Now()
		client := &entity.Client{
			ID:        uc.deps.NewID(),
			CompanyID: res.Company.ID,
			Name:      in.Name,
			Email:     in.Email,
			Address:   in.Address,
			TaxID:     in.TaxID,
			Phone:     in.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Clients().Create(ctx, client); err != nil {
			return nil, err
		}
		return toClientResponse(client), nil
	})
}

// Get obtiene un cliente de la empresa.
func (uc *ClientUseCase) Get(ctx context.Context, in dto.ResourceRef) (*dto.ClientResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.get)
}

func (uc *ClientUseCase) get(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (*dto.ClientResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ClientResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.ClientID(in.ID))
		if err != nil {
			return nil, err
		}
		return toClientResponse(res.Client(in.ID)), nil
	})
}

// List lista los clientes de la empresa.
func (uc *ClientUseCase) List(ctx context.Context, in dto.ListRequest) (*dto.ClientListResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.list)
}

func (uc *ClientUseCase) list(ctx context.Context, caller identity.Caller, in dto.ListRequest) (*dto.ClientListResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ClientListResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		list, err := s.Clients().ListByCompany(ctx, res.Company.ID, in.Page.Limit, in.Page.Offset)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ClientResponse, 0, len(list))
		for _, c := range list {
			items = append(items, *toClientResponse(c))
		}
		return &dto.ClientListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset},
		}, nil
	})
}

// Update aplica los campos presentes; los omitidos conservan su valor.
func (uc *ClientUseCase) Update(ctx context.Context, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.update)
}

func (uc *ClientUseCase) update(ctx context.Context, caller identity.Caller, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.ClientResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.ClientID(in.ClientID))
		if err != nil {
			return nil, err
		}
		merged, err := res.Client(in.ClientID).Merge(in.Patch())
		if err != nil {
			return nil, err
		}
		merged.UpdatedAt = uc.deps.Now()
		if err := s.Clients().Update(ctx, &merged); err != nil {
			return nil, err
		}
		return toClientResponse(&merged), nil
	})
}

// Delete elimina un cliente. Si alguna factura o cotización lo referencia devuelve domain.ErrConflict.
func (uc *ClientUseCase) Delete(ctx context.Context, in dto.ResourceRef) error {
	_, err := pipeline.Send(ctx, uc.deps.Pipeline, in, uc.delete)
	return err
}

func (uc *ClientUseCase) delete(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (Empty, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (Empty, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.ClientID(in.ID))
		if err != nil {
			return Empty{}, err
		}
		used, err := s.Clients().IsReferenced(ctx, res.Company.ID, in.ID)
		if err != nil {
			return Empty{}, err
		}
		if used {
			return Empty{}, fmt.Errorf("%w: el cliente tiene facturas o cotizaciones", domain.ErrConflict)
		}
		return Empty{}, s.Clients().Delete(ctx, res.Company.ID, in.ID)
	})
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Email:     c.Email,
		Address:   c.Address,
		TaxID:     c.TaxID,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
