package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/ownership"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	rules "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// EstimateUseCase cotizaciones: mismas reglas de líneas que la factura y conversión a factura.
type EstimateUseCase struct {
	deps usecase.Deps
}

// NewEstimateUseCase construye el caso de uso.
func NewEstimateUseCase(deps usecase.Deps) *EstimateUseCase {
	return &EstimateUseCase{deps: deps.WithDefaults()}
}

// errConverted una cotización convertida ya no se modifica.
var errConverted = fmt.Errorf("%w: la cotización ya fue convertida en factura", domain.ErrConflict)

// Create crea la cotización en estado draft.
func (uc *EstimateUseCase) Create(ctx context.Context, in dto.CreateEstimateRequest) (*dto.EstimateResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.create)
}

func (uc *EstimateUseCase) create(ctx context.Context, caller identity.Caller, in dto.CreateEstimateRequest) (*dto.EstimateResponse, error) {
	issue, err := dto.ParseDate("issue_date", in.IssueDate)
	if err != nil {
		return nil, err
	}
	validUntil, err := dto.ParseDate("valid_until", in.ValidUntil)
	if err != nil {
		return nil, err
	}
	if validUntil.Before(issue) {
		return nil, domain.NewValidationError("valid_until", "no puede ser anterior a issue_date")
	}
	selectors := append([]ownership.Selector{ownership.ClientID(in.ClientID)},
		ownership.ProductIDs(dto.LineProductIDs(in.Lines)...)...)

	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.EstimateResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, selectors...)
		if err != nil {
			return nil, err
		}
		items, err := rules.BuildLines(res.Company.ID, dto.LineInputs(in.Lines), res.Products)
		if err != nil {
			return nil, err
		}
		number, err := assignNumber(ctx, s.Estimates(), res.Company.ID, in.Number, "", rules.EstimateNumberPrefix)
		if err != nil {
			return nil, err
		}
		now := uc.deps.Now()
		est := &entity.Estimate{
			ID:         uc.deps.NewID(),
			CompanyID:  res.Company.ID,
			ClientID:   in.ClientID,
			Number:     number,
			IssueDate:  issue,
			ValidUntil: validUntil,
			Notes:      in.Notes,
			Status:     entity.EstimateStatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		est.Lines = rules.EstimateLines(est.ID, items, uc.deps.NewID)
		if err := s.Estimates().Create(ctx, est); err != nil {
			return nil, err
		}
		return toEstimateResponse(est), nil
	})
}

// Get obtiene la cotización con sus líneas.
func (uc *EstimateUseCase) Get(ctx context.Context, in dto.ResourceRef) (*dto.EstimateResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.get)
}

func (uc *EstimateUseCase) get(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (*dto.EstimateResponse, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.EstimateResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.EstimateID(in.ID))
		if err != nil {
			return nil, err
		}
		return toEstimateResponse(res.Estimate), nil
	})
}

// List lista las cotizaciones de la empresa.
func (uc *EstimateUseCase) List(ctx context.Context, in dto.ListRequest) (*dto.EstimateListResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.list)
}

func (uc *EstimateUseCase) list(ctx context.Context, caller identity.Caller, in dto.ListRequest) (*dto.EstimateListResponse, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.EstimateListResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		list, err := s.Estimates().ListByCompany(ctx, res.Company.ID, in.Page.Limit, in.Page.Offset)
		if err != nil {
			return nil, err
		}
		items := make([]dto.EstimateResponse, 0, len(list))
		for _, e := range list {
			items = append(items, *toEstimateResponse(e))
		}
		return &dto.EstimateListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset},
		}, nil
	})
}

// Update actualización parcial; solo en estado draft.
func (uc *EstimateUseCase) Update(ctx context.Context, in dto.UpdateEstimateRequest) (*dto.EstimateResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.update)
}

func (uc *EstimateUseCase) update(ctx context.Context, caller identity.Caller, in dto.UpdateEstimateRequest) (*dto.EstimateResponse, error) {
	set, err := in.Patch()
	if err != nil {
		return nil, err
	}
	selectors := []ownership.Selector{ownership.EstimateID(in.EstimateID)}
	if in.ClientID != nil {
		selectors = append(selectors, ownership.ClientID(*in.ClientID))
	}
	selectors = append(selectors, ownership.ProductIDs(dto.LineProductIDs(in.Lines)...)...)

	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.EstimateResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, selectors...)
		if err != nil {
			return nil, err
		}
		if res.Estimate.Status == entity.EstimateStatusConverted {
			return nil, errConverted
		}
		merged, err := res.Estimate.Merge(set)
		if err != nil {
			return nil, err
		}
		if merged.ValidUntil.Before(merged.IssueDate) {
			return nil, domain.NewValidationError("valid_until", "no puede ser anterior a issue_date")
		}
		if set.Has("number") {
			if merged.Number, err = assignNumber(ctx, s.Estimates(), merged.CompanyID, merged.Number, merged.ID, rules.EstimateNumberPrefix); err != nil {
				return nil, err
			}
		}
		merged.UpdatedAt = uc.deps.Now()
		if err := s.Estimates().UpdateHeader(ctx, &merged); err != nil {
			return nil, err
		}
		if in.Lines != nil {
			items, err := rules.BuildLines(merged.CompanyID, dto.LineInputs(in.Lines), res.Products)
			if err != nil {
				return nil, err
			}
			merged.Lines = rules.EstimateLines(merged.ID, items, uc.deps.NewID)
			if err := s.Estimates().ReplaceLines(ctx, &merged); err != nil {
				return nil, err
			}
		}
		return toEstimateResponse(&merged), nil
	})
}

// Delete elimina la cotización con sus líneas. La factura generada, si existe, no se toca.
func (uc *EstimateUseCase) Delete(ctx context.Context, in dto.ResourceRef) error {
	_, err := pipeline.Send(ctx, uc.deps.Pipeline, in, uc.delete)
	return err
}

func (uc *EstimateUseCase) delete(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (usecase.Empty, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (usecase.Empty, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.EstimateID(in.ID))
		if err != nil {
			return usecase.Empty{}, err
		}
		return usecase.Empty{}, s.Estimates().Delete(ctx, res.Company.ID, res.Estimate.ID)
	})
}

// ConvertToInvoice genera una factura con las líneas de la cotización tal como fueron cotizadas
// (precio y descripción congelados) y marca la cotización como convertida.
func (uc *EstimateUseCase) ConvertToInvoice(ctx context.Context, in dto.ConvertEstimateRequest) (*dto.InvoiceResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.convert)
}

func (uc *EstimateUseCase) convert(ctx context.Context, caller identity.Caller, in dto.ConvertEstimateRequest) (*dto.InvoiceResponse, error) {
	issue := usecase.Today(uc.deps.Now())
	if in.IssueDate != "" {
		var err error
		if issue, err = dto.ParseDate("issue_date", in.IssueDate); err != nil {
			return nil, err
		}
	}
	due := issue
	if in.DueDate != "" {
		var err error
		if due, err = dto.ParseDate("due_date", in.DueDate); err != nil {
			return nil, err
		}
	}
	if err := rules.ValidateDates(issue, due); err != nil {
		return nil, err
	}

	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.InvoiceResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.EstimateID(in.EstimateID))
		if err != nil {
			return nil, err
		}
		est := res.Estimate
		if est.Status == entity.EstimateStatusConverted {
			return nil, errConverted
		}
		client, err := s.Clients().GetInCompany(ctx, res.Company.ID, est.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrClientNotFound
		}
		number, err := assignNumber(ctx, s.Invoices(), res.Company.ID, in.Number, "", rules.InvoiceNumberPrefix)
		if err != nil {
			return nil, err
		}

		now := uc.deps.Now()
		inv := &entity.Invoice{
			ID:        uc.deps.NewID(),
			CompanyID: res.Company.ID,
			ClientID:  est.ClientID,
			Number:    number,
			IssueDate: issue,
			DueDate:   due,
			Notes:     est.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		items := make([]entity.LineItem, 0, len(est.Lines))
		for _, l := range est.Lines {
			items = append(items, l.LineItem)
		}
		inv.Lines = rules.InvoiceLines(inv.ID, items, uc.deps.NewID)
		if err := s.Invoices().Create(ctx, inv); err != nil {
			return nil, err
		}

		est.Status = entity.EstimateStatusConverted
		est.InvoiceID = inv.ID
		est.UpdatedAt = now
		if err := s.Estimates().UpdateHeader(ctx, est); err != nil {
			return nil, err
		}
		return toInvoiceResponse(inv, client, nil), nil
	})
}

func toEstimateResponse(e *entity.Estimate) *dto.EstimateResponse {
	items := make([]entity.LineItem, 0, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		items = append(items, l.LineItem)
		ids = append(ids, l.ID)
	}
	return &dto.EstimateResponse{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		ClientID:   e.ClientID,
		Number:     e.Number,
		IssueDate:  dto.FormatDate(e.IssueDate),
		ValidUntil: dto.FormatDate(e.ValidUntil),
		Notes:      e.Notes,
		Status:     e.Status,
		InvoiceID:  e.InvoiceID,
		Total:      e.Total(),
		Lines:      toLineResponses(items, ids),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
