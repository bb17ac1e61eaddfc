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

// InvoiceUseCase facturas de una empresa: cabecera + líneas en una sola transacción.
type InvoiceUseCase struct {
	deps usecase.Deps
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(deps usecase.Deps) *InvoiceUseCase {
	return &InvoiceUseCase{deps: deps.WithDefaults()}
}

// Create crea la factura. Cliente y productos se resuelven dentro de la empresa; cada línea
// copia el precio y el nombre del producto en este momento.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.create)
}

func (uc *InvoiceUseCase) create(ctx context.Context, caller identity.Caller, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	issue, err := dto.ParseDate("issue_date", in.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := dto.ParseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateDates(issue, due); err != nil {
		return nil, err
	}

	selectors := append([]ownership.Selector{ownership.ClientID(in.ClientID)},
		ownership.ProductIDs(dto.LineProductIDs(in.Lines)...)...)

	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.InvoiceResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, selectors...)
		if err != nil {
			return nil, err
		}
		items, err := rules.BuildLines(res.Company.ID, dto.LineInputs(in.Lines), res.Products)
		if err != nil {
			return nil, err
		}
		number, err := assignNumber(ctx, s.Invoices(), res.Company.ID, in.Number, "", rules.InvoiceNumberPrefix)
		if err != nil {
			return nil, err
		}

		now := uc.deps.Now()
		inv := &entity.Invoice{
			ID:        uc.deps.NewID(),
			CompanyID: res.Company.ID,
			ClientID:  in.ClientID,
			Number:    number,
			IssueDate: issue,
			DueDate:   due,
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		inv.Lines = rules.InvoiceLines(inv.ID, items, uc.deps.NewID)
		if err := s.Invoices().Create(ctx, inv); err != nil {
			return nil, err
		}
		return toInvoiceResponse(inv, res.Client(in.ClientID), nil), nil
	})
}

// Get obtiene la factura con líneas, pagos y saldo.
func (uc *InvoiceUseCase) Get(ctx context.Context, in dto.ResourceRef) (*dto.InvoiceResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.get)
}

func (uc *InvoiceUseCase) get(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (*dto.InvoiceResponse, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.InvoiceResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.InvoiceID(in.ID))
		if err != nil {
			return nil, err
		}
		client, err := s.Clients().GetInCompany(ctx, res.Company.ID, res.Invoice.ClientID)
		if err != nil {
			return nil, err
		}
		payments, err := s.Payments().ListByInvoice(ctx, res.Invoice.ID)
		if err != nil {
			return nil, err
		}
		return toInvoiceResponse(res.Invoice, client, payments), nil
	})
}

// List lista facturas de la empresa con su saldo.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.ListRequest) (*dto.InvoiceListResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.list)
}

func (uc *InvoiceUseCase) list(ctx context.Context, caller identity.Caller, in dto.ListRequest) (*dto.InvoiceListResponse, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.InvoiceListResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		list, err := s.Invoices().ListByCompany(ctx, res.Company.ID, in.Page.Limit, in.Page.Offset)
		if err != nil {
			return nil, err
		}
		items := make([]dto.InvoiceResponse, 0, len(list))
		for _, inv := range list {
			payments, err := s.Payments().ListByInvoice(ctx, inv.ID)
			if err != nil {
				return nil, err
			}
			items = append(items, *toInvoiceResponse(inv, nil, payments))
		}
		return &dto.InvoiceListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset},
		}, nil
	})
}

// Update aplica los campos de cabecera presentes y, si vienen líneas, las reemplaza todas.
// Cabecera y líneas se escriben en la misma transacción.
func (uc *InvoiceUseCase) Update(ctx context.Context, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.update)
}

func (uc *InvoiceUseCase) update(ctx context.Context, caller identity.Caller, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	set, err := in.Patch()
	if err != nil {
		return nil, err
	}
	selectors := []ownership.Selector{ownership.InvoiceID(in.InvoiceID)}
	if in.ClientID != nil {
		selectors = append(selectors, ownership.ClientID(*in.ClientID))
	}
	selectors = append(selectors, ownership.ProductIDs(dto.LineProductIDs(in.Lines)...)...)

	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.InvoiceResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, selectors...)
		if err != nil {
			return nil, err
		}
		current, err := s.Invoices().GetForUpdate(ctx, res.Company.ID, res.Invoice.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrInvoiceNotFound
		}
		merged, err := current.Merge(set)
		if err != nil {
			return nil, err
		}
		if err := rules.ValidateDates(merged.IssueDate, merged.DueDate); err != nil {
			return nil, err
		}
		if set.Has("number") {
			// Número vacío = volver a generar el correlativo.
			if merged.Number, err = assignNumber(ctx, s.Invoices(), merged.CompanyID, merged.Number, merged.ID, rules.InvoiceNumberPrefix); err != nil {
				return nil, err
			}
		}
		payments, err := s.Payments().ListByInvoice(ctx, merged.ID)
		if err != nil {
			return nil, err
		}

		merged.UpdatedAt = uc.deps.Now()
		if err := s.Invoices().UpdateHeader(ctx, &merged); err != nil {
			return nil, err
		}
		if in.Lines != nil {
			items, err := rules.BuildLines(merged.CompanyID, dto.LineInputs(in.Lines), res.Products)
			if err != nil {
				return nil, err
			}
			merged.Lines = rules.InvoiceLines(merged.ID, items, uc.deps.NewID)
			if err := rules.ValidateCoversPayments(merged.Total(), entity.SumPayments(payments)); err != nil {
				return nil, err
			}
			if err := s.Invoices().ReplaceLines(ctx, &merged); err != nil {
				return nil, err
			}
		}

		client, err := s.Clients().GetInCompany(ctx, merged.CompanyID, merged.ClientID)
		if err != nil {
			return nil, err
		}
		return toInvoiceResponse(&merged, client, payments), nil
	})
}

// Delete elimina la factura con todas sus líneas y pagos, de forma atómica.
func (uc *InvoiceUseCase) Delete(ctx context.Context, in dto.ResourceRef) error {
	_, err := pipeline.Send(ctx, uc.deps.Pipeline, in, uc.delete)
	return err
}

func (uc *InvoiceUseCase) delete(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (usecase.Empty, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (usecase.Empty, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.InvoiceID(in.ID))
		if err != nil {
			return usecase.Empty{}, err
		}
		return usecase.Empty{}, s.Invoices().Delete(ctx, res.Company.ID, res.Invoice.ID)
	})
}

// assignNumber valida un número explícito (único por empresa) o genera el siguiente correlativo.
// El lock de numeración se mantiene hasta el commit, así dos altas concurrentes no generan el mismo número.
func assignNumber(ctx context.Context, repo numberRepo, companyID, number, excludeID, prefix string) (string, error) {
	if err := repo.LockNumbering(ctx, companyID); err != nil {
		return "", err
	}
	if number != "" {
		exists, err := repo.NumberExists(ctx, companyID, number, excludeID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("%w: el número %s ya existe en la empresa", domain.ErrDuplicate, number)
		}
		return number, nil
	}
	count, err := repo.CountByCompany(ctx, companyID)
	if err != nil {
		return "", err
	}
	for seq := count + 1; ; seq++ {
		candidate := rules.FormatNumber(prefix, seq)
		exists, err := repo.NumberExists(ctx, companyID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func toLineResponses(items []entity.LineItem, ids []string) []dto.InvoiceLineResponse {
	out := make([]dto.InvoiceLineResponse, 0, len(items))
	for i, it := range items {
		out = append(out, dto.InvoiceLineResponse{
			ID:          ids[i],
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		})
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, client *entity.Client, payments []*entity.Payment) *dto.InvoiceResponse {
	items := make([]entity.LineItem, 0, len(inv.Lines))
	ids := make([]string, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, l.LineItem)
		ids = append(ids, l.ID)
	}
	paid := entity.SumPayments(payments)
	resp := &dto.InvoiceResponse{
		ID:        inv.ID,
		CompanyID: inv.CompanyID,
		ClientID:  inv.ClientID,
		Number:    inv.Number,
		IssueDate: dto.FormatDate(inv.IssueDate),
		DueDate:   dto.FormatDate(inv.DueDate),
		Notes:     inv.Notes,
		Total:     inv.Total(),
		PaidTotal: paid,
		Balance:   rules.Balance(inv, payments),
		Lines:     toLineResponses(items, ids),
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
	if client != nil {
		resp.ClientName = client.Name
	}
	return resp
}
