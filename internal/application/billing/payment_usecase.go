package billing

import (
	"context"

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

// PaymentUseCase pagos aplicados a una factura. Los pagos se alcanzan siempre a través de su factura.
type PaymentUseCase struct {
	deps usecase.Deps
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(deps usecase.Deps) *PaymentUseCase {
	return &PaymentUseCase{deps: deps.WithDefaults()}
}

// Create registra un pago; el monto no puede superar el saldo pendiente.
func (uc *PaymentUseCase) Create(ctx context.Context, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.create)
}

func (uc *PaymentUseCase) create(ctx context.Context, caller identity.Caller, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	paidAt := usecase.Today(uc.deps.Now())
	if in.PaidAt != "" {
		var err error
		if paidAt, err = dto.ParseDate("paid_at", in.PaidAt); err != nil {
			return nil, err
		}
	}
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.PaymentResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.InvoiceID(in.InvoiceID))
		if err != nil {
			return nil, err
		}
		// Con la factura bloqueada, un pago concurrente espera y luego ve el saldo ya descontado.
		inv, err := s.Invoices().GetForUpdate(ctx, res.Company.ID, res.Invoice.ID)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, domain.ErrInvoiceNotFound
		}
		payments, err := s.Payments().ListByInvoice(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		if err := rules.ValidatePayment(in.Amount, rules.Balance(inv, payments)); err != nil {
			return nil, err
		}
		p := &entity.Payment{
			ID:        uc.deps.NewID(),
			InvoiceID: inv.ID,
			Amount:    in.Amount,
			PaidAt:    paidAt,
			Method:    in.Method,
			Reference: in.Reference,
			CreatedAt: uc.deps.Now(),
		}
		if err := s.Payments().Create(ctx, p); err != nil {
			return nil, err
		}
		return toPaymentResponse(p), nil
	})
}

// List pagos de la factura con total, pagado y saldo.
func (uc *PaymentUseCase) List(ctx context.Context, in dto.InvoiceRef) (*dto.PaymentListResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.list)
}

func (uc *PaymentUseCase) list(ctx context.Context, caller identity.Caller, in dto.InvoiceRef) (*dto.PaymentListResponse, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.PaymentListResponse, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.InvoiceID(in.InvoiceID))
		if err != nil {
			return nil, err
		}
		payments, err := s.Payments().ListByInvoice(ctx, res.Invoice.ID)
		if err != nil {
			return nil, err
		}
		items := make([]dto.PaymentResponse, 0, len(payments))
		for _, p := range payments {
			items = append(items, *toPaymentResponse(p))
		}
		return &dto.PaymentListResponse{
			Items:     items,
			Total:     res.Invoice.Total(),
			PaidTotal: entity.SumPayments(payments),
			Balance:   rules.Balance(res.Invoice, payments),
		}, nil
	})
}

// Delete elimina el pago; la factura queda intacta con el saldo recalculado.
func (uc *PaymentUseCase) Delete(ctx context.Context, in dto.PaymentRef) error {
	_, err := pipeline.Send(ctx, uc.deps.Pipeline, in, uc.delete)
	return err
}

func (uc *PaymentUseCase) delete(ctx context.Context, caller identity.Caller, in dto.PaymentRef) (usecase.Empty, error) {
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (usecase.Empty, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID,
			ownership.InvoiceID(in.InvoiceID), ownership.PaymentID(in.PaymentID))
		if err != nil {
			return usecase.Empty{}, err
		}
		return usecase.Empty{}, s.Payments().Delete(ctx, res.Invoice.ID, res.Payment.ID)
	})
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		PaidAt:    dto.FormatDate(p.PaidAt),
		Method:    p.Method,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}
