// Package analytics contiene los reportes de solo lectura sobre la facturación de una empresa.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/ownership"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// SummaryUseCase genera el resumen de facturación de una empresa.
//
// Fuente de datos: SummaryRepository (consultas read-only), dentro de la misma
// transacción que resuelve la pertenencia de la empresa.
type SummaryUseCase struct {
	deps usecase.Deps
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(deps usecase.Deps) *SummaryUseCase {
	return &SummaryUseCase{deps: deps.WithDefaults()}
}

// Get construye el CompanySummaryDTO. Las facturas vencidas se cuentan respecto al día de hoy.
func (uc *SummaryUseCase) Get(ctx context.Context, in dto.CompanyRef) (*dto.CompanySummaryDTO, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.get)
}

func (uc *SummaryUseCase) get(ctx context.Context, caller identity.Caller, in dto.CompanyRef) (*dto.CompanySummaryDTO, error) {
	asOf := usecase.Today(uc.deps.Now())
	return usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.CompanySummaryDTO, error) {
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		sum, err := s.Summaries().GetCompanySummary(ctx, res.Company.ID, asOf)
		if err != nil {
			return nil, fmt.Errorf("resumen: %w", err)
		}

		// ── Construir DTO ──────────────────────────────────────────────────────
		return &dto.CompanySummaryDTO{
			Clients:         sum.Clients,
			Products:        sum.Products,
			Invoices:        sum.Invoices,
			Estimates:       sum.Estimates,
			InvoicedTotal:   sum.InvoicedTotal.Round(2),
			PaidTotal:       sum.PaidTotal.Round(2),
			Outstanding:     sum.InvoicedTotal.Sub(sum.PaidTotal).Round(2),
			OverdueInvoices: sum.OverdueCount,
			AsOf:            dto.FormatDate(asOf),
		}, nil
	})
}
