package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/ownership"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	deps      usecase.Deps
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(deps usecase.Deps, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{deps: deps.WithDefaults(), generator: generator}
}

// DownloadInvoicePDF autoriza la factura por la cadena de pertenencia, carga empresa, cliente
// y pagos en la misma transacción y genera el PDF fuera de ella.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, in dto.ResourceRef) (*dto.InvoicePDF, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, in, uc.download)
}

func (uc *PDFUseCase) download(ctx context.Context, caller identity.Caller, in dto.ResourceRef) (*dto.InvoicePDF, error) {
	doc, err := usecase.InTx(ctx, uc.deps.Tx, func(s repository.Store) (*InvoiceDocument, error) {
		// ── 1. Cadena usuario → empresa → factura ─────────────────────────────
		res, err := ownership.ResolveChain(ctx, s, caller.UserID, in.CompanyID, ownership.InvoiceID(in.ID))
		if err != nil {
			return nil, err
		}
		// ── 2. Cliente (puede faltar si la referencia quedó vacía) ────────────
		client, err := s.Clients().GetInCompany(ctx, res.Company.ID, res.Invoice.ClientID)
		if err != nil {
			return nil, fmt.Errorf("pdf: obtener cliente: %w", err)
		}
		// ── 3. Pagos para el saldo ────────────────────────────────────────────
		payments, err := s.Payments().ListByInvoice(ctx, res.Invoice.ID)
		if err != nil {
			return nil, fmt.Errorf("pdf: obtener pagos: %w", err)
		}
		return &InvoiceDocument{Company: res.Company, Client: client, Invoice: res.Invoice, Payments: payments}, nil
	})
	if err != nil {
		return nil, err
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	content, err := uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return &dto.InvoicePDF{
		Filename: fmt.Sprintf("factura_%s.pdf", safeFilename(doc.Invoice.Number)),
		Content:  content,
	}, nil
}

func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
