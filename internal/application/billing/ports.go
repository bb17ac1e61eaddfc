package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceDocument datos ya autorizados que se imprimen en el PDF.
type InvoiceDocument struct {
	Company  *entity.Company
	Client   *entity.Client // nil si ya no existe
	Invoice  *entity.Invoice
	Payments []*entity.Payment
}

// InvoicePDFGenerator puerto de salida para la representación gráfica de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// numberRepo lo que necesita la numeración correlativa (facturas y cotizaciones).
type numberRepo interface {
	NumberExists(ctx context.Context, companyID, number, excludeID string) (bool, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	LockNumbering(ctx context.Context, companyID string) error
}
