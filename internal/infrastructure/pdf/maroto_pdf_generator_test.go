package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func TestFormatMoney_SeparadoresColombianos(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0,00"},
		{"25", "$25,00"},
		{"25000", "$25.000,00"},
		{"1234567.891", "$1.234.567,89"},
		{"-1234.5", "-$1.234,50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func sampleDocument() *billing.InvoiceDocument {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &billing.InvoiceDocument{
		Company: &entity.Company{ID: "c1", Name: "Acme", TaxID: "900123", BankAccount: "ES12 3456"},
		Client:  &entity.Client{ID: "cl1", Name: "Cliente", Email: "c@x.io"},
		Invoice: &entity.Invoice{
			ID: "i1", CompanyID: "c1", ClientID: "cl1", Number: "INV-000001",
			IssueDate: issue, DueDate: issue.AddDate(0, 0, 30), Notes: "Gracias",
			Lines: []entity.ProductInvoice{{ID: "l1", InvoiceID: "i1", LineItem: entity.LineItem{
				Description: "Horas", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("12.50"),
			}}},
		},
		Payments: []*entity.Payment{{ID: "p1", InvoiceID: "i1", Amount: decimal.NewFromInt(5), PaidAt: issue}},
	}
}

func TestGenerateInvoicePDF_GeneraDocumento(t *testing.T) {
	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_ClienteEliminado(t *testing.T) {
	doc := sampleDocument()
	doc.Client = nil
	doc.Payments = nil
	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateInvoicePDF_DocumentoIncompleto(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), &billing.InvoiceDocument{})
	assert.Error(t, err)
}
