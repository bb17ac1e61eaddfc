package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

func TestClientMerge_SoloCambiaElCampoPresente(t *testing.T) {
	orig := entity.Client{ID: "cl1", CompanyID: "c1", Name: "ACME", Email: "a@acme.io", Phone: "555"}

	name := "ACME S.A."
	set := patch.Put(patch.Set{}, "name", &name)
	set = patch.Put[string](set, "email", nil)
	set["phone"] = nil

	merged, err := orig.Merge(set)
	require.NoError(t, err)
	assert.Equal(t, "ACME S.A.", merged.Name)
	assert.Equal(t, "a@acme.io", merged.Email)
	assert.Equal(t, "555", merged.Phone)
	assert.Equal(t, "ACME", orig.Name, "la fusión no modifica el original")
}

func TestClientMerge_MismoValorEsIdempotente(t *testing.T) {
	orig := entity.Client{ID: "cl1", Name: "ACME", Email: "a@acme.io"}
	merged, err := orig.Merge(patch.Set{"name": "ACME"})
	require.NoError(t, err)
	assert.Equal(t, orig, merged)
}

func TestMerge_CampoDesconocidoOTipoInvalido(t *testing.T) {
	_, err := entity.Client{}.Merge(patch.Set{"company_id": "otra"})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	_, err = entity.Client{}.Merge(patch.Set{"name": 42})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestProductMerge_Precio(t *testing.T) {
	p := entity.Product{Name: "Hora", Price: decimal.NewFromInt(10)}

	merged, err := p.Merge(patch.Set{"price": decimal.NewFromInt(12)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(merged.Price))
	assert.Equal(t, "Hora", merged.Name)

	_, err = p.Merge(patch.Set{"price": decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	// NUMERIC(18,4) redondearía 10.12345; se rechaza en lugar de guardar otro valor.
	_, err = p.Merge(patch.Set{"price": decimal.RequireFromString("10.12345")})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestInvoiceMerge_NoTocaLineas(t *testing.T) {
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	inv := entity.Invoice{
		Number: "INV-000001",
		Lines:  []entity.ProductInvoice{{ID: "l1", LineItem: entity.LineItem{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(3)}}},
	}
	merged, err := inv.Merge(patch.Set{"due_date": &due, "notes": "30 días"})
	require.NoError(t, err)
	assert.Equal(t, due, merged.DueDate)
	assert.Equal(t, "30 días", merged.Notes)
	assert.Equal(t, "INV-000001", merged.Number)
	assert.Len(t, merged.Lines, 1)
}

func TestSet_CamposPresentes(t *testing.T) {
	s := patch.Set{"b": "x", "a": "y", "c": nil}
	assert.Equal(t, []string{"a", "b"}, s.Fields())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
}
