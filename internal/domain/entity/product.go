package entity

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable de la empresa.
// Cambiar Price no altera las líneas ya emitidas: cada línea guarda su propia copia del precio.
type Product struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta, >= 0
	ImageRef    string          // referencia opaca al almacenamiento de archivos
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFields campos actualizables de Product.
var ProductFields = []string{"name", "description", "price", "image_ref"}

// Merge devuelve una copia de p con los campos presentes en s aplicados.
func (p Product) Merge(s patch.Set) (Product, error) {
	if err := s.Check(ProductFields...); err != nil {
		return p, err
	}
	for field, dst := range map[string]*string{
		"name":        &p.Name,
		"description": &p.Description,
		"image_ref":   &p.ImageRef,
	} {
		if err := s.String(field, dst); err != nil {
			return p, err
		}
	}
	if err := s.Decimal("price", &p.Price); err != nil {
		return p, err
	}
	if p.Price.IsNegative() {
		return p, domain.NewValidationError("price", "debe ser mayor o igual a 0")
	}
	if err := CheckScale("price", p.Price); err != nil {
		return p, err
	}
	return p, nil
}
