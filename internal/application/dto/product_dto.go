package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	CompanyID   string          `json:"-" params:"companyId"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	ImageRef    string          `json:"image_ref" validate:"omitempty,max=500"`
}

// Validate el precio se almacena con DecimalScale decimales.
func (r CreateProductRequest) Validate() error {
	return entity.CheckScale("price", r.Price)
}

// UpdateProductRequest entrada para actualizar un producto. Cambiar el precio no altera
// las líneas ya emitidas.
type UpdateProductRequest struct {
	CompanyID   string           `json:"-" params:"companyId"`
	ProductID   string           `json:"-" params:"id"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	ImageRef    *string          `json:"image_ref" validate:"omitempty,max=500"`
}

// Patch campos presentes en la petición.
func (r UpdateProductRequest) Patch() patch.Set {
	s := patch.Set{}
	patch.Put(s, "name", r.Name)
	patch.Put(s, "description", r.Description)
	patch.Put(s, "price", r.Price)
	patch.Put(s, "image_ref", r.ImageRef)
	return s
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageRef    string          `json:"image_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
