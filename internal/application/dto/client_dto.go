package dto

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// CreateClientRequest entrada para crear un cliente de la empresa.
type CreateClientRequest struct {
	CompanyID string `json:"-" params:"companyId"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"omitempty,max=300"`
	TaxID     string `json:"tax_id" validate:"omitempty,max=50"`
	Phone     string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateClientRequest entrada para actualizar un cliente (campos opcionales).
type UpdateClientRequest struct {
	CompanyID string  `json:"-" params:"companyId"`
	ClientID  string  `json:"-" params:"id"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Address   *string `json:"address" validate:"omitempty,max=300"`
	TaxID     *string `json:"tax_id" validate:"omitempty,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

// Patch campos presentes en la petición.
func (r UpdateClientRequest) Patch() patch.Set {
	s := patch.Set{}
	patch.Put(s, "name", r.Name)
	patch.Put(s, "email", r.Email)
	patch.Put(s, "address", r.Address)
	patch.Put(s, "tax_id", r.TaxID)
	patch.Put(s, "phone", r.Phone)
	return s
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	TaxID     string    `json:"tax_id,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
