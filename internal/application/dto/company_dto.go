package dto

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// CreateCompanyRequest entrada para crear una empresa; el dueño es el llamador.
type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	TaxID       string `json:"tax_id" validate:"omitempty,max=50"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	BankAccount string `json:"bank_account" validate:"omitempty,max=200"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	CompanyID   string  `json:"-" params:"companyId"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	BankAccount *string `json:"bank_account" validate:"omitempty,max=200"`
}

// Patch campos presentes en la petición.
func (r UpdateCompanyRequest) Patch() patch.Set {
	s := patch.Set{}
	patch.Put(s, "name", r.Name)
	patch.Put(s, "tax_id", r.TaxID)
	patch.Put(s, "address", r.Address)
	patch.Put(s, "phone", r.Phone)
	patch.Put(s, "email", r.Email)
	patch.Put(s, "bank_account", r.BankAccount)
	return s
}

// ListCompaniesRequest listado de las empresas del llamador.
type ListCompaniesRequest struct {
	Page PageRequest `json:"page"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	BankAccount string    `json:"bank_account"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
