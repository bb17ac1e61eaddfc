package entity

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// Company representa una empresa/tenant. Pertenece a un único User (OwnerID) y es dueña
// de clientes, productos, facturas y cotizaciones.
type Company struct {
	ID          string
	OwnerID     string
	Name        string
	TaxID       string // NIT, RUT, VAT… según el país
	Address     string
	Phone       string
	Email       string
	BankAccount string // datos de pago que se imprimen en la factura
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompanyFields campos actualizables de Company.
var CompanyFields = []string{"name", "tax_id", "address", "phone", "email", "bank_account"}

// Merge devuelve una copia de c con los campos presentes en s aplicados.
func (c Company) Merge(s patch.Set) (Company, error) {
	if err := s.Check(CompanyFields...); err != nil {
		return c, err
	}
	for field, dst := range map[string]*string{
		"name":         &c.Name,
		"tax_id":       &c.TaxID,
		"address":      &c.Address,
		"phone":        &c.Phone,
		"email":        &c.Email,
		"bank_account": &c.BankAccount,
	} {
		if err := s.String(field, dst); err != nil {
			return c, err
		}
	}
	return c, nil
}
