package entity

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/patch"
)

// Client representa un cliente de la empresa. Facturas y cotizaciones lo referencian (no lo poseen).
type Client struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	Address   string
	TaxID     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientFields campos actualizables de Client.
var ClientFields = []string{"name", "email", "address", "tax_id", "phone"}

// Merge devuelve una copia de c con los campos presentes en s aplicados.
func (c Client) Merge(s patch.Set) (Client, error) {
	if err := s.Check(ClientFields...); err != nil {
		return c, err
	}
	for field, dst := range map[string]*string{
		"name":    &c.Name,
		"email":   &c.Email,
		"address": &c.Address,
		"tax_id":  &c.TaxID,
		"phone":   &c.Phone,
	} {
		if err := s.String(field, dst); err != nil {
			return c, err
		}
	}
	return c, nil
}
