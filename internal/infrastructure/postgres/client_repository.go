package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, company_id, name, email, address, tax_id, phone, created_at, updated_at`

// Create persiste un cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Name, c.Email, c.Address, c.TaxID, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetInCompany obtiene un cliente por ID dentro de la empresa.
func (r *ClientRepo) GetInCompany(ctx context.Context, companyID, id string) (*entity.Client, error) {
	if !validID(companyID, id) {
		return nil, nil
	}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND company_id = $2`
	var c entity.Client
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Address, &c.TaxID, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// ListByCompany lista clientes por empresa con paginación.
func (r *ClientRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients WHERE company_id = $1
		ORDER BY created_at, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Address, &c.TaxID, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente existente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $3, email = $4, address = $5, tax_id = $6, phone = $7, updated_at = $8
		WHERE id = $1 AND company_id = $2`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.Name, c.Email, c.Address, c.TaxID, c.Phone, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete elimina un cliente de la empresa.
func (r *ClientRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// IsReferenced informa si alguna factura o cotización apunta al cliente.
func (r *ClientRepo) IsReferenced(ctx context.Context, companyID, id string) (bool, error) {
	const query = `
		SELECT EXISTS (SELECT 1 FROM invoices  WHERE client_id = $1 AND company_id = $2)
		    OR EXISTS (SELECT 1 FROM estimates WHERE client_id = $1 AND company_id = $2)`
	var referenced bool
	if err := r.q.QueryRow(ctx, query, id, companyID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check client references: %w", err)
	}
	return referenced, nil
}
