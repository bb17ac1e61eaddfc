package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, owner_id, name, tax_id, address, phone, email, bank_account, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.OwnerID, company.Name, company.TaxID, company.Address,
		company.Phone, company.Email, company.BankAccount,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetOwned obtiene la empresa solo si pertenece a ownerID, en una única consulta.
// FOR SHARE bloquea un DELETE concurrente de la empresa hasta que termine la transacción.
func (r *CompanyRepo) GetOwned(ctx context.Context, ownerID, companyID string) (*entity.Company, error) {
	if !validID(ownerID, companyID) {
		return nil, nil
	}
	query := `
		SELECT ` + companyColumns + `
		FROM companies WHERE id = $1 AND owner_id = $2
		FOR SHARE`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, companyID, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.BankAccount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// ListByOwner devuelve las empresas del usuario con paginación.
func (r *CompanyRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Company, error) {
	if !validID(ownerID) {
		return nil, nil
	}
	query := `
		SELECT ` + companyColumns + `
		FROM companies WHERE owner_id = $1
		ORDER BY created_at, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.BankAccount,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza una empresa existente. El dueño no cambia.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $3, tax_id = $4, address = $5, phone = $6, email = $7, bank_account = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.OwnerID, company.Name, company.TaxID, company.Address,
		company.Phone, company.Email, company.BankAccount, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// Delete elimina la empresa; clientes, productos, facturas, cotizaciones y pagos caen por ON DELETE CASCADE.
func (r *CompanyRepo) Delete(ctx context.Context, companyID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
