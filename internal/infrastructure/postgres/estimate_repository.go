package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.EstimateRepository = (*EstimateRepo)(nil)

// EstimateRepo implementación de EstimateRepository (usable con pool o tx).
type EstimateRepo struct {
	q Querier
}

// NewEstimateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEstimateRepository(q Querier) *EstimateRepo {
	return &EstimateRepo{q: q}
}

const estimateColumns = `id, company_id, client_id, number, issue_date, valid_until, notes, status, invoice_id, created_at, updated_at`

// Create persiste la cabecera y sus líneas.
func (r *EstimateRepo) Create(ctx context.Context, e *entity.Estimate) error {
	query := `
		INSERT INTO estimates (` + estimateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.ClientID, e.Number, e.IssueDate, e.ValidUntil, e.Notes, e.Status,
		nullIfEmpty(e.InvoiceID), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el número de cotización ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert estimate: %w", err)
	}
	return estimateLines.insert(ctx, r.q, e.ID, estimateLineRows(e.Lines))
}

// GetInCompany obtiene la cotización con sus líneas si pertenece a companyID.
func (r *EstimateRepo) GetInCompany(ctx context.Context, companyID, id string) (*entity.Estimate, error) {
	if !validID(companyID, id) {
		return nil, nil
	}
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE id = $1 AND company_id = $2`
	e, err := scanEstimate(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estimate: %w", err)
	}
	if err := r.loadLines(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByCompany lista cotizaciones de la empresa (con líneas) con paginación.
func (r *EstimateRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Estimate, error) {
	query := `
		SELECT ` + estimateColumns + `
		FROM estimates WHERE company_id = $1
		ORDER BY created_at, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	var list []*entity.Estimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		list = append(list, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	for _, e := range list {
		if err := r.loadLines(ctx, e); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateHeader actualiza cabecera, estado y factura generada.
func (r *EstimateRepo) UpdateHeader(ctx context.Context, e *entity.Estimate) error {
	query := `
		UPDATE estimates
		SET client_id   = $3,
		    number      = $4,
		    issue_date  = $5,
		    valid_until = $6,
		    notes       = $7,
		    status      = $8,
		    invoice_id  = $9,
		    updated_at  = $10
		WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.ClientID, e.Number, e.IssueDate, e.ValidUntil, e.Notes, e.Status,
		nullIfEmpty(e.InvoiceID), e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el número de cotización ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update estimate: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEstimateNotFound
	}
	return nil
}

// ReplaceLines borra las líneas actuales e inserta las de e.Lines.
func (r *EstimateRepo) ReplaceLines(ctx context.Context, e *entity.Estimate) error {
	return estimateLines.replace(ctx, r.q, e.ID, estimateLineRows(e.Lines))
}

// Delete elimina la cotización; sus líneas caen por ON DELETE CASCADE.
func (r *EstimateRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM estimates WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	return nil
}

// NumberExists informa si otra cotización de la empresa ya usa el número.
func (r *EstimateRepo) NumberExists(ctx context.Context, companyID, number, excludeID string) (bool, error) {
	return numberExists(ctx, r.q, "estimates", companyID, number, excludeID)
}

// CountByCompany cantidad de cotizaciones de la empresa.
func (r *EstimateRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	return countByCompany(ctx, r.q, "estimates", companyID)
}

// LockNumbering toma un advisory lock de transacción por empresa para la numeración de cotizaciones.
func (r *EstimateRepo) LockNumbering(ctx context.Context, companyID string) error {
	return lockNumbering(ctx, r.q, "estimates", companyID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEstimate(row rowScanner) (*entity.Estimate, error) {
	var (
		e         entity.Estimate
		invoiceID *string
	)
	if err := row.Scan(
		&e.ID, &e.CompanyID, &e.ClientID, &e.Number, &e.IssueDate, &e.ValidUntil, &e.Notes, &e.Status,
		&invoiceID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.InvoiceID = derefStr(invoiceID)
	return &e, nil
}

func (r *EstimateRepo) loadLines(ctx context.Context, e *entity.Estimate) error {
	rows, err := estimateLines.load(ctx, r.q, e.ID)
	if err != nil {
		return err
	}
	e.Lines = make([]entity.ProductEstimate, 0, len(rows))
	for _, l := range rows {
		e.Lines = append(e.Lines, entity.ProductEstimate{ID: l.ID, EstimateID: e.ID, LineItem: l.LineItem})
	}
	return nil
}

func estimateLineRows(lines []entity.ProductEstimate) []lineRow {
	out := make([]lineRow, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineRow{ID: l.ID, LineItem: l.LineItem})
	}
	return out
}
