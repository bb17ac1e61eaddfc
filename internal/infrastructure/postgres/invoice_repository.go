package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// El total no se persiste: se deriva de product_invoices.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, client_id, number, issue_date, due_date, notes, created_at, updated_at`

// Create persiste la cabecera y sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.ClientID, inv.Number, inv.IssueDate, inv.DueDate, inv.Notes,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el número de factura ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return invoiceLines.insert(ctx, r.q, inv.ID, invoiceLineRows(inv.Lines))
}

// GetInCompany obtiene la factura con sus líneas si pertenece a companyID.
func (r *InvoiceRepo) GetInCompany(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	if !validID(companyID, id) {
		return nil, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND company_id = $2`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.loadLines(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetForUpdate obtiene la factura con SELECT ... FOR UPDATE. Otra transacción que quiera
// registrar un pago o cambiar líneas espera al commit y luego lee el estado ya confirmado.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	if !validID(companyID, id) {
		return nil, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock invoice: %w", err)
	}
	if err := r.loadLines(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByCompany lista facturas de la empresa (con líneas) con paginación.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices WHERE company_id = $1
		ORDER BY created_at, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.Notes,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	// Las líneas se cargan después de cerrar rows: una tx no admite dos consultas abiertas.
	for _, inv := range list {
		if err := r.loadLines(ctx, inv); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateHeader actualiza solo la cabecera.
func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id  = $3,
		    number     = $4,
		    issue_date = $5,
		    due_date   = $6,
		    notes      = $7,
		    updated_at = $8
		WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.ClientID, inv.Number, inv.IssueDate, inv.DueDate, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el número de factura ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// ReplaceLines borra las líneas actuales e inserta las de inv.Lines.
func (r *InvoiceRepo) ReplaceLines(ctx context.Context, inv *entity.Invoice) error {
	return invoiceLines.replace(ctx, r.q, inv.ID, invoiceLineRows(inv.Lines))
}

// Delete elimina la factura; líneas y pagos caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// NumberExists informa si otro documento de la empresa ya usa el número.
func (r *InvoiceRepo) NumberExists(ctx context.Context, companyID, number, excludeID string) (bool, error) {
	return numberExists(ctx, r.q, "invoices", companyID, number, excludeID)
}

// CountByCompany cantidad de facturas de la empresa.
func (r *InvoiceRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	return countByCompany(ctx, r.q, "invoices", companyID)
}

// LockNumbering toma un advisory lock de transacción por empresa para la numeración de facturas.
func (r *InvoiceRepo) LockNumbering(ctx context.Context, companyID string) error {
	return lockNumbering(ctx, r.q, "invoices", companyID)
}

func (r *InvoiceRepo) loadLines(ctx context.Context, inv *entity.Invoice) error {
	rows, err := invoiceLines.load(ctx, r.q, inv.ID)
	if err != nil {
		return err
	}
	inv.Lines = make([]entity.ProductInvoice, 0, len(rows))
	for _, l := range rows {
		inv.Lines = append(inv.Lines, entity.ProductInvoice{ID: l.ID, InvoiceID: inv.ID, LineItem: l.LineItem})
	}
	return nil
}

func invoiceLineRows(lines []entity.ProductInvoice) []lineRow {
	out := make([]lineRow, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineRow{ID: l.ID, LineItem: l.LineItem})
	}
	return out
}

func numberExists(ctx context.Context, q Querier, table, companyID, number, excludeID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			 WHERE company_id = $1
			   AND number     = $2
			   AND ($3 = '' OR id::TEXT <> $3)
		)`, table)
	var exists bool
	if err := q.QueryRow(ctx, query, companyID, number, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s number: %w", table, err)
	}
	return exists, nil
}

// lockNumbering dos transacciones que generan número en la misma empresa no leen el mismo conteo.
func lockNumbering(ctx context.Context, q Querier, table, companyID string) error {
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table+":"+companyID); err != nil {
		return fmt.Errorf("lock %s numbering: %w", table, err)
	}
	return nil
}

func countByCompany(ctx context.Context, q Querier, table, companyID string) (int, error) {
	var n int
	if err := q.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE company_id = $1`, table), companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
