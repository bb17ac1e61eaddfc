package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Líneas de factura (product_invoices) y de cotización (product_estimates) comparten columnas;
// position conserva el orden en que se enviaron.
type lineTable struct {
	name      string // product_invoices | product_estimates
	parentCol string // invoice_id | estimate_id
}

var (
	invoiceLines  = lineTable{name: "product_invoices", parentCol: "invoice_id"}
	estimateLines = lineTable{name: "product_estimates", parentCol: "estimate_id"}
)

type lineRow struct {
	ID string
	entity.LineItem
}

func (t lineTable) insert(ctx context.Context, q Querier, parentID string, rows []lineRow) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, product_id, description, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, t.name, t.parentCol)
	for i, l := range rows {
		if _, err := q.Exec(ctx, query,
			l.ID, parentID, nullIfEmpty(l.ProductID), l.Description, l.Quantity, l.UnitPrice, i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", t.name, err)
		}
	}
	return nil
}

func (t lineTable) replace(ctx context.Context, q Querier, parentID string, rows []lineRow) error {
	if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.parentCol), parentID); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return t.insert(ctx, q, parentID, rows)
}

func (t lineTable) load(ctx context.Context, q Querier, parentID string) ([]lineRow, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, description, quantity, unit_price
		FROM %s WHERE %s = $1 ORDER BY position`, t.name, t.parentCol)
	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []lineRow
	for rows.Next() {
		var (
			l         lineRow
			productID *string
		)
		if err := rows.Scan(&l.ID, &productID, &l.Description, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		l.ProductID = derefStr(productID)
		out = append(out, l)
	}
	return out, rows.Err()
}
