package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ t *txStore }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.t.st.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.t.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.t.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.t.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// ── companies ────────────────────────────────────────────────────────────────

type companyRepo struct{ t *txStore }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.t.st.companies[c.ID] = *c
	return nil
}

func (r companyRepo) GetOwned(_ context.Context, ownerID, companyID string) (*entity.Company, error) {
	c, ok := r.t.st.companies[companyID]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.t.st.companies {
		if c.OwnerID == ownerID {
			c := c
			out = append(out, &c)
		}
	}
	return page(out, func(c *entity.Company) (time.Time, string) { return c.CreatedAt, c.ID }, limit, offset), nil
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	if _, ok := r.t.st.companies[c.ID]; !ok {
		return domain.ErrCompanyNotFound
	}
	r.t.st.companies[c.ID] = *c
	return nil
}

func (r companyRepo) Delete(_ context.Context, companyID string) error {
	st := &r.t.st
	for id, inv := range st.invoices {
		if inv.CompanyID == companyID {
			deletePaymentsOf(st, id)
			delete(st.invoices, id)
		}
	}
	for id, e := range st.estimates {
		if e.CompanyID == companyID {
			delete(st.estimates, id)
		}
	}
	for id, c := range st.clients {
		if c.CompanyID == companyID {
			delete(st.clients, id)
		}
	}
	for id, p := range st.products {
		if p.CompanyID == companyID {
			delete(st.products, id)
		}
	}
	delete(st.companies, companyID)
	return nil
}

// ── clients ──────────────────────────────────────────────────────────────────

type clientRepo struct{ t *txStore }

func (r clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.t.st.clients[c.ID] = *c
	return nil
}

func (r clientRepo) GetInCompany(_ context.Context, companyID, id string) (*entity.Client, error) {
	c, ok := r.t.st.clients[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return &c, nil
}

func (r clientRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.t.st.clients {
		if c.CompanyID == companyID {
			c := c
			out = append(out, &c)
		}
	}
	return page(out, func(c *entity.Client) (time.Time, string) { return c.CreatedAt, c.ID }, limit, offset), nil
}

func (r clientRepo) Update(_ context.Context, c *entity.Client) error {
	if existing, ok := r.t.st.clients[c.ID]; !ok || existing.CompanyID != c.CompanyID {
		return domain.ErrClientNotFound
	}
	r.t.st.clients[c.ID] = *c
	return nil
}

func (r clientRepo) Delete(_ context.Context, companyID, id string) error {
	if c, ok := r.t.st.clients[id]; ok && c.CompanyID == companyID {
		delete(r.t.st.clients, id)
	}
	return nil
}

func (r clientRepo) IsReferenced(_ context.Context, companyID, id string) (bool, error) {
	for _, inv := range r.t.st.invoices {
		if inv.CompanyID == companyID && inv.ClientID == id {
			return true, nil
		}
	}
	for _, e := range r.t.st.estimates {
		if e.CompanyID == companyID && e.ClientID == id {
			return true, nil
		}
	}
	return false, nil
}

// ── products ─────────────────────────────────────────────────────────────────

type productRepo struct{ t *txStore }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.t.st.products[p.ID] = *p
	return nil
}

func (r productRepo) GetInCompany(_ context.Context, companyID, id string) (*entity.Product, error) {
	p, ok := r.t.st.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.t.st.products {
		if p.CompanyID == companyID {
			p := p
			out = append(out, &p)
		}
	}
	return page(out, func(p *entity.Product) (time.Time, string) { return p.CreatedAt, p.ID }, limit, offset), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	if existing, ok := r.t.st.products[p.ID]; !ok || existing.CompanyID != p.CompanyID {
		return domain.ErrProductNotFound
	}
	r.t.st.products[p.ID] = *p
	return nil
}

// Delete equivale a ON DELETE SET NULL: las líneas conservan su copia y pierden la referencia.
func (r productRepo) Delete(_ context.Context, companyID, id string) error {
	st := &r.t.st
	if p, ok := st.products[id]; !ok || p.CompanyID != companyID {
		return nil
	}
	delete(st.products, id)
	for k, inv := range st.invoices {
		for i := range inv.Lines {
			if inv.Lines[i].ProductID == id {
				inv.Lines[i].ProductID = ""
			}
		}
		st.invoices[k] = inv
	}
	for k, e := range st.estimates {
		for i := range e.Lines {
			if e.Lines[i].ProductID == id {
				e.Lines[i].ProductID = ""
			}
		}
		st.estimates[k] = e
	}
	return nil
}

// ── invoices ─────────────────────────────────────────────────────────────────

type invoiceRepo struct{ t *txStore }

func (r invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if exists, _ := r.NumberExists(ctx, inv.CompanyID, inv.Number, inv.ID); exists {
		return domain.ErrDuplicate
	}
	r.t.st.invoices[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (r invoiceRepo) GetInCompany(_ context.Context, companyID, id string) (*entity.Invoice, error) {
	inv, ok := r.t.st.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	inv = cloneInvoice(inv)
	return &inv, nil
}

// GetForUpdate en memoria Run ya serializa las transacciones.
func (r invoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.GetInCompany(ctx, companyID, id)
}

func (r invoiceRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.t.st.invoices {
		if inv.CompanyID == companyID {
			inv := cloneInvoice(inv)
			out = append(out, &inv)
		}
	}
	return page(out, func(i *entity.Invoice) (time.Time, string) { return i.CreatedAt, i.ID }, limit, offset), nil
}

func (r invoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	existing, ok := r.t.st.invoices[inv.ID]
	if !ok || existing.CompanyID != inv.CompanyID {
		return domain.ErrInvoiceNotFound
	}
	if exists, _ := r.NumberExists(ctx, inv.CompanyID, inv.Number, inv.ID); exists {
		return domain.ErrDuplicate
	}
	lines := existing.Lines
	existing = *inv
	existing.Lines = lines
	r.t.st.invoices[inv.ID] = existing
	return nil
}

func (r invoiceRepo) ReplaceLines(_ context.Context, inv *entity.Invoice) error {
	existing, ok := r.t.st.invoices[inv.ID]
	if !ok || existing.CompanyID != inv.CompanyID {
		return domain.ErrInvoiceNotFound
	}
	existing.Lines = append([]entity.ProductInvoice(nil), inv.Lines...)
	r.t.st.invoices[inv.ID] = existing
	return nil
}

func (r invoiceRepo) Delete(_ context.Context, companyID, id string) error {
	if inv, ok := r.t.st.invoices[id]; ok && inv.CompanyID == companyID {
		deletePaymentsOf(&r.t.st, id)
		delete(r.t.st.invoices, id)
	}
	return nil
}

func (r invoiceRepo) NumberExists(_ context.Context, companyID, number, excludeID string) (bool, error) {
	for _, inv := range r.t.st.invoices {
		if inv.CompanyID == companyID && inv.Number == number && inv.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r invoiceRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	n := 0
	for _, inv := range r.t.st.invoices {
		if inv.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (invoiceRepo) LockNumbering(context.Context, string) error { return nil }

func deletePaymentsOf(st *state, invoiceID string) {
	for id, p := range st.payments {
		if p.InvoiceID == invoiceID {
			delete(st.payments, id)
		}
	}
}

// ── estimates ────────────────────────────────────────────────────────────────

type estimateRepo struct{ t *txStore }

func (r estimateRepo) Create(ctx context.Context, e *entity.Estimate) error {
	if exists, _ := r.NumberExists(ctx, e.CompanyID, e.Number, e.ID); exists {
		return domain.ErrDuplicate
	}
	r.t.st.estimates[e.ID] = cloneEstimate(*e)
	return nil
}

func (r estimateRepo) GetInCompany(_ context.Context, companyID, id string) (*entity.Estimate, error) {
	e, ok := r.t.st.estimates[id]
	if !ok || e.CompanyID != companyID {
		return nil, nil
	}
	e = cloneEstimate(e)
	return &e, nil
}

func (r estimateRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Estimate, error) {
	var out []*entity.Estimate
	for _, e := range r.t.st.estimates {
		if e.CompanyID == companyID {
			e := cloneEstimate(e)
			out = append(out, &e)
		}
	}
	return page(out, func(e *entity.Estimate) (time.Time, string) { return e.CreatedAt, e.ID }, limit, offset), nil
}

func (r estimateRepo) UpdateHeader(ctx context.Context, e *entity.Estimate) error {
	existing, ok := r.t.st.estimates[e.ID]
	if !ok || existing.CompanyID != e.CompanyID {
		return domain.ErrEstimateNotFound
	}
	if exists, _ := r.NumberExists(ctx, e.CompanyID, e.Number, e.ID); exists {
		return domain.ErrDuplicate
	}
	lines := existing.Lines
	existing = *e
	existing.Lines = lines
	r.t.st.estimates[e.ID] = existing
	return nil
}

func (r estimateRepo) ReplaceLines(_ context.Context, e *entity.Estimate) error {
	existing, ok := r.t.st.estimates[e.ID]
	if !ok || existing.CompanyID != e.CompanyID {
		return domain.ErrEstimateNotFound
	}
	existing.Lines = append([]entity.ProductEstimate(nil), e.Lines...)
	r.t.st.estimates[e.ID] = existing
	return nil
}

func (r estimateRepo) Delete(_ context.Context, companyID, id string) error {
	if e, ok := r.t.st.estimates[id]; ok && e.CompanyID == companyID {
		delete(r.t.st.estimates, id)
	}
	return nil
}

func (r estimateRepo) NumberExists(_ context.Context, companyID, number, excludeID string) (bool, error) {
	for _, e := range r.t.st.estimates {
		if e.CompanyID == companyID && e.Number == number && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r estimateRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	n := 0
	for _, e := range r.t.st.estimates {
		if e.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (estimateRepo) LockNumbering(context.Context, string) error { return nil }

// ── payments ─────────────────────────────────────────────────────────────────

type paymentRepo struct{ t *txStore }

func (r paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	if _, ok := r.t.st.invoices[p.InvoiceID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	r.t.st.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) GetInInvoice(_ context.Context, invoiceID, id string) (*entity.Payment, error) {
	p, ok := r.t.st.payments[id]
	if !ok || p.InvoiceID != invoiceID {
		return nil, nil
	}
	return &p, nil
}

func (r paymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.t.st.payments {
		if p.InvoiceID == invoiceID {
			p := p
			out = append(out, &p)
		}
	}
	return page(out, func(p *entity.Payment) (time.Time, string) { return p.CreatedAt, p.ID }, 0, 0), nil
}

func (r paymentRepo) Delete(_ context.Context, invoiceID, id string) error {
	if p, ok := r.t.st.payments[id]; ok && p.InvoiceID == invoiceID {
		delete(r.t.st.payments, id)
	}
	return nil
}

// ── summary ──────────────────────────────────────────────────────────────────

type summaryRepo struct{ t *txStore }

func (r summaryRepo) GetCompanySummary(_ context.Context, companyID string, asOf time.Time) (*repository.CompanySummary, error) {
	st := r.t.st
	sum := &repository.CompanySummary{InvoicedTotal: decimal.Zero, PaidTotal: decimal.Zero}
	for _, c := range st.clients {
		if c.CompanyID == companyID {
			sum.Clients++
		}
	}
	for _, p := range st.products {
		if p.CompanyID == companyID {
			sum.Products++
		}
	}
	for _, e := range st.estimates {
		if e.CompanyID == companyID {
			sum.Estimates++
		}
	}
	paid := map[string]decimal.Decimal{}
	for _, p := range st.payments {
		paid[p.InvoiceID] = paid[p.InvoiceID].Add(p.Amount)
	}
	for _, inv := range st.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		sum.Invoices++
		total := inv.Total()
		sum.InvoicedTotal = sum.InvoicedTotal.Add(total)
		sum.PaidTotal = sum.PaidTotal.Add(paid[inv.ID])
		if inv.DueDate.Before(asOf) && total.GreaterThan(paid[inv.ID]) {
			sum.OverdueCount++
		}
	}
	return sum, nil
}
