// Package ownership resuelve la cadena usuario → empresa → recurso.
//
// Es el único punto de autorización de los casos de uso: la empresa se busca filtrada por dueño
// y cada recurso se busca filtrado por la empresa ya resuelta. Nunca se lee un recurso solo por
// su id para comparar la empresa después.
package ownership

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Kind tipo de recurso dentro de la empresa.
type Kind int

const (
	Client Kind = iota + 1
	Product
	Invoice
	Estimate
	// Payment se resuelve dentro de la factura, que debe aparecer antes en la cadena.
	Payment
)

func (k Kind) String() string {
	switch k {
	case Client:
		return "client"
	case Product:
		return "product"
	case Invoice:
		return "invoice"
	case Estimate:
		return "estimate"
	case Payment:
		return "payment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Selector identifica un recurso a resolver.
type Selector struct {
	Kind Kind
	ID   string
}

func ClientID(id string) Selector   { return Selector{Kind: Client, ID: id} }
func ProductID(id string) Selector  { return Selector{Kind: Product, ID: id} }
func InvoiceID(id string) Selector  { return Selector{Kind: Invoice, ID: id} }
func EstimateID(id string) Selector { return Selector{Kind: Estimate, ID: id} }
func PaymentID(id string) Selector  { return Selector{Kind: Payment, ID: id} }

// ProductIDs un selector por producto, en el mismo orden.
func ProductIDs(ids ...string) []Selector {
	out := make([]Selector, 0, len(ids))
	for _, id := range ids {
		out = append(out, ProductID(id))
	}
	return out
}

// Resolved entidades cargadas por la cadena.
type Resolved struct {
	User     *entity.User
	Company  *entity.Company
	Clients  map[string]*entity.Client
	Products map[string]*entity.Product
	Invoice  *entity.Invoice
	Estimate *entity.Estimate
	Payment  *entity.Payment
}

// Client devuelve el cliente resuelto con ese id (nil si no estaba en la cadena).
func (r *Resolved) Client(id string) *entity.Client { return r.Clients[id] }

// Product devuelve el producto resuelto con ese id (nil si no estaba en la cadena).
func (r *Resolved) Product(id string) *entity.Product { return r.Products[id] }

// ResolveChain carga y verifica cada eslabón en orden, y falla en el primero que no pertenece:
//
//  1. usuario por callerID            → domain.ErrUserNotFound
//  2. empresa por (owner, companyID)  → domain.ErrCompanyNotFound
//  3. cada selector dentro de la empresa → error específico del recurso
//
// store debe ser el de la transacción del caso de uso para que la verificación y la escritura
// vean el mismo estado.
func ResolveChain(ctx context.Context, store repository.Store, callerID, companyID string, selectors ...Selector) (*Resolved, error) {
	user, err := ResolveUser(ctx, store, callerID)
	if err != nil {
		return nil, err
	}

	if blank(companyID) {
		return nil, domain.ErrCompanyNotFound
	}
	company, err := store.Companies().GetOwned(ctx, user.ID, companyID)
	if err != nil {
		return nil, fmt.Errorf("resolver empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	res := &Resolved{
		User:     user,
		Company:  company,
		Clients:  map[string]*entity.Client{},
		Products: map[string]*entity.Product{},
	}
	for _, sel := range selectors {
		if err := res.resolve(ctx, store, sel); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ResolveUser primer eslabón; lo usan también las operaciones sin empresa (crear/listar empresas).
func ResolveUser(ctx context.Context, store repository.Store, callerID string) (*entity.User, error) {
	if blank(callerID) {
		return nil, domain.ErrUnauthenticated
	}
	user, err := store.Users().GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("resolver usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *Resolved) resolve(ctx context.Context, store repository.Store, sel Selector) error {
	companyID := r.Company.ID
	switch sel.Kind {
	case Client:
		if _, ok := r.Clients[sel.ID]; ok {
			return nil
		}
		if blank(sel.ID) {
			return domain.ErrClientNotFound
		}
		c, err := store.Clients().GetInCompany(ctx, companyID, sel.ID)
		if err != nil {
			return fmt.Errorf("resolver cliente: %w", err)
		}
		if c == nil {
			return domain.ErrClientNotFound
		}
		r.Clients[c.ID] = c

	case Product:
		if _, ok := r.Products[sel.ID]; ok {
			return nil
		}
		if blank(sel.ID) {
			return domain.ErrProductNotFound
		}
		p, err := store.Products().GetInCompany(ctx, companyID, sel.ID)
		if err != nil {
			return fmt.Errorf("resolver producto: %w", err)
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		r.Products[p.ID] = p

	case Invoice:
		if blank(sel.ID) {
			return domain.ErrInvoiceNotFound
		}
		inv, err := store.Invoices().GetInCompany(ctx, companyID, sel.ID)
		if err != nil {
			return fmt.Errorf("resolver factura: %w", err)
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		r.Invoice = inv

	case Estimate:
		if blank(sel.ID) {
			return domain.ErrEstimateNotFound
		}
		est, err := store.Estimates().GetInCompany(ctx, companyID, sel.ID)
		if err != nil {
			return fmt.Errorf("resolver cotización: %w", err)
		}
		if est == nil {
			return domain.ErrEstimateNotFound
		}
		r.Estimate = est

	case Payment:
		if r.Invoice == nil || blank(sel.ID) {
			return domain.ErrPaymentNotFound
		}
		p, err := store.Payments().GetInInvoice(ctx, r.Invoice.ID, sel.ID)
		if err != nil {
			return fmt.Errorf("resolver pago: %w", err)
		}
		if p == nil {
			return domain.ErrPaymentNotFound
		}
		r.Payment = p

	default:
		return fmt.Errorf("ownership: selector desconocido %s", sel.Kind)
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
