// Package memory implementa repository.Store y repository.TxRunner en memoria.
//
// Cada transacción trabaja sobre una copia del estado y solo la publica al confirmar; un error en
// fn descarta la copia completa. Las transacciones se serializan con un único mutex.
// Se usa en tests de casos de uso y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	users     map[string]entity.User
	companies map[string]entity.Company
	clients   map[string]entity.Client
	products  map[string]entity.Product
	invoices  map[string]entity.Invoice
	estimates map[string]entity.Estimate
	payments  map[string]entity.Payment
}

func newState() state {
	return state{
		users:     map[string]entity.User{},
		companies: map[string]entity.Company{},
		clients:   map[string]entity.Client{},
		products:  map[string]entity.Product{},
		invoices:  map[string]entity.Invoice{},
		estimates: map[string]entity.Estimate{},
		payments:  map[string]entity.Payment{},
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.companies {
		out.companies[k] = v
	}
	for k, v := range s.clients {
		out.clients[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.invoices {
		out.invoices[k] = cloneInvoice(v)
	}
	for k, v := range s.estimates {
		out.estimates[k] = cloneEstimate(v)
	}
	for k, v := range s.payments {
		out.payments[k] = v
	}
	return out
}

func cloneInvoice(i entity.Invoice) entity.Invoice {
	i.Lines = append([]entity.ProductInvoice(nil), i.Lines...)
	return i
}

func cloneEstimate(e entity.Estimate) entity.Estimate {
	e.Lines = append([]entity.ProductEstimate(nil), e.Lines...)
	return e
}

// Store almacenamiento en memoria con transacciones copy-on-commit.
type Store struct {
	mu    sync.Mutex
	state state
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn y el contexto terminan bien.
func (s *Store) Run(ctx context.Context, fn func(store repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStore{st: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	// Una petición abandonada antes del commit no deja rastro.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
	}
	s.state = tx.st
	return nil
}

// txStore vista transaccional; implementa repository.Store.
type txStore struct {
	st state
}

func (t *txStore) Users() repository.UserRepository         { return userRepo{t} }
func (t *txStore) Companies() repository.CompanyRepository  { return companyRepo{t} }
func (t *txStore) Clients() repository.ClientRepository     { return clientRepo{t} }
func (t *txStore) Products() repository.ProductRepository   { return productRepo{t} }
func (t *txStore) Invoices() repository.InvoiceRepository   { return invoiceRepo{t} }
func (t *txStore) Estimates() repository.EstimateRepository { return estimateRepo{t} }
func (t *txStore) Payments() repository.PaymentRepository   { return paymentRepo{t} }
func (t *txStore) Summaries() repository.SummaryRepository  { return summaryRepo{t} }

// page ordena por (created_at, id) y aplica limit/offset; limit <= 0 devuelve todo.
func page[T any](items []T, key func(T) (time.Time, string), limit, offset int) []T {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
