package postgres

import "github.com/jhoicas/Facturacion-api/internal/domain/repository"

var _ repository.Store = (*Store)(nil)

// Store agrupa los repos sobre un mismo Querier (normalmente la tx en curso).
type Store struct {
	q Querier
}

// NewStore construye el Store. Pasar pool o tx (Querier).
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

func (s *Store) Users() repository.UserRepository         { return NewUserRepository(s.q) }
func (s *Store) Companies() repository.CompanyRepository  { return NewCompanyRepository(s.q) }
func (s *Store) Clients() repository.ClientRepository     { return NewClientRepository(s.q) }
func (s *Store) Products() repository.ProductRepository   { return NewProductRepository(s.q) }
func (s *Store) Invoices() repository.InvoiceRepository   { return NewInvoiceRepository(s.q) }
func (s *Store) Estimates() repository.EstimateRepository { return NewEstimateRepository(s.q) }
func (s *Store) Payments() repository.PaymentRepository   { return NewPaymentRepository(s.q) }
func (s *Store) Summaries() repository.SummaryRepository  { return NewSummaryRepository(s.q) }
