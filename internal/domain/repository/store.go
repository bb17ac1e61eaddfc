package repository

import "context"

// Store agrupa los repositorios atados a una misma transacción.
// Todo lo que un caso de uso lee para autorizar y todo lo que escribe pasa por el mismo Store.
type Store interface {
	Users() UserRepository
	Companies() CompanyRepository
	Clients() ClientRepository
	Products() ProductRepository
	Invoices() InvoiceRepository
	Estimates() EstimateRepository
	Payments() PaymentRepository
	Summaries() SummaryRepository
}

// TxRunner ejecuta fn dentro de una transacción. Si fn devuelve error se hace rollback y nada
// queda aplicado; si el commit falla se devuelve domain.ErrCommitFailed.
type TxRunner interface {
	Run(ctx context.Context, fn func(store Store) error) error
}
