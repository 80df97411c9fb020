package shared

import "context"

// TransactionManager runs a function within a storage transaction. Repository
// calls made with the context passed to fn join the same transaction; if fn
// returns an error everything rolls back.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopTransactionManager runs the function without transactional guarantees.
// Used in tests.
type NoopTransactionManager struct{}

// Execute runs fn directly
func (NoopTransactionManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
