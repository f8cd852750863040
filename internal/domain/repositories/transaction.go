package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager wraps multi-statement mutations in a single unit of
// work so a concurrent reader never observes a partially-applied state
// (e.g. a note row updated but its tag links not yet replaced).
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
