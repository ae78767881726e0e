// Package tx defines transaction management abstractions.
// Services depend on these interfaces; the postgres implementation
// lives in internal/infrastructure/storage/postgres.
package tx

import "context"

// Manager runs a function inside a database transaction.
// The transaction commits if fn returns nil and rolls back otherwise.
// The ctx passed to fn carries the transaction; repositories pick it up
// transparently, so service code composes multi-step writes atomically.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager runs a function inside a read-only transaction,
// giving reports a consistent snapshot without write locks.
type ReadOnlyManager interface {
	RunInReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
