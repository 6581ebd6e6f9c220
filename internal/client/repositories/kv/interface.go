package kv

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context, prefix string) error

	// Atomic runs fn against a transactional view of the store. Writes made
	// through tx become visible together when fn returns nil and are
	// discarded when it returns an error. Nested calls join the outer
	// transaction.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error

	Close() error
}
