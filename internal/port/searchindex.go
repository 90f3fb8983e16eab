package port

import (
	"context"
	"errors"

	"osindexer/internal/domain"
)

// ErrIndexNotFound is returned when an operation targets an index that
// does not exist in the remote store.
var ErrIndexNotFound = errors.New("index not found")

// SearchIndex is the remote vector index the pipeline writes into.
type SearchIndex interface {
	// EnsureIndex creates the index with a vector mapping of the given
	// dimension if it does not already exist. Idempotent.
	EnsureIndex(ctx context.Context, name string, dimension int) error

	// Upsert writes records into the index, keyed by record ID.
	Upsert(ctx context.Context, name string, records []domain.IndexRecord) error

	// Count returns the number of documents in the index.
	Count(ctx context.Context, name string) (int, error)

	// Info returns settings and mappings for indices matching pattern.
	Info(ctx context.Context, pattern string) ([]domain.IndexInfo, error)
}
