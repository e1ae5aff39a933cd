package docstore

import "context"

// Store is an append-only document store. Collections are created on first
// write, there are no transactions and no schema.
type Store interface {
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Find(ctx context.Context, q Query) ([]Document, error)
}
