package storage

import (
	"context"

	"prompt-engine/internal/types"
)

// PromptStore is the durable system of record for prompt rows. The vector
// index is always derived from it, never the other way around.
type PromptStore interface {
	// Insert persists a new prompt row and returns the stored record with
	// its assigned id and timestamp.
	Insert(ctx context.Context, owner, promptText, responseText string, embedding types.Vector) (types.Prompt, error)

	// Get retrieves a record by id. Returns types.ErrNotFound if absent.
	Get(ctx context.Context, id string) (types.Prompt, error)

	// ListWithEmbedding returns (id, embedding) rows for every record that
	// has a non-empty embedding, in a stable order.
	ListWithEmbedding(ctx context.Context) ([]types.EmbeddingRow, error)

	// ListByOwner returns an owner's records, newest first.
	ListByOwner(ctx context.Context, owner string) ([]types.Prompt, error)

	// FilterByIDsAndOwner returns the records among ids that belong to
	// owner. Missing or foreign-owned ids are silently dropped.
	FilterByIDsAndOwner(ctx context.Context, ids []string, owner string) ([]types.Prompt, error)

	// Close flushes and closes the store.
	Close() error
}
