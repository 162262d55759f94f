package index

import (
	"context"
	"fmt"
	"log"
	"sync"

	"prompt-engine/internal/types"
)

// EmbeddingSource lists the (id, embedding) rows the index is rebuilt from,
// in a stable order.
type EmbeddingSource interface {
	ListWithEmbedding(ctx context.Context) ([]types.EmbeddingRow, error)
}

// Match is a search hit mapped back to a prompt id. Lower distance means
// more similar.
type Match struct {
	ID       string
	Distance float32
}

// Manager owns the vector index lifecycle: it builds a FlatIndex from the
// store, maintains the position-to-prompt-id table, and serializes all
// mutation. The index is never persisted; a stale index self-heals on the
// next Initialize.
//
// One exclusive lock guards the triple (index, id table, initialized flag)
// across Initialize, Add and Search, so a search observes either the
// complete pre- or the complete post-state of any concurrent add, never a
// position present in one structure and missing from the other.
type Manager struct {
	mu          sync.Mutex
	store       EmbeddingSource
	index       *FlatIndex
	positions   map[int]string
	initialized bool
}

func NewManager(store EmbeddingSource) *Manager {
	return &Manager{store: store}
}

// Initialize discards any in-memory state and replays every store row that
// carries a correctly-dimensioned embedding, in store order. Idempotent:
// each call fully resets and replays.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebuildLocked(ctx)
}

func (m *Manager) rebuildLocked(ctx context.Context) error {
	rows, err := m.store.ListWithEmbedding(ctx)
	if err != nil {
		return fmt.Errorf("index: load embeddings: %w", err)
	}

	idx := NewFlatIndex(types.Dimension)
	positions := make(map[int]string, len(rows))
	skipped := 0

	for _, row := range rows {
		if len(row.Embedding) != types.Dimension {
			skipped++
			continue
		}
		pos, err := idx.Insert(row.Embedding)
		if err != nil {
			skipped++
			continue
		}
		positions[pos] = row.ID
	}

	m.index = idx
	m.positions = positions
	m.initialized = true

	log.Printf("[index] rebuilt with %d embeddings (%d rows skipped)", idx.Size(), skipped)
	return nil
}

// Add validates the embedding, inserts it and records the returned position
// against the prompt id. A manager that has never been initialized rebuilds
// from the store first, so inserts before any read still land in a
// consistent index.
func (m *Manager) Add(ctx context.Context, id string, embedding types.Vector) error {
	if len(embedding) != types.Dimension {
		return types.Validationf("index: embedding dimension mismatch: expected %d, got %d", types.Dimension, len(embedding))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		if err := m.rebuildLocked(ctx); err != nil {
			return err
		}
	}

	pos, err := m.index.Insert(embedding)
	if err != nil {
		return err
	}
	m.positions[pos] = id
	return nil
}

// Search returns up to topK prompt ids ordered by ascending distance.
// Positions with no recorded id are dropped; given the locking discipline
// that should not occur.
func (m *Manager) Search(ctx context.Context, embedding types.Vector, topK int) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		if err := m.rebuildLocked(ctx); err != nil {
			return nil, err
		}
	}

	candidates, err := m.index.Search(embedding, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		id, ok := m.positions[c.Position]
		if !ok {
			continue
		}
		matches = append(matches, Match{ID: id, Distance: c.Distance})
	}
	return matches, nil
}

// Size returns the number of indexed embeddings, 0 if the manager has not
// been initialized yet.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return 0
	}
	return m.index.Size()
}
