package types

import "time"

// Dimension is the fixed length of every embedding vector. It is part of the
// storage contract: stored embeddings of any other length are excluded from
// indexing.
const Dimension = 384

// Vector represents a fixed-dimension float32 embedding.
type Vector []float32

// Prompt is a stored prompt record. Immutable after creation except for
// embedding backfill.
type Prompt struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	PromptText   string    `json:"prompt_text"`
	ResponseText string    `json:"response_text"`
	Embedding    Vector    `json:"embedding,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns a copy of the record without the embedding, for payloads
// exposed to clients that have no use for the raw vector.
func (p Prompt) Public() Prompt {
	p.Embedding = nil
	return p
}

// EmbeddingRow is the (id, embedding) projection used to rebuild the vector
// index from the store.
type EmbeddingRow struct {
	ID        string
	Embedding Vector
}
