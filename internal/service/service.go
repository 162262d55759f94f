package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"prompt-engine/internal/embed"
	"prompt-engine/internal/index"
	"prompt-engine/internal/notify"
	"prompt-engine/internal/respond"
	"prompt-engine/internal/storage"
	"prompt-engine/internal/types"
)

// DefaultTopK is the similarity result cap when the caller does not ask for
// a specific count.
const DefaultTopK = 5

// Service orchestrates the create and search flows: it is the public
// contract consumed by the API layer.
type Service struct {
	store   storage.PromptStore
	manager *index.Manager
	sink    notify.Sink
}

func New(store storage.PromptStore, manager *index.Manager, sink notify.Sink) *Service {
	return &Service{store: store, manager: manager, sink: sink}
}

// SimilarPrompt is a similarity search hit. SimilarityScore is the raw L2
// distance from the index: smaller means more similar.
type SimilarPrompt struct {
	ID              string    `json:"id"`
	Owner           string    `json:"owner"`
	PromptText      string    `json:"prompt_text"`
	ResponseText    string    `json:"response_text"`
	SimilarityScore float32   `json:"similarity_score"`
	CreatedAt       time.Time `json:"created_at"`
}

type notification struct {
	Type string       `json:"type"`
	Data types.Prompt `json:"data"`
}

// Create validates the prompt text, generates a response and embedding,
// persists the record, then adds it to the vector index. Indexing and
// notification are best-effort: their failure is logged and never rolls back
// or fails the created record.
func (s *Service) Create(ctx context.Context, owner, promptText string, notifyOwner bool) (types.Prompt, error) {
	if strings.TrimSpace(promptText) == "" {
		return types.Prompt{}, types.Validationf("prompt text cannot be empty")
	}

	responseText := respond.Generate(promptText)
	embedding := embed.Encode(promptText)

	record, err := s.store.Insert(ctx, owner, promptText, responseText, embedding)
	if err != nil {
		return types.Prompt{}, fmt.Errorf("service: persist prompt: %w", err)
	}

	// The index add runs after the store commit. A failure here leaves the
	// store correct and the index stale-by-one, which self-heals on the next
	// rebuild.
	if err := s.manager.Add(ctx, record.ID, record.Embedding); err != nil {
		log.Printf("[service] indexing failed for prompt %s: %v (record persisted)", record.ID, err)
	}

	if notifyOwner {
		s.pushNotification(ctx, record)
	}

	return record, nil
}

func (s *Service) pushNotification(ctx context.Context, record types.Prompt) {
	payload, err := json.Marshal(notification{Type: "prompt_response", Data: record})
	if err != nil {
		log.Printf("[service] notification marshal failed for prompt %s: %v", record.ID, err)
		return
	}
	if err := s.sink.Publish(ctx, notify.ChannelFor(record.Owner), payload); err != nil {
		log.Printf("[service] notification publish failed for user %s: %v", record.Owner, err)
	}
}

// SearchSimilar runs a global top-k search over the index, then filters the
// candidates down to the requester's own records. Candidates belonging to
// other owners are silently dropped, so the result may hold fewer than topK
// entries even when nearer records exist system-wide; there is no backfill.
func (s *Service) SearchSimilar(ctx context.Context, owner, query string, topK int) ([]SimilarPrompt, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.Validationf("query prompt cannot be empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVec := embed.Encode(query)

	matches, err := s.manager.Search(ctx, queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("service: similarity search: %w", err)
	}
	if len(matches) == 0 {
		return []SimilarPrompt{}, nil
	}

	// The same id can surface at more than one position; keep the nearest.
	ids := make([]string, 0, len(matches))
	distances := make(map[string]float32, len(matches))
	for _, m := range matches {
		if _, seen := distances[m.ID]; seen {
			continue
		}
		ids = append(ids, m.ID)
		distances[m.ID] = m.Distance
	}

	records, err := s.store.FilterByIDsAndOwner(ctx, ids, owner)
	if err != nil {
		return nil, fmt.Errorf("service: fetch candidates: %w", err)
	}

	results := make([]SimilarPrompt, 0, len(records))
	for _, record := range records {
		results = append(results, SimilarPrompt{
			ID:              record.ID,
			Owner:           record.Owner,
			PromptText:      record.PromptText,
			ResponseText:    record.ResponseText,
			SimilarityScore: distances[record.ID],
			CreatedAt:       record.CreatedAt,
		})
	}

	// Re-sort after the ownership filter: dropping foreign candidates can
	// reorder what survives relative to the raw index ranking.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore < results[j].SimilarityScore
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Get returns a record only to its owner. Absent and foreign-owned records
// are both reported as not found.
func (s *Service) Get(ctx context.Context, owner, id string) (types.Prompt, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Prompt{}, err
	}
	if record.Owner != owner {
		return types.Prompt{}, types.ErrNotFound
	}
	return record, nil
}

// List returns the owner's records, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]types.Prompt, error) {
	return s.store.ListByOwner(ctx, owner)
}
