package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"prompt-engine/internal/types"
)

var (
	// bucketPrompts maps an 8-byte big-endian sequence key to a JSON row.
	// Sequence keys give a stable iteration order (insertion order) for
	// index rebuilds and, cursored backwards, reverse-chronological listing.
	bucketPrompts = []byte("prompts")
	// bucketIDs maps a prompt id to its sequence key.
	bucketIDs = []byte("prompt_ids")
)

// BoltPromptStore implements PromptStore on top of a bbolt database.
type BoltPromptStore struct {
	db *bbolt.DB
}

func NewBoltPromptStore(path string) (*BoltPromptStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketPrompts); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketIDs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltPromptStore{db: db}, nil
}

func (s *BoltPromptStore) Insert(ctx context.Context, owner, promptText, responseText string, embedding types.Vector) (types.Prompt, error) {
	record := types.Prompt{
		ID:           uuid.NewString(),
		Owner:        owner,
		PromptText:   promptText,
		ResponseText: responseText,
		Embedding:    embedding,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		prompts := tx.Bucket(bucketPrompts)
		ids := tx.Bucket(bucketIDs)

		seq, err := prompts.NextSequence()
		if err != nil {
			return err
		}
		key := seqKey(seq)

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err := prompts.Put(key, data); err != nil {
			return err
		}
		return ids.Put([]byte(record.ID), key)
	})
	if err != nil {
		return types.Prompt{}, fmt.Errorf("storage: insert prompt: %w", err)
	}
	return record, nil
}

func (s *BoltPromptStore) Get(ctx context.Context, id string) (types.Prompt, error) {
	var record types.Prompt
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketIDs).Get([]byte(id))
		if key == nil {
			return types.ErrNotFound
		}
		data := tx.Bucket(bucketPrompts).Get(key)
		if data == nil {
			return types.ErrNotFound
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return types.Prompt{}, err
	}
	return record, nil
}

func (s *BoltPromptStore) ListWithEmbedding(ctx context.Context) ([]types.EmbeddingRow, error) {
	var rows []types.EmbeddingRow
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketPrompts).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var record types.Prompt
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			if len(record.Embedding) == 0 {
				continue
			}
			rows = append(rows, types.EmbeddingRow{ID: record.ID, Embedding: record.Embedding})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list embeddings: %w", err)
	}
	return rows, nil
}

func (s *BoltPromptStore) ListByOwner(ctx context.Context, owner string) ([]types.Prompt, error) {
	var records []types.Prompt
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketPrompts).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var record types.Prompt
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			if record.Owner != owner {
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list by owner: %w", err)
	}
	return records, nil
}

func (s *BoltPromptStore) FilterByIDsAndOwner(ctx context.Context, ids []string, owner string) ([]types.Prompt, error) {
	var records []types.Prompt
	err := s.db.View(func(tx *bbolt.Tx) error {
		idBucket := tx.Bucket(bucketIDs)
		prompts := tx.Bucket(bucketPrompts)
		for _, id := range ids {
			key := idBucket.Get([]byte(id))
			if key == nil {
				continue
			}
			data := prompts.Get(key)
			if data == nil {
				continue
			}
			var record types.Prompt
			if err := json.Unmarshal(data, &record); err != nil {
				return err
			}
			if record.Owner != owner {
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: filter by ids: %w", err)
	}
	return records, nil
}

func (s *BoltPromptStore) Close() error {
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
