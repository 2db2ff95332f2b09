package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// DocumentStore keeps JSON documents under string keys and append-only id lists
// alongside them. Index appends are single RPUSH commands, so concurrent writers
// never lose each other's ids.
type DocumentStore struct {
	client redis.UniversalClient
}

func NewDocumentStore(client redis.UniversalClient) *DocumentStore {
	return &DocumentStore{client: client}
}

// Put writes doc under key and appends indexID to every list in indexKeys in a
// single MULTI/EXEC round trip.
func (s *DocumentStore) Put(ctx context.Context, key string, doc any, indexID string, indexKeys ...string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		for _, idx := range indexKeys {
			pipe.RPush(ctx, idx, indexID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Get decodes the document at key into dst. A missing key yields apperr.ErrNotFound.
func (s *DocumentStore) Get(ctx context.Context, key string, dst any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s: %w", key, apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// MGet returns the raw documents for keys in order; missing keys come back as nil.
func (s *DocumentStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget %d keys: %w", len(keys), err)
	}

	out := make([][]byte, len(vals))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[i] = []byte(str)
		}
	}
	return out, nil
}

// List returns every id in the list at indexKey, duplicates included.
func (s *DocumentStore) List(ctx context.Context, indexKey string) ([]string, error) {
	ids, err := s.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", indexKey, err)
	}
	return ids, nil
}

// Len returns the length of the list at indexKey.
func (s *DocumentStore) Len(ctx context.Context, indexKey string) (int64, error) {
	n, err := s.client.LLen(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", indexKey, err)
	}
	return n, nil
}

// Update applies mutate to the document at key under WATCH. If another writer
// touches the key between read and write the transaction is retried.
func (s *DocumentStore) Update(ctx context.Context, key string, mutate func(raw []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%s: %w", key, apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to get %s: %w", key, err)
		}

		updated, err := mutate(raw)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("%s changed concurrently %d times: %w", key, maxUpdateAttempts, apperr.ErrConflict)
}

// getDoc is the typed form of Get.
func getDoc[T any](ctx context.Context, s *DocumentStore, key string) (*T, error) {
	var doc T
	if err := s.Get(ctx, key, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// getDocs loads the documents for keys, skipping keys that no longer exist.
func getDocs[T any](ctx context.Context, s *DocumentStore, keys []string) ([]*T, error) {
	raws, err := s.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	docs := make([]*T, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keys[i], err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

// updateDoc is the typed form of Update and returns the stored document.
func updateDoc[T any](ctx context.Context, s *DocumentStore, key string, mutate func(*T) error) (*T, error) {
	var result T
	err := s.Update(ctx, key, func(raw []byte) ([]byte, error) {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}
		if err := mutate(&doc); err != nil {
			return nil, err
		}
		result = doc
		return json.Marshal(doc)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
