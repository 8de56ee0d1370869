package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"swissvote/internal/port"
)

// BoltVectorIndex implements port.VectorIndex using BoltDB for
// persistence. Search is brute force over an in-memory mirror, which is
// plenty for a few thousand brochure chunks.
type BoltVectorIndex struct {
	db         *bbolt.DB
	collection []byte
	dimension  int
	mu         sync.RWMutex
	entries    map[string]vectorEntry
}

type vectorEntry struct {
	vector   []float32
	document string
	metadata map[string]string
}

type storedVector struct {
	Vector   []float32         `json:"v"`
	Document string            `json:"d,omitempty"`
	Metadata map[string]string `json:"m,omitempty"`
}

// NewBoltVectorIndex opens (or creates) the index file. The collection
// name becomes the bucket holding the vectors.
func NewBoltVectorIndex(path, collection string, dimension int) (*BoltVectorIndex, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	bucket := []byte(collection)
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	idx := &BoltVectorIndex{
		db:         db,
		collection: bucket,
		dimension:  dimension,
		entries:    make(map[string]vectorEntry),
	}

	if err := idx.loadEntries(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load vectors: %w", err)
	}

	return idx, nil
}

// loadEntries mirrors all persisted vectors into memory.
func (s *BoltVectorIndex) loadEntries() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.collection)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			s.entries[string(k)] = vectorEntry{
				vector:   stored.Vector,
				document: stored.Document,
				metadata: stored.Metadata,
			}
			return nil
		})
	})
}

// Upsert adds or replaces entries keyed by ID, so re-indexing the same
// chunk keys overwrites rather than duplicates.
func (s *BoltVectorIndex) Upsert(ctx context.Context, items []port.VectorItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.collection)
		if b == nil {
			return fmt.Errorf("collection bucket not found")
		}

		for _, item := range items {
			if len(item.Vector) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
			}

			stored := storedVector{
				Vector:   item.Vector,
				Document: item.Document,
				Metadata: item.Metadata,
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}

			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}

			s.entries[item.ID] = vectorEntry{
				vector:   item.Vector,
				document: item.Document,
				metadata: item.Metadata,
			}
		}

		return nil
	})
}

// Search returns the k nearest entries by cosine distance, restricted
// to entries whose metadata matches every filter pair.
func (s *BoltVectorIndex) Search(ctx context.Context, query []float32, k int, filter map[string]string) ([]port.VectorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	if len(s.entries) == 0 || k <= 0 {
		return nil, nil
	}

	type scored struct {
		id       string
		distance float64
		entry    vectorEntry
	}

	scores := make([]scored, 0, len(s.entries))
	for id, entry := range s.entries {
		if !matchesFilter(entry.metadata, filter) {
			continue
		}
		scores = append(scores, scored{
			id:       id,
			distance: cosineDistance(query, entry.vector),
			entry:    entry,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		return scores[i].distance < scores[j].distance
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]port.VectorResult, k)
	for i := 0; i < k; i++ {
		results[i] = port.VectorResult{
			ID:       scores[i].id,
			Distance: scores[i].distance,
			Document: scores[i].entry.document,
			Metadata: scores[i].entry.metadata,
		}
	}

	return results, nil
}

// DeleteByFilter removes every entry whose metadata matches the filter.
func (s *BoltVectorIndex) DeleteByFilter(ctx context.Context, filter map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(filter) == 0 {
		return fmt.Errorf("refusing to delete with empty filter")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, entry := range s.entries {
		if matchesFilter(entry.metadata, filter) {
			ids = append(ids, id)
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.collection)
		if b == nil {
			return nil
		}

		for _, id := range ids {
			if err := b.Delete([]byte(id)); err != nil {
				return err
			}
			delete(s.entries, id)
		}

		return nil
	})
}

// Count returns the number of stored entries.
func (s *BoltVectorIndex) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *BoltVectorIndex) Close() error {
	return s.db.Close()
}

func matchesFilter(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// cosineDistance is 1 − cosine similarity, so it is non-negative and
// lower means closer.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
