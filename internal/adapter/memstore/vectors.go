package memstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"swissvote/internal/port"
)

// MemoryVectorIndex is an in-memory port.VectorIndex with the same
// brute-force cosine search as the persistent index. Tests use it to
// run the full pipeline without a database file.
type MemoryVectorIndex struct {
	mu      sync.RWMutex
	entries map[string]memoryVector

	// FailSearches makes Search return an error, simulating an
	// unreachable vector index.
	FailSearches bool
}

type memoryVector struct {
	vector   []float32
	document string
	metadata map[string]string
}

func NewMemoryVectorIndex() *MemoryVectorIndex {
	return &MemoryVectorIndex{entries: make(map[string]memoryVector)}
}

func (s *MemoryVectorIndex) Upsert(_ context.Context, items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.entries[item.ID] = memoryVector{
			vector:   item.Vector,
			document: item.Document,
			metadata: item.Metadata,
		}
	}
	return nil
}

func (s *MemoryVectorIndex) Search(_ context.Context, query []float32, k int, filter map[string]string) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailSearches {
		return nil, fmt.Errorf("vector index unavailable")
	}
	if k <= 0 {
		return nil, nil
	}

	type scored struct {
		id       string
		distance float64
		entry    memoryVector
	}

	var scores []scored
	for id, entry := range s.entries {
		if !matches(entry.metadata, filter) {
			continue
		}
		scores = append(scores, scored{id, distance(query, entry.vector), entry})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].distance < scores[j].distance })

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

func (s *MemoryVectorIndex) DeleteByFilter(_ context.Context, filter map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if matches(entry.metadata, filter) {
			delete(s.entries, id)
		}
	}
	return nil
}

func (s *MemoryVectorIndex) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func matches(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

func distance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
