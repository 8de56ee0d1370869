package port

import "context"

// VectorIndex stores chunk embeddings and answers similarity queries.
// Implementations must be safe for concurrent use; each in-flight query
// shares the same process-wide handle.
type VectorIndex interface {
	// Upsert adds or replaces entries keyed by their ID.
	Upsert(ctx context.Context, items []VectorItem) error

	// Search finds the k nearest entries to the query vector. A non-nil
	// filter restricts results to entries whose metadata matches every
	// key/value pair.
	Search(ctx context.Context, query []float32, k int, filter map[string]string) ([]VectorResult, error)

	// DeleteByFilter removes all entries whose metadata matches the filter.
	DeleteByFilter(ctx context.Context, filter map[string]string) error

	// Count returns the number of stored entries.
	Count() (int, error)
}

// VectorItem is an entry to be stored in the index.
type VectorItem struct {
	ID       string            // Chunk key
	Vector   []float32         // Embedding vector
	Document string            // Raw chunk text
	Metadata map[string]string // Chunk metadata (vote_id, language, ...)
}

// VectorResult is a single similarity search hit.
type VectorResult struct {
	ID       string            // Chunk key
	Distance float64           // Cosine distance, non-negative, lower is closer
	Document string            // Raw chunk text
	Metadata map[string]string // Stored metadata
}
