package usecase

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"swissvote/internal/adapter/chunker"
	"swissvote/internal/domain"
	"swissvote/internal/port"
)

// Indexer runs the offline pass that turns brochure texts into indexed,
// embedded chunks. Chunk keys are deterministic, so re-running the
// indexer upserts in place instead of growing the index.
type Indexer struct {
	store     port.MetadataStore
	index     port.VectorIndex
	embedder  port.Embedder
	chunker   *chunker.SentenceChunker
	batchSize int
	logger    *zap.Logger
}

func NewIndexer(store port.MetadataStore, index port.VectorIndex, embedder port.Embedder, chk *chunker.SentenceChunker, batchSize int, logger *zap.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		store:     store,
		index:     index,
		embedder:  embedder,
		chunker:   chk,
		batchSize: batchSize,
		logger:    logger,
	}
}

// IndexResult summarizes one indexing run.
type IndexResult struct {
	InitiativesIndexed int
	InitiativesSkipped int
	ChunksIndexed      int
	Errors             []string
}

// IndexAll indexes every initiative in the metadata store. The optional
// progress callback receives (processed, total) after each initiative.
func (ix *Indexer) IndexAll(ctx context.Context, progress func(processed, total int)) (*IndexResult, error) {
	initiatives, err := ix.store.ListInitiatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}

	result := &IndexResult{}

	for i, ini := range initiatives {
		chunks, err := ix.IndexInitiative(ctx, ini)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ini.VoteID, err))
		} else if chunks == 0 {
			result.InitiativesSkipped++
		} else {
			result.InitiativesIndexed++
			result.ChunksIndexed += chunks
		}

		if progress != nil {
			progress(i+1, len(initiatives))
		}
	}

	return result, nil
}

// IndexInitiative chunks, embeds and upserts all language versions of
// one brochure. Returns the number of chunks written.
func (ix *Indexer) IndexInitiative(ctx context.Context, ini domain.Initiative) (int, error) {
	chunks := ix.chunker.PrepareBrochure(ini.VoteID, ini.BrochureTexts)
	if len(chunks) == 0 {
		ix.logger.Debug("no brochure texts to index", zap.String("vote_id", ini.VoteID))
		return 0, nil
	}

	title := ini.DisplayTitle()

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		embeddings, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embedding failed: %w", err)
		}
		if len(embeddings) != len(batch) {
			return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
		}

		items := make([]port.VectorItem, len(batch))
		for i, chunk := range batch {
			items[i] = port.VectorItem{
				ID:       chunk.Key,
				Vector:   embeddings[i],
				Document: chunk.Text,
				Metadata: map[string]string{
					"vote_id":          chunk.VoteID,
					"language":         chunk.Language,
					"chunk_index":      strconv.Itoa(chunk.Index),
					"initiative_title": title,
				},
			}
		}

		if err := ix.index.Upsert(ctx, items); err != nil {
			return 0, fmt.Errorf("failed to store vectors: %w", err)
		}
	}

	ix.logger.Info("indexed brochure",
		zap.String("vote_id", ini.VoteID),
		zap.Int("chunks", len(chunks)))

	return len(chunks), nil
}

// Reindex drops all chunks for the initiative before indexing it again.
// Chunk keys make plain re-indexing idempotent already; the delete pass
// clears chunks left over when a brochure shrank.
func (ix *Indexer) Reindex(ctx context.Context, ini domain.Initiative) (int, error) {
	if err := ix.index.DeleteByFilter(ctx, map[string]string{"vote_id": ini.VoteID}); err != nil {
		return 0, fmt.Errorf("failed to delete existing chunks: %w", err)
	}
	return ix.IndexInitiative(ctx, ini)
}
