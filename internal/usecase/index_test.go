package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissvote/internal/adapter/chunker"
	"swissvote/internal/adapter/embedding"
	"swissvote/internal/adapter/memstore"
	"swissvote/internal/domain"
)

func newTestIndexer(t *testing.T, index *memstore.MemoryVectorIndex, store *memstore.MemoryMetadataStore) *Indexer {
	t.Helper()
	chk, err := chunker.NewSentenceChunker(200, 40)
	require.NoError(t, err)
	return NewIndexer(store, index, embedding.NewMockEmbedder(32), chk, 8, nil)
}

func TestIndexAll(t *testing.T) {
	store := memstore.NewMemoryMetadataStore()
	index := memstore.NewMemoryVectorIndex()

	text := strings.Repeat("Die Vorlage regelt den Schutz der Biodiversität. ", 12)
	require.NoError(t, store.PutInitiative(context.Background(), domain.Initiative{
		VoteID:  "664",
		Keyword: "Biodiversitätsinitiative",
		BrochureTexts: map[string]string{
			"de": text,
			"fr": text,
		},
	}))
	require.NoError(t, store.PutInitiative(context.Background(), domain.Initiative{
		VoteID: "665", // no brochure texts
	}))

	indexer := newTestIndexer(t, index, store)

	var calls int
	result, err := indexer.IndexAll(context.Background(), func(processed, total int) {
		calls++
		assert.Equal(t, 2, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.InitiativesIndexed)
	assert.Equal(t, 1, result.InitiativesSkipped)
	assert.Greater(t, result.ChunksIndexed, 0)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, calls)

	count, err := index.Count()
	require.NoError(t, err)
	assert.Equal(t, result.ChunksIndexed, count)
}

func TestIndexInitiative_Idempotent(t *testing.T) {
	store := memstore.NewMemoryMetadataStore()
	index := memstore.NewMemoryVectorIndex()
	indexer := newTestIndexer(t, index, store)

	ini := domain.Initiative{
		VoteID: "664",
		BrochureTexts: map[string]string{
			"de": strings.Repeat("Die Vorlage regelt vieles. ", 20),
		},
	}

	first, err := indexer.IndexInitiative(context.Background(), ini)
	require.NoError(t, err)

	second, err := indexer.IndexInitiative(context.Background(), ini)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Deterministic chunk ids mean the second run upserts in place.
	count, err := index.Count()
	require.NoError(t, err)
	assert.Equal(t, first, count)
}

func TestReindex_DropsStaleChunks(t *testing.T) {
	store := memstore.NewMemoryMetadataStore()
	index := memstore.NewMemoryVectorIndex()
	indexer := newTestIndexer(t, index, store)

	long := domain.Initiative{
		VoteID: "664",
		BrochureTexts: map[string]string{
			"de": strings.Repeat("Die Vorlage regelt vieles. ", 40),
		},
	}
	short := domain.Initiative{
		VoteID: "664",
		BrochureTexts: map[string]string{
			"de": "Die Vorlage regelt wenig.",
		},
	}

	longChunks, err := indexer.IndexInitiative(context.Background(), long)
	require.NoError(t, err)
	require.Greater(t, longChunks, 1)

	shortChunks, err := indexer.Reindex(context.Background(), short)
	require.NoError(t, err)
	assert.Equal(t, 1, shortChunks)

	count, err := index.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
