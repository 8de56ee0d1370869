package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissvote/internal/adapter/memstore"
	"swissvote/internal/domain"
)

func TestEnrich_ResolvesAndDeduplicates(t *testing.T) {
	store := memstore.NewMemoryMetadataStore()
	require.NoError(t, store.PutInitiative(context.Background(), domain.Initiative{
		VoteID:          "664",
		OfficialTitle:   "Bundesbeschluss über die Biodiversität",
		Keyword:         "Biodiversitätsinitiative",
		VoteDate:        "2024-09-22",
		CouncilPosition: "Ablehnung",
		PartyPositions:  []string{"SP: Ja", "SVP: Nein"},
		BrochurePDF:     "https://www.admin.ch/broschuere-664.pdf",
	}))

	e := NewEnricher(store, nil)
	metadata := e.Enrich(context.Background(), []string{"664", "664", "", "999"})

	require.Len(t, metadata, 1)
	meta := metadata["664"]
	assert.Equal(t, "Biodiversitätsinitiative", meta.Title)
	assert.Equal(t, "2024-09-22", meta.Date)
	assert.Equal(t, "Ablehnung", meta.CouncilPosition)
	assert.Equal(t, "https://www.admin.ch/broschuere-664.pdf", meta.DocumentURL)
}

func TestEnrich_TitleFallsBackToOfficial(t *testing.T) {
	store := memstore.NewMemoryMetadataStore()
	require.NoError(t, store.PutInitiative(context.Background(), domain.Initiative{
		VoteID:        "665",
		OfficialTitle: "Bundesgesetz über eine sichere Stromversorgung",
	}))

	e := NewEnricher(store, nil)
	metadata := e.Enrich(context.Background(), []string{"665"})

	require.Contains(t, metadata, "665")
	assert.Equal(t, "Bundesgesetz über eine sichere Stromversorgung", metadata["665"].Title)
}

func TestEnrich_StoreFailureDegradesToEmptyMap(t *testing.T) {
	store := memstore.NewMemoryMetadataStore()
	store.FailLookups = true

	e := NewEnricher(store, nil)
	metadata := e.Enrich(context.Background(), []string{"664"})

	assert.NotNil(t, metadata)
	assert.Empty(t, metadata)
}
