package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"swissvote/internal/domain"
)

func ctxFor(voteID, text, title string) domain.RetrievedContext {
	return domain.RetrievedContext{
		Text: text,
		Metadata: domain.ChunkMetadata{
			VoteID: voteID,
			Title:  title,
		},
	}
}

func TestAssemble_EmptyContexts(t *testing.T) {
	a := NewAssembler()
	assert.Equal(t, NoInformationFound, a.Assemble(nil, nil))
	assert.Equal(t, NoInformationFound, a.Assemble([]domain.RetrievedContext{}, map[string]domain.InitiativeMetadata{}))
}

func TestAssemble_GroupsByVoteInFirstSeenOrder(t *testing.T) {
	a := NewAssembler()
	contexts := []domain.RetrievedContext{
		ctxFor("664", "Text über Biodiversität.", "Biodiversitätsinitiative"),
		ctxFor("665", "Text über Strom.", "Stromgesetz"),
		ctxFor("664", "Mehr über Biodiversität.", "Biodiversitätsinitiative"),
	}

	out := a.Assemble(contexts, nil)

	pos664 := strings.Index(out, "### Initiative 664:")
	pos665 := strings.Index(out, "### Initiative 665:")
	assert.Greater(t, pos664, -1)
	assert.Greater(t, pos665, -1)
	assert.Less(t, pos664, pos665)

	// Both 664 chunks render inside one section.
	assert.Equal(t, 1, strings.Count(out, "### Initiative 664:"))
	assert.Contains(t, out, "Text über Biodiversität.")
	assert.Contains(t, out, "Mehr über Biodiversität.")
}

func TestAssemble_TitlePreference(t *testing.T) {
	a := NewAssembler()
	contexts := []domain.RetrievedContext{ctxFor("664", "Text.", "Chunk-Titel")}

	// Store metadata wins over chunk metadata.
	out := a.Assemble(contexts, map[string]domain.InitiativeMetadata{
		"664": {VoteID: "664", Title: "Store-Titel"},
	})
	assert.Contains(t, out, "### Initiative 664: Store-Titel")

	// Without store metadata the chunk title serves.
	out = a.Assemble(contexts, nil)
	assert.Contains(t, out, "### Initiative 664: Chunk-Titel")

	// Without any title the vote id serves.
	out = a.Assemble([]domain.RetrievedContext{ctxFor("664", "Text.", "")}, nil)
	assert.Contains(t, out, "### Initiative 664: 664")
}

func TestAssemble_MetadataSections(t *testing.T) {
	a := NewAssembler()
	contexts := []domain.RetrievedContext{ctxFor("664", "Text.", "Biodiversitätsinitiative")}
	metadata := map[string]domain.InitiativeMetadata{
		"664": {
			VoteID:          "664",
			Title:           "Biodiversitätsinitiative",
			Date:            "2024-09-22",
			CouncilPosition: "Ablehnung",
			PartyPositions:  []string{"SP: Ja", "Grüne: Ja"},
			DocumentURL:     "https://www.admin.ch/broschuere-664.pdf",
		},
	}

	out := a.Assemble(contexts, metadata)

	assert.Contains(t, out, "**Relevante Informationen aus den offiziellen Abstimmungsbüchlein:**")
	assert.Contains(t, out, "**Abstimmungsdatum:** 2024-09-22")
	assert.Contains(t, out, "**Position Bundesrat:** Ablehnung")
	assert.Contains(t, out, "**Parteiparolen:**")
	assert.Contains(t, out, "  - SP: Ja")
	assert.Contains(t, out, "[Offizielles Abstimmungsbüchlein](https://www.admin.ch/broschuere-664.pdf)")
}

func TestAssemble_PartyPositionsCapped(t *testing.T) {
	a := NewAssembler()
	var positions []string
	for i := 0; i < 8; i++ {
		positions = append(positions, fmt.Sprintf("Partei %d: Ja", i))
	}

	out := a.Assemble(
		[]domain.RetrievedContext{ctxFor("664", "Text.", "")},
		map[string]domain.InitiativeMetadata{"664": {VoteID: "664", PartyPositions: positions}},
	)

	for i := 0; i < 5; i++ {
		assert.Contains(t, out, fmt.Sprintf("Partei %d: Ja", i))
	}
	assert.NotContains(t, out, "Partei 5: Ja")
}

func TestAssemble_OmitsAbsentMetadataFields(t *testing.T) {
	a := NewAssembler()
	out := a.Assemble(
		[]domain.RetrievedContext{ctxFor("664", "Text.", "Titel")},
		map[string]domain.InitiativeMetadata{"664": {VoteID: "664", Title: "Titel"}},
	)

	assert.NotContains(t, out, "**Abstimmungsdatum:**")
	assert.NotContains(t, out, "**Position Bundesrat:**")
	assert.NotContains(t, out, "**Parteiparolen:**")
	assert.NotContains(t, out, "**Quelle:**")
}
