package usecase

import (
	"fmt"
	"strings"

	"swissvote/internal/domain"
)

// NoInformationFound is the sentinel the assembler returns for an empty
// context list. Callers must treat it as a valid answer, not an error.
const NoInformationFound = "Keine relevanten Informationen gefunden."

// maxPartyPositions caps how many party positions are rendered per
// initiative.
const maxPartyPositions = 5

// Assembler renders retrieved contexts into a single prompt-ready text
// block, grouped by initiative.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble groups contexts by vote id in first-seen order and renders
// each group as a titled section: chunk texts first, then the selected
// metadata fields that are present.
func (a *Assembler) Assemble(contexts []domain.RetrievedContext, metadata map[string]domain.InitiativeMetadata) string {
	if len(contexts) == 0 {
		return NoInformationFound
	}

	var order []string
	groups := make(map[string][]domain.RetrievedContext)
	for _, ctx := range contexts {
		voteID := ctx.Metadata.VoteID
		if _, ok := groups[voteID]; !ok {
			order = append(order, voteID)
		}
		groups[voteID] = append(groups[voteID], ctx)
	}

	parts := []string{"**Relevante Informationen aus den offiziellen Abstimmungsbüchlein:**\n"}

	for _, voteID := range order {
		chunks := groups[voteID]
		meta, hasMeta := metadata[voteID]

		title := meta.Title
		if title == "" {
			title = chunks[0].Metadata.Title
		}
		if title == "" {
			title = voteID
		}

		parts = append(parts, fmt.Sprintf("\n### Initiative %s: %s", voteID, title))
		if meta.Date != "" {
			parts = append(parts, fmt.Sprintf("**Abstimmungsdatum:** %s", meta.Date))
		}

		parts = append(parts, "")
		for _, chunk := range chunks {
			parts = append(parts, chunk.Text, "")
		}

		if hasMeta {
			if meta.CouncilPosition != "" {
				parts = append(parts, fmt.Sprintf("**Position Bundesrat:** %s", meta.CouncilPosition))
			}

			if len(meta.PartyPositions) > 0 {
				parts = append(parts, "**Parteiparolen:**")
				positions := meta.PartyPositions
				if len(positions) > maxPartyPositions {
					positions = positions[:maxPartyPositions]
				}
				for _, position := range positions {
					parts = append(parts, fmt.Sprintf("  - %s", position))
				}
			}

			if meta.DocumentURL != "" {
				parts = append(parts, fmt.Sprintf("\n**Quelle:** [Offizielles Abstimmungsbüchlein](%s)", meta.DocumentURL))
			}
		}

		parts = append(parts, "\n---\n")
	}

	return strings.Join(parts, "\n")
}
