package usecase

import (
	"context"

	"go.uber.org/zap"

	"swissvote/internal/domain"
	"swissvote/internal/port"
)

// Enricher resolves vote ids of retrieved chunks to initiative records.
// Metadata is optional for callers: missing ids are simply absent from
// the returned map, and a store failure degrades to fewer entries.
type Enricher struct {
	store  port.MetadataStore
	logger *zap.Logger
}

func NewEnricher(store port.MetadataStore, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{store: store, logger: logger}
}

// Enrich performs one lookup per unique vote id. It always returns a
// usable (possibly empty) map; the caller still has the source text
// even when enrichment is down.
func (e *Enricher) Enrich(ctx context.Context, voteIDs []string) map[string]domain.InitiativeMetadata {
	metadata := make(map[string]domain.InitiativeMetadata)

	seen := make(map[string]bool)
	for _, voteID := range voteIDs {
		if voteID == "" || seen[voteID] {
			continue
		}
		seen[voteID] = true

		ini, ok, err := e.store.GetInitiative(ctx, voteID)
		if err != nil {
			e.logger.Warn("failed to fetch initiative metadata",
				zap.String("vote_id", voteID),
				zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		metadata[voteID] = snapshotFromInitiative(ini)
	}

	return metadata
}

// snapshotFromInitiative denormalizes an initiative record into the
// per-query metadata snapshot.
func snapshotFromInitiative(ini domain.Initiative) domain.InitiativeMetadata {
	return domain.InitiativeMetadata{
		VoteID:          ini.VoteID,
		Title:           ini.DisplayTitle(),
		Date:            ini.VoteDate,
		PolicyArea:      ini.PolicyArea,
		CouncilPosition: ini.CouncilPosition,
		PartyPositions:  ini.PartyPositions,
		DetailsURL:      ini.DetailsURL,
		DocumentURL:     ini.BrochurePDF,
	}
}
