package usecase

import (
	"context"

	"go.uber.org/zap"

	"swissvote/internal/domain"
)

// Pipeline is the single entry point for retrieval-augmented queries.
// It composes Retriever, Enricher and Assembler into one call.
type Pipeline struct {
	retriever *Retriever
	enricher  *Enricher
	assembler *Assembler
	logger    *zap.Logger
}

func NewPipeline(retriever *Retriever, enricher *Enricher, assembler *Assembler, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		retriever: retriever,
		enricher:  enricher,
		assembler: assembler,
		logger:    logger,
	}
}

// QueryWithContext runs retrieval with language fallback, enriches the
// hits with initiative metadata and renders the formatted context
// block. It always returns a well-formed result; an empty or unmatched
// query yields zero contexts and the sentinel text, never an error.
func (p *Pipeline) QueryWithContext(ctx context.Context, query, language string, topK int, includeMetadata bool) domain.RagResult {
	p.logger.Info("rag query",
		zap.String("query", query),
		zap.String("language", language),
		zap.Int("top_k", topK))

	contexts := p.retriever.RetrieveWithFallback(ctx, query, language, topK)

	result := domain.RagResult{
		Query:              query,
		Language:           language,
		Contexts:           contexts,
		InitiativeMetadata: map[string]domain.InitiativeMetadata{},
		ContextCount:       len(contexts),
	}

	if includeMetadata && len(contexts) > 0 {
		result.InitiativeMetadata = p.enricher.Enrich(ctx, result.VoteIDs())
	}

	result.FormattedContext = p.assembler.Assemble(contexts, result.InitiativeMetadata)

	p.logger.Info("rag query complete",
		zap.Int("contexts", result.ContextCount),
		zap.Int("initiatives", len(result.InitiativeMetadata)))

	return result
}
