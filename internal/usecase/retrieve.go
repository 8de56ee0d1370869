package usecase

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"swissvote/internal/domain"
	"swissvote/internal/port"
)

// fallbackRatio controls when the retriever widens a query to other
// languages: fewer than topK/fallbackRatio primary-language hits
// triggers the fallback. The ratio is a tunable constant carried over
// from the original threshold of topK/2.
const fallbackRatio = 2

// Retriever runs similarity search against the vector index, scored
// and filtered per language.
type Retriever struct {
	index     port.VectorIndex
	embedder  port.Embedder
	languages []string
	threshold float64
	logger    *zap.Logger
}

// NewRetriever wires the retriever with its collaborators. languages is
// the fallback priority order; threshold is the minimum similarity a
// hit must reach to be returned.
func NewRetriever(index port.VectorIndex, embedder port.Embedder, languages []string, threshold float64, logger *zap.Logger) *Retriever {
	if len(languages) == 0 {
		languages = domain.SupportedLanguages
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		index:     index,
		embedder:  embedder,
		languages: languages,
		threshold: threshold,
		logger:    logger,
	}
}

// Retrieve runs one similarity search restricted to a single language.
// A failing sub-query degrades to an empty result; it never propagates
// an error, so a failed fallback query cannot abort hits already
// gathered by the caller.
func (r *Retriever) Retrieve(ctx context.Context, query, language string, topK int) []domain.RetrievedContext {
	if strings.TrimSpace(query) == "" || topK <= 0 {
		return nil
	}

	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		r.logger.Warn("query embedding failed",
			zap.String("language", language),
			zap.Error(err))
		return nil
	}
	if len(embeddings) == 0 {
		r.logger.Warn("query embedding returned no vectors", zap.String("language", language))
		return nil
	}

	results, err := r.index.Search(ctx, embeddings[0], topK, map[string]string{"language": language})
	if err != nil {
		r.logger.Warn("vector search failed",
			zap.String("language", language),
			zap.Error(err))
		return nil
	}

	contexts := make([]domain.RetrievedContext, 0, len(results))
	for _, result := range results {
		similarity := similarityFromDistance(result.Distance)
		if similarity < r.threshold {
			continue
		}
		contexts = append(contexts, domain.RetrievedContext{
			Text:       result.Document,
			Metadata:   metadataFromResult(result),
			ChunkKey:   result.ID,
			Similarity: similarity,
			Distance:   result.Distance,
		})
	}

	r.logger.Debug("retrieved chunks",
		zap.String("language", language),
		zap.Int("count", len(contexts)))

	return contexts
}

// RetrieveWithFallback queries the preferred language first and widens
// to the other supported languages when coverage is sparse. The result
// keeps primary-language hits ahead of fallback hits and never exceeds
// topK entries.
func (r *Retriever) RetrieveWithFallback(ctx context.Context, query, preferred string, topK int) []domain.RetrievedContext {
	preferred = r.normalizeLanguage(preferred)

	contexts := r.Retrieve(ctx, query, preferred, topK)

	if len(contexts) < topK/fallbackRatio {
		r.logger.Info("insufficient results in preferred language, trying others",
			zap.String("language", preferred),
			zap.Int("count", len(contexts)))

		for _, lang := range r.languages {
			if lang == preferred {
				continue
			}
			additional := r.Retrieve(ctx, query, lang, topK-len(contexts))
			contexts = append(contexts, additional...)

			if len(contexts) >= topK {
				break
			}
		}
	}

	if len(contexts) > topK {
		contexts = contexts[:topK]
	}
	return contexts
}

// normalizeLanguage maps unsupported codes to the default language.
func (r *Retriever) normalizeLanguage(code string) string {
	for _, lang := range r.languages {
		if lang == code {
			return code
		}
	}
	return domain.DefaultLanguage
}

// similarityFromDistance maps a non-negative distance onto [0, 1],
// monotonically decreasing.
func similarityFromDistance(distance float64) float64 {
	if distance > 1 {
		distance = 1
	}
	return 1 - distance
}

func metadataFromResult(result port.VectorResult) domain.ChunkMetadata {
	chunkIndex, _ := strconv.Atoi(result.Metadata["chunk_index"])
	return domain.ChunkMetadata{
		VoteID:     result.Metadata["vote_id"],
		Language:   result.Metadata["language"],
		ChunkIndex: chunkIndex,
		Title:      result.Metadata["initiative_title"],
	}
}
