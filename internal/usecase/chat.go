package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swissvote/internal/domain"
	"swissvote/internal/port"
)

// ChatService answers user questions, injecting retrieved brochure
// context into the model prompt when the query looks voting-related.
type ChatService struct {
	pipeline *Pipeline
	llm      port.LLM
	detector port.LanguageDetector
	store    port.MetadataStore // query log, may be nil
	topK     int
	logger   *zap.Logger
}

func NewChatService(pipeline *Pipeline, llm port.LLM, detector port.LanguageDetector, store port.MetadataStore, topK int, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		pipeline: pipeline,
		llm:      llm,
		detector: detector,
		store:    store,
		topK:     topK,
		logger:   logger,
	}
}

// ChatAnswer is the reply to one user question.
type ChatAnswer struct {
	Answer   string
	Language string
	Rag      domain.RagResult
	UsedRAG  bool
}

// Answer detects the query language, optionally retrieves brochure
// context and calls the model. A failed retrieval degrades to a plain
// completion; only a failed model call is an error.
func (s *ChatService) Answer(ctx context.Context, query string) (ChatAnswer, error) {
	start := time.Now()

	lang := s.detector.DetectLanguage(query)
	useRAG := ShouldUseRAG(query)

	var rag domain.RagResult
	if useRAG {
		rag = s.pipeline.QueryWithContext(ctx, query, lang, s.topK, true)
		s.logger.Info("rag context added", zap.Int("chunks", rag.ContextCount))
	}

	messages := BuildChatMessages(query, rag, lang)

	answer, err := s.llm.Chat(ctx, messages)

	s.logQuery(ctx, query, lang, rag, time.Since(start), err)

	if err != nil {
		return ChatAnswer{}, err
	}

	return ChatAnswer{
		Answer:   answer,
		Language: lang,
		Rag:      rag,
		UsedRAG:  useRAG,
	}, nil
}

// logQuery records analytics best-effort; a failed write never fails
// the answer.
func (s *ChatService) logQuery(ctx context.Context, query, lang string, rag domain.RagResult, elapsed time.Duration, chatErr error) {
	if s.store == nil {
		return
	}

	entry := domain.QueryLogEntry{
		ID:         uuid.NewString(),
		Query:      query,
		Language:   lang,
		VoteIDs:    rag.VoteIDs(),
		ChunkCount: rag.ContextCount,
		DurationMS: elapsed.Milliseconds(),
		Success:    chatErr == nil,
		CreatedAt:  time.Now().UTC(),
	}
	if chatErr != nil {
		entry.ErrorMessage = chatErr.Error()
	}

	if err := s.store.LogQuery(ctx, entry); err != nil {
		s.logger.Warn("failed to write query log", zap.Error(err))
	}
}
