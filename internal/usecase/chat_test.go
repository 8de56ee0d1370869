package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissvote/internal/adapter/embedding"
	"swissvote/internal/adapter/language"
	"swissvote/internal/adapter/memstore"
	"swissvote/internal/domain"
	"swissvote/internal/port"
)

// recordingLLM captures the messages it was called with.
type recordingLLM struct {
	reply    string
	err      error
	messages []port.ChatMessage
}

func (l *recordingLLM) Chat(_ context.Context, messages []port.ChatMessage) (string, error) {
	l.messages = messages
	if l.err != nil {
		return "", l.err
	}
	return l.reply, nil
}

func (l *recordingLLM) ModelName() string { return "recording" }

func newChatFixture(t *testing.T) (*ChatService, *recordingLLM, *memstore.MemoryMetadataStore) {
	t.Helper()

	embedder := embedding.NewMockEmbedder(32)
	index := memstore.NewMemoryVectorIndex()
	store := memstore.NewMemoryMetadataStore()

	seedIndex(t, index, embedder, "664", "de", "Die Biodiversitätsinitiative verlangt mehr Schutzgebiete.")
	require.NoError(t, store.PutInitiative(context.Background(), domain.Initiative{
		VoteID:  "664",
		Keyword: "Biodiversitätsinitiative",
	}))

	llm := &recordingLLM{reply: "Die Initiative verlangt mehr Schutzgebiete."}
	chat := NewChatService(newTestPipeline(index, store, embedder), llm, language.NewKeywordDetector(), store, 5, nil)
	return chat, llm, store
}

func TestChatAnswer_VotingQuestionUsesRetrieval(t *testing.T) {
	chat, llm, store := newChatFixture(t)

	answer, err := chat.Answer(context.Background(), "Worum geht es bei der Abstimmung über die Biodiversität?")
	require.NoError(t, err)

	assert.True(t, answer.UsedRAG)
	assert.Equal(t, "de", answer.Language)
	assert.Equal(t, 1, answer.Rag.ContextCount)

	// System prompt plus a user message carrying the context block.
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Contains(t, llm.messages[1].Content, "Relevante Informationen")
	assert.Contains(t, llm.messages[1].Content, "**Frage:**")

	logs := store.QueryLogs()
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Success)
	assert.Equal(t, []string{"664"}, logs[0].VoteIDs)
	assert.NotEmpty(t, logs[0].ID)
}

func TestChatAnswer_SmallTalkSkipsRetrieval(t *testing.T) {
	chat, llm, _ := newChatFixture(t)

	answer, err := chat.Answer(context.Background(), "Guten Tag!")
	require.NoError(t, err)

	assert.False(t, answer.UsedRAG)
	assert.Zero(t, answer.Rag.ContextCount)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "Guten Tag!", llm.messages[1].Content)
}

func TestChatAnswer_FrenchQuestionGetsFrenchPrompt(t *testing.T) {
	chat, llm, _ := newChatFixture(t)

	answer, err := chat.Answer(context.Background(), "Quelle est la votation sur la biodiversité?")
	require.NoError(t, err)

	assert.Equal(t, "fr", answer.Language)
	assert.True(t, strings.Contains(llm.messages[0].Content, "votations populaires suisses"))
}

func TestChatAnswer_ModelFailureLogged(t *testing.T) {
	chat, llm, store := newChatFixture(t)
	llm.err = fmt.Errorf("model unavailable")

	_, err := chat.Answer(context.Background(), "Worum geht es bei der Abstimmung?")
	require.Error(t, err)

	logs := store.QueryLogs()
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
	assert.Contains(t, logs[0].ErrorMessage, "model unavailable")
}

func TestChatAnswer_NilQueryLogStore(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	index := memstore.NewMemoryVectorIndex()
	store := memstore.NewMemoryMetadataStore()

	llm := &recordingLLM{reply: "Hallo!"}
	chat := NewChatService(newTestPipeline(index, store, embedder), llm, language.NewKeywordDetector(), nil, 5, nil)

	answer, err := chat.Answer(context.Background(), "Hallo")
	require.NoError(t, err)
	assert.Equal(t, "Hallo!", answer.Answer)
}
