package service

import (
	"context"
	"testing"
	"time"

	"bookbodh-be/internal/config"
	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/internal/repository/memory"
	"bookbodh-be/internal/repository/unitofwork"
	"bookbodh-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T, provider llm.LLMProvider) (IChatService, unitofwork.RepositoryFactory, *memory.ChunkCache) {
	t.Helper()
	uowFactory := unitofwork.NewRepositoryFactory(newTestDB(t))
	cache := memory.NewChunkCache(time.Minute)
	svc := NewChatService(uowFactory, provider, cache, config.AIConfig{TopK: 2, MaxTokens: 100}, logger.NewNopLogger())
	return svc, uowFactory, cache
}

var quantumChunks = []dto.ChatChunk{
	{Text: "The cat sat on the mat."},
	{Text: "Quantum mechanics is complex."},
}

func TestAsk_QueryRequired(t *testing.T) {
	svc, _, _ := newChatFixture(t, nil)

	_, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{Query: "   "})

	assert.ErrorIs(t, err, ErrQueryRequired)
}

func TestAsk_InlineChunksLexical(t *testing.T) {
	svc, _, _ := newChatFixture(t, nil)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{
		Query:  "Tell me about quantum mechanics",
		Book:   ptr("Physics"),
		Chunks: quantumChunks,
	})

	require.NoError(t, err)
	assert.Equal(t, constant.ChatSourceLexical, res.Source)
	assert.Contains(t, res.Response, "Quantum mechanics is complex.")
	assert.NotContains(t, res.Response, "cat")
	require.NotNil(t, res.Book)
	assert.Equal(t, "Physics", *res.Book)
}

func TestAsk_StoredBookByTitle(t *testing.T) {
	svc, uowFactory, cache := newChatFixture(t, nil)
	userId := uuid.New()
	book := seedBook(t, uowFactory, entity.Book{UserId: userId, Title: "Physics", Author: "Feynman", Status: constant.BookStatusProcessed})
	seedChunks(t, uowFactory, book.Id, "The cat sat on the mat.", "Quantum mechanics is complex.")

	res, err := svc.Ask(context.Background(), userId, &dto.ChatRequest{
		Query: "Tell me about quantum mechanics",
		Book:  ptr("physics"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Based on \"Physics\", Quantum mechanics is complex.\n\n(From \"Physics\" by Feynman)", res.Response)
	require.NotNil(t, res.Author)
	assert.Equal(t, "Feynman", *res.Author)

	cached, ok := cache.Get(book.Id)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestAsk_UnknownBookId(t *testing.T) {
	svc, uowFactory, _ := newChatFixture(t, nil)
	book := seedBook(t, uowFactory, entity.Book{UserId: uuid.New(), Title: "Someone Else's"})

	_, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{
		Query:  "What happens next?",
		BookId: &book.Id,
	})

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestAsk_UnknownTitleAnswersWithoutSources(t *testing.T) {
	svc, _, _ := newChatFixture(t, nil)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{
		Query: "Tell me about quantum mechanics",
		Book:  ptr("Missing Book"),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Response)
	require.NotNil(t, res.Book)
	assert.Equal(t, "Missing Book", *res.Book)
}

func TestAsk_GeneralWithoutBook(t *testing.T) {
	svc, _, _ := newChatFixture(t, nil)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{Query: "Recommend something to read"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Response)
	assert.Nil(t, res.Book)
	assert.Equal(t, constant.ChatSourceLexical, res.Source)
}

func TestAsk_LLMAnswerWithCitation(t *testing.T) {
	provider := &fakeLLM{reply: "According to Physics, quantum mechanics is famously hard."}
	svc, uowFactory, _ := newChatFixture(t, provider)
	userId := uuid.New()
	book := seedBook(t, uowFactory, entity.Book{UserId: userId, Title: "Physics", Author: "Feynman"})
	seedChunks(t, uowFactory, book.Id, "The cat sat on the mat.", "Quantum mechanics is complex.", "Light behaves like a wave.")

	res, err := svc.Ask(context.Background(), userId, &dto.ChatRequest{
		Query:  "Tell me about quantum mechanics",
		BookId: &book.Id,
	})

	require.NoError(t, err)
	assert.Equal(t, constant.ChatSourceLLM, res.Source)
	assert.Equal(t, provider.reply, res.Response)
	require.NotNil(t, res.Book)
	assert.Equal(t, "Physics", *res.Book)
	require.NotNil(t, res.Author)
	assert.Equal(t, "Feynman", *res.Author)

	require.Len(t, provider.history, 2)
	assert.Equal(t, llm.RoleSystem, provider.history[0].Role)
	prompt := provider.history[1].Content
	assert.Contains(t, prompt, "Chunk 1 from 'Physics' by Feynman:\nQuantum mechanics is complex.")
	assert.NotContains(t, prompt, "Chunk 3 from")
}

func TestAsk_LLMFailureFallsBackToLexical(t *testing.T) {
	svc, _, _ := newChatFixture(t, &fakeLLM{err: errUnavailable})

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{
		Query:  "Tell me about quantum mechanics",
		Book:   ptr("Physics"),
		Chunks: quantumChunks,
	})

	require.NoError(t, err)
	assert.Equal(t, constant.ChatSourceLexical, res.Source)
	assert.Contains(t, res.Response, "Quantum mechanics is complex.")
}

func TestAsk_GeneralUsesLLM(t *testing.T) {
	provider := &fakeLLM{reply: "Try a classic like Cosmos."}
	svc, _, _ := newChatFixture(t, provider)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.ChatRequest{Query: "Recommend something to read"})

	require.NoError(t, err)
	assert.Equal(t, constant.ChatSourceLLM, res.Source)
	assert.Equal(t, "Try a classic like Cosmos.", res.Response)
	assert.Contains(t, provider.history[1].Content, "Recommend something to read")
}
