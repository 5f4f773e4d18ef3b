package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookbodh-be/internal/config"
	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/mapper"
	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/internal/repository/memory"
	"bookbodh-be/internal/repository/specification"
	"bookbodh-be/internal/repository/unitofwork"
	"bookbodh-be/pkg/llm"
	"bookbodh-be/pkg/pipeline/retrieval"

	"github.com/google/uuid"
)

var ErrQueryRequired = errors.New("query is required")

type IChatService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	chunkCache  *memory.ChunkCache
	chunkMapper *mapper.BookChunkMapper
	ai          config.AIConfig
	logger      logger.ILogger
}

// NewChatService accepts a nil llmProvider; every answer is then lexical.
func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	chunkCache *memory.ChunkCache,
	ai config.AIConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		chunkCache:  chunkCache,
		chunkMapper: mapper.NewBookChunkMapper(),
		ai:          ai,
		logger:      log,
	}
}

// chatContext is what the request resolved to before answering.
type chatContext struct {
	sources []retrieval.Source
	title   *string
	author  *string
	hasBook bool
}

func (s *chatService) Ask(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	cc, err := s.resolve(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	if !cc.hasBook && len(cc.sources) == 0 {
		return s.general(ctx, query), nil
	}

	if len(cc.sources) > 0 && s.llmProvider != nil {
		res, err := s.askLLM(ctx, query, cc)
		if err == nil {
			return res, nil
		}
		s.logger.Warn("ChatService", "LLM call failed, answering lexically", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return lexicalResponse(retrieval.ScoreAndAnswer(query, cc.sources, cc.title, cc.author)), nil
}

func (s *chatService) resolve(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*chatContext, error) {
	cc := &chatContext{}
	if req.Book != nil && strings.TrimSpace(*req.Book) != "" {
		title := strings.TrimSpace(*req.Book)
		cc.title = &title
		cc.hasBook = true
	}

	if len(req.Chunks) > 0 {
		cc.sources = make([]retrieval.Source, len(req.Chunks))
		for i, c := range req.Chunks {
			cc.sources[i] = retrieval.Source{Title: c.Title, Author: c.Author, Text: c.Text, Summary: c.Summary}
		}
		return cc, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var book *entity.Book
	var err error
	switch {
	case req.BookId != nil && *req.BookId != uuid.Nil:
		book, err = uow.BookRepository().FindOne(ctx,
			specification.ByID{ID: *req.BookId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if book == nil {
			return nil, ErrBookNotFound
		}
	case cc.title != nil:
		book, err = uow.BookRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByBookTitle{Title: *cc.title},
		)
		if err != nil {
			return nil, err
		}
	}

	if book == nil {
		return cc, nil
	}

	cc.hasBook = true
	cc.title = &book.Title
	if book.Author != "" {
		cc.author = &book.Author
	}

	chunks, err := s.loadChunks(ctx, book.Id)
	if err != nil {
		return nil, err
	}
	cc.sources = s.chunkMapper.ToSources(chunks)
	return cc, nil
}

func (s *chatService) loadChunks(ctx context.Context, bookId uuid.UUID) ([]*entity.BookChunk, error) {
	if chunks, ok := s.chunkCache.Get(bookId); ok {
		return chunks, nil
	}

	chunks, err := s.uowFactory.NewUnitOfWork(ctx).BookChunkRepository().FindAll(ctx,
		specification.ByBookID{BookID: bookId},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, err
	}
	s.chunkCache.Set(bookId, chunks)
	return chunks, nil
}

func (s *chatService) general(ctx context.Context, query string) *dto.ChatResponse {
	if s.llmProvider != nil {
		reply, err := s.llmProvider.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: constant.ChatSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(constant.ChatGeneralPromptTemplate, query)},
		}, s.options()...)
		if err == nil && strings.TrimSpace(reply) != "" {
			return &dto.ChatResponse{Response: reply, Source: constant.ChatSourceLLM}
		}
		if err != nil {
			s.logger.Warn("ChatService", "LLM call failed for general chat", map[string]interface{}{"error": err.Error()})
		}
	}
	return lexicalResponse(retrieval.ScoreAndAnswer(query, nil, nil, nil))
}

func (s *chatService) askLLM(ctx context.Context, query string, cc *chatContext) (*dto.ChatResponse, error) {
	topK := s.ai.TopK
	if topK <= 0 {
		topK = 3
	}
	ranked := retrieval.Rank(query, cc.sources)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	type bookRef struct{ title, author string }
	var refs []bookRef
	var excerpts strings.Builder
	for i, r := range ranked {
		title := retrieval.BookTitleFromPart(r.Source.Title)
		if title == "" && cc.title != nil {
			title = *cc.title
		}
		author := r.Source.Author
		if author == "" && cc.author != nil {
			author = *cc.author
		}
		fmt.Fprintf(&excerpts, constant.ChatExcerptTemplate, i+1, title, author, r.Source.Text)
		if title != "" {
			refs = append(refs, bookRef{title, author})
		}
	}

	reply, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.ChatSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.ChatLLMPromptTemplate, excerpts.String(), query)},
	}, s.options()...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply) == "" {
		return nil, errors.New("empty reply from language model")
	}

	res := &dto.ChatResponse{Response: reply, Source: constant.ChatSourceLLM}
	lower := strings.ToLower(reply)
	for _, ref := range refs {
		if strings.Contains(lower, strings.ToLower(ref.title)) {
			title := ref.title
			res.Book = &title
			if ref.author != "" {
				author := ref.author
				res.Author = &author
			}
			break
		}
	}
	return res, nil
}

func (s *chatService) options() []llm.Option {
	opts := []llm.Option{
		llm.WithTemperature(s.ai.Temperature),
		llm.WithMaxTokens(s.ai.MaxTokens),
	}
	if s.ai.LLMModel != "" {
		opts = append(opts, llm.WithModel(s.ai.LLMModel))
	}
	return opts
}

func lexicalResponse(a retrieval.Answer) *dto.ChatResponse {
	return &dto.ChatResponse{
		Response: a.ResponseText,
		Book:     a.CitedTitle,
		Author:   a.CitedAuthor,
		Source:   constant.ChatSourceLexical,
	}
}
