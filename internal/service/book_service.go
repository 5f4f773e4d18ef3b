package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/internal/repository/memory"
	"bookbodh-be/internal/repository/specification"
	"bookbodh-be/internal/repository/unitofwork"
	"bookbodh-be/pkg/events"
	"bookbodh-be/pkg/pipeline/extract"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrBookBusy     = errors.New("book is already being processed")
)

type IBookService interface {
	Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadBookRequest, fileName string, data []byte) (*dto.UploadBookResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, query string) ([]*dto.BookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.BookResponse, error)
	GetChunks(ctx context.Context, userId uuid.UUID, id uuid.UUID, limit, offset int) (*dto.GetChunksResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Reextract(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ReextractResponse, error)
}

type bookService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   events.Publisher
	chunkCache       *memory.ChunkCache
	uploadDir        string
	lockTTL          time.Duration
	logger           logger.ILogger
}

func NewBookService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	chunkCache *memory.ChunkCache,
	uploadDir string,
	lockTTL time.Duration,
	log logger.ILogger,
) IBookService {
	return &bookService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		chunkCache:       chunkCache,
		uploadDir:        uploadDir,
		lockTTL:          lockTTL,
		logger:           log,
	}
}

func (s *bookService) Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadBookRequest, fileName string, data []byte) (*dto.UploadBookResponse, error) {
	if err := extract.Validate(data); err != nil {
		return nil, err
	}

	id := uuid.New()
	dir := filepath.Join(s.uploadDir, userId.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, id.String()+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	pageCount := 0
	if info, err := extract.Inspect(data); err != nil {
		s.logger.Warn("BookService", "PDF inspection failed, continuing with heuristic extraction", map[string]interface{}{
			"book_id":   id,
			"file_name": fileName,
			"error":     err.Error(),
		})
	} else {
		pageCount = info.PageCount
	}

	book := entity.Book{
		Id:        id,
		UserId:    userId,
		Title:     strings.TrimSpace(req.Title),
		Author:    strings.TrimSpace(req.Author),
		Category:  strings.TrimSpace(req.Category),
		FilePath:  path,
		FileSize:  int64(len(data)),
		PageCount: pageCount,
		Status:    constant.BookStatusExtracting,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BookRepository().Create(ctx, &book); err != nil {
		os.Remove(path)
		return nil, err
	}

	if err := s.enqueue(ctx, book.Id); err != nil {
		s.markEnqueueFailed(ctx, &book, err)
		return nil, err
	}

	s.logger.Info("BookService", "Book uploaded", map[string]interface{}{
		"book_id":    book.Id,
		"user_id":    userId,
		"file_size":  book.FileSize,
		"page_count": pageCount,
	})

	return &dto.UploadBookResponse{
		Id:     book.Id,
		Status: book.Status,
	}, nil
}

func (s *bookService) GetAll(ctx context.Context, userId uuid.UUID, query string) ([]*dto.BookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if strings.TrimSpace(query) != "" {
		specs = append(specs, specification.BookSearchQuery{Query: query})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	books, err := uow.BookRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.BookResponse, 0, len(books))
	for _, b := range books {
		res = append(res, toBookResponse(b))
	}
	return res, nil
}

func (s *bookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.BookResponse, error) {
	book, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return toBookResponse(book), nil
}

func (s *bookService) GetChunks(ctx context.Context, userId uuid.UUID, id uuid.UUID, limit, offset int) (*dto.GetChunksResponse, error) {
	if _, err := s.findOwned(ctx, userId, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.BookChunkRepository().Count(ctx, specification.ByBookID{BookID: id})
	if err != nil {
		return nil, err
	}

	chunks, err := uow.BookChunkRepository().FindAll(ctx,
		specification.ByBookID{BookID: id},
		specification.OrderBy{Field: "chunk_index"},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GetChunksResponse{
		BookId: id,
		Total:  total,
		Chunks: make([]*dto.BookChunkResponse, 0, len(chunks)),
	}
	for _, c := range chunks {
		res.Chunks = append(res.Chunks, &dto.BookChunkResponse{
			Index:   c.ChunkIndex,
			Title:   c.Title,
			Text:    c.Text,
			Summary: c.Summary,
		})
	}
	return res, nil
}

func (s *bookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	book, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.BookChunkRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.BookRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if book.FilePath != "" {
		if err := os.Remove(book.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("BookService", "Failed to remove stored file", map[string]interface{}{
				"book_id": id,
				"path":    book.FilePath,
				"error":   err.Error(),
			})
		}
	}
	s.chunkCache.Delete(id)

	s.publishEvent(ctx, constant.EventBookDeleted, map[string]interface{}{
		"book_id": id,
		"user_id": userId,
		"title":   book.Title,
	})

	return nil
}

func (s *bookService) Reextract(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ReextractResponse, error) {
	book, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	if book.Status == constant.BookStatusExtracting && !s.stale(book) {
		return nil, ErrBookBusy
	}

	now := time.Now()
	book.Status = constant.BookStatusExtracting
	book.ExtractionError = ""
	book.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BookRepository().Update(ctx, book); err != nil {
		return nil, err
	}

	if err := s.enqueue(ctx, book.Id); err != nil {
		s.markEnqueueFailed(ctx, book, err)
		return nil, err
	}

	return &dto.ReextractResponse{
		Id:     book.Id,
		Status: book.Status,
	}, nil
}

func (s *bookService) findOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Book, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	book, err := uow.BookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// stale reports whether an extracting book outlived the processing lock,
// which means its worker died.
func (s *bookService) stale(book *entity.Book) bool {
	last := book.CreatedAt
	if book.UpdatedAt != nil {
		last = *book.UpdatedAt
	}
	return time.Since(last) > s.lockTTL
}

func (s *bookService) enqueue(ctx context.Context, bookId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishExtractBookMessage{BookId: bookId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func (s *bookService) markEnqueueFailed(ctx context.Context, book *entity.Book, cause error) {
	now := time.Now()
	book.Status = constant.BookStatusError
	book.ExtractionError = "failed to queue extraction: " + cause.Error()
	book.UpdatedAt = &now

	if err := s.uowFactory.NewUnitOfWork(ctx).BookRepository().Update(ctx, book); err != nil {
		s.logger.Error("BookService", "Failed to record enqueue failure", map[string]interface{}{
			"book_id": book.Id,
			"error":   err.Error(),
		})
	}
}

func (s *bookService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("BookService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toBookResponse(b *entity.Book) *dto.BookResponse {
	return &dto.BookResponse{
		Id:              b.Id,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		Status:          b.Status,
		FileSize:        b.FileSize,
		PageCount:       b.PageCount,
		ChunksCount:     b.ChunksCount,
		Summary:         b.Summary,
		ExtractionError: b.ExtractionError,
		ExtractionMeta:  b.ExtractionMeta,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
