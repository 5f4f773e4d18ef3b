package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"bookbodh-be/internal/config"
	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/model"
	"bookbodh-be/internal/repository/unitofwork"
	"bookbodh-be/pkg/database"
	"bookbodh-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const sentence = "The quick brown fox jumps over the lazy dog while the river keeps running to the sea."

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewInMemorySQLite()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testPipeline() config.PipelineConfig {
	return config.PipelineConfig{
		ExtractTopic:    "EXTRACT_BOOK_CONTENT",
		ChunkWords:      10,
		SinkBatchSize:   2,
		SinkConcurrency: 2,
		LockTTL:         time.Minute,
	}
}

// textPDF builds a minimal document whose content stream holds n Tj operators.
func textPDF(n int) []byte {
	ops := make([]string, n)
	for i := range ops {
		ops[i] = "BT /F1 12 Tf 72 700 Td (" + sentence + ") Tj ET"
	}
	return []byte("%PDF-1.4\n1 0 obj\n<< /Length 100 >>\nstream\n" +
		strings.Join(ops, "\n") + "\nendstream\nendobj\n%%EOF")
}

func seedBook(t *testing.T, uowFactory unitofwork.RepositoryFactory, book entity.Book) *entity.Book {
	t.Helper()
	if book.Id == uuid.Nil {
		book.Id = uuid.New()
	}
	if book.Status == "" {
		book.Status = constant.BookStatusExtracting
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}
	ctx := context.Background()
	require.NoError(t, uowFactory.NewUnitOfWork(ctx).BookRepository().Create(ctx, &book))
	return &book
}

func seedChunks(t *testing.T, uowFactory unitofwork.RepositoryFactory, bookId uuid.UUID, texts ...string) {
	t.Helper()
	rows := make([]*entity.BookChunk, len(texts))
	for i, text := range texts {
		rows[i] = &entity.BookChunk{
			Id:         uuid.New(),
			BookId:     bookId,
			ChunkIndex: i,
			Title:      fmt.Sprintf("Physics - Part %d", i+1),
			Text:       text,
			CreatedAt:  time.Now(),
		}
	}
	ctx := context.Background()
	require.NoError(t, uowFactory.NewUnitOfWork(ctx).BookChunkRepository().CreateBulk(ctx, rows))
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []dto.BookStatusMessage
}

func (f *fakeNotifier) SendBookStatus(_ uuid.UUID, status dto.BookStatusMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, status)
}

func (f *fakeNotifier) last() (dto.BookStatusMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return dto.BookStatusMessage{}, false
	}
	return f.messages[len(f.messages)-1], true
}

type fakeLLM struct {
	reply   string
	err     error
	history []llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.history = history
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

var errUnavailable = errors.New("provider unavailable")

func ptr[T any](v T) *T {
	return &v
}
