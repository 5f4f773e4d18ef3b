package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"bookbodh-be/internal/config"
	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/internal/repository/memory"
	"bookbodh-be/internal/repository/specification"
	"bookbodh-be/internal/repository/unitofwork"
	"bookbodh-be/pkg/events"
	"bookbodh-be/pkg/lock"
	"bookbodh-be/pkg/pipeline/chunk"
	"bookbodh-be/pkg/pipeline/extract"
	"bookbodh-be/pkg/pipeline/sink"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	ProcessBook(ctx context.Context, bookId uuid.UUID) error
}

// StatusNotifier pushes book status changes to connected clients.
type StatusNotifier interface {
	SendBookStatus(userId uuid.UUID, status dto.BookStatusMessage)
}

type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	extractor      extract.TextExtractor
	locker         lock.Locker
	chunkCache     *memory.ChunkCache
	eventPublisher events.Publisher
	notifier       StatusNotifier
	pipeline       config.PipelineConfig
	logger         logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	extractor extract.TextExtractor,
	locker lock.Locker,
	chunkCache *memory.ChunkCache,
	eventPublisher events.Publisher,
	notifier StatusNotifier,
	pipeline config.PipelineConfig,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      pipeline.ExtractTopic,
		uowFactory:     uowFactory,
		extractor:      extractor,
		locker:         locker,
		chunkCache:     chunkCache,
		eventPublisher: eventPublisher,
		notifier:       notifier,
		pipeline:       pipeline,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishExtractBookMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.BookId == uuid.Nil {
		cs.logger.Error("ExtractionConsumer", "Dropping malformed extraction job", map[string]interface{}{
			"message_id": msg.UUID,
			"payload":    string(msg.Payload),
		})
		msg.Ack()
		return
	}

	if err := cs.ProcessBook(ctx, payload.BookId); err != nil {
		cs.logger.Error("ExtractionConsumer", "Extraction job failed, will retry", map[string]interface{}{
			"book_id": payload.BookId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

// ProcessBook runs one extraction end to end. It returns an error only for
// failures worth retrying; everything else is recorded on the book.
func (cs *consumerService) ProcessBook(ctx context.Context, bookId uuid.UUID) error {
	unlock, ok, err := cs.locker.TryLock(ctx, constant.ProcessingLockPrefix+bookId.String(), cs.pipeline.LockTTL)
	if err != nil {
		cs.logger.Warn("ExtractionConsumer", "Processing lock unavailable, continuing without it", map[string]interface{}{
			"book_id": bookId,
			"error":   err.Error(),
		})
	} else if !ok {
		cs.logger.Info("ExtractionConsumer", "Book is already being processed, skipping", map[string]interface{}{"book_id": bookId})
		return nil
	} else {
		defer unlock()
	}

	book, err := cs.uowFactory.NewUnitOfWork(ctx).BookRepository().FindOne(ctx, specification.ByID{ID: bookId})
	if err != nil {
		return err
	}
	if book == nil {
		cs.logger.Warn("ExtractionConsumer", "Book no longer exists", map[string]interface{}{"book_id": bookId})
		return nil
	}

	data, err := os.ReadFile(book.FilePath)
	if err != nil {
		return cs.finish(ctx, book, constant.BookStatusError, fmt.Sprintf("could not read stored file: %v", err))
	}

	extraction := cs.extractor.Extract(data)
	cs.logger.Info("ExtractionConsumer", "Text extracted", map[string]interface{}{
		"book_id":        bookId,
		"pass":           extraction.Pass,
		"low_confidence": extraction.LowConfidence,
		"text_length":    utf8.RuneCountInString(extraction.Text),
	})

	chunks, err := chunk.ChunkText(extraction.Text, book.Title, cs.pipeline.ChunkWords)
	if err != nil {
		return cs.finish(ctx, book, constant.BookStatusError, err.Error())
	}

	if err := cs.replaceChunks(ctx, bookId); err != nil {
		return err
	}

	if len(chunks) == 0 {
		book.ChunksCount = 0
		book.ExtractionMeta = newExtractionMeta(extraction, sink.Report{})
		return cs.finish(ctx, book, constant.BookStatusNoChunks, "")
	}

	writer := sink.NewBatchWriter(cs.writeBatch(book),
		sink.WithBatchSize(cs.pipeline.SinkBatchSize),
		sink.WithConcurrency(cs.pipeline.SinkConcurrency),
		sink.WithRateLimit(cs.pipeline.SinkRatePerSecond, cs.pipeline.SinkConcurrency),
	)
	report, err := writer.Write(ctx, chunks)
	if err != nil {
		return err
	}

	status := resolveStatus(extraction, report)
	book.ChunksCount = report.Written
	book.Summary = summarize(extraction.Text)
	book.ExtractionMeta = newExtractionMeta(extraction, report)

	reason := ""
	if report.Failed > 0 && len(report.Errors) > 0 {
		reason = fmt.Sprintf("%d of %d chunks failed to save: %v", report.Failed, report.Total, report.Errors[0])
	}

	cs.logger.Info("ExtractionConsumer", "Chunks written", map[string]interface{}{
		"book_id": bookId,
		"total":   report.Total,
		"written": report.Written,
		"failed":  report.Failed,
		"status":  status,
	})

	return cs.finish(ctx, book, status, reason)
}

// replaceChunks drops the chunks of a previous run before new ones are
// written, so chunk indexes never collide.
func (cs *consumerService) replaceChunks(ctx context.Context, bookId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.BookChunkRepository().DeleteByBookId(ctx, bookId); err != nil {
		return err
	}
	return uow.Commit()
}

func (cs *consumerService) writeBatch(book *entity.Book) sink.BatchFunc {
	return func(ctx context.Context, batch []chunk.Chunk) error {
		now := time.Now()
		rows := make([]*entity.BookChunk, len(batch))
		for i, c := range batch {
			rows[i] = &entity.BookChunk{
				Id:         uuid.New(),
				BookId:     book.Id,
				ChunkIndex: c.Index,
				Title:      c.Title,
				Author:     book.Author,
				Text:       c.Text,
				Summary:    c.Summary,
				CreatedAt:  now,
			}
		}
		return cs.uowFactory.NewUnitOfWork(ctx).BookChunkRepository().CreateBulk(ctx, rows)
	}
}

func (cs *consumerService) finish(ctx context.Context, book *entity.Book, status, reason string) error {
	now := time.Now()
	book.Status = status
	book.ExtractionError = reason
	book.UpdatedAt = &now

	if err := cs.uowFactory.NewUnitOfWork(ctx).BookRepository().Update(ctx, book); err != nil {
		return err
	}
	cs.chunkCache.Delete(book.Id)

	eventType := constant.EventBookProcessed
	if status == constant.BookStatusFailed || status == constant.BookStatusError {
		eventType = constant.EventBookFailed
	}
	if cs.eventPublisher != nil {
		evt := events.NewEvent(eventType, map[string]interface{}{
			"book_id":      book.Id,
			"user_id":      book.UserId,
			"title":        book.Title,
			"status":       status,
			"chunks_count": book.ChunksCount,
		})
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ExtractionConsumer", "Failed to publish event", map[string]interface{}{
				"event":   eventType,
				"book_id": book.Id,
				"error":   err.Error(),
			})
		}
	}

	if cs.notifier != nil {
		cs.notifier.SendBookStatus(book.UserId, dto.BookStatusMessage{
			BookId:      book.Id,
			UserId:      book.UserId,
			Title:       book.Title,
			Status:      status,
			ChunksCount: book.ChunksCount,
			Error:       reason,
		})
	}

	if reason != "" {
		cs.logger.Warn("ExtractionConsumer", "Book finished with problems", map[string]interface{}{
			"book_id": book.Id,
			"status":  status,
			"reason":  reason,
		})
	}
	return nil
}

func resolveStatus(extraction extract.Extraction, report sink.Report) string {
	switch {
	case report.Total == 0:
		return constant.BookStatusNoChunks
	case report.AllFailed():
		return constant.BookStatusFailed
	case report.Failed > 0:
		return constant.BookStatusPartiallyProcessed
	case extraction.LowConfidence:
		return constant.BookStatusManualExtractRequired
	default:
		return constant.BookStatusProcessed
	}
}

func newExtractionMeta(extraction extract.Extraction, report sink.Report) *entity.ExtractionMeta {
	return &entity.ExtractionMeta{
		Pass:          string(extraction.Pass),
		LowConfidence: extraction.LowConfidence,
		TextLength:    utf8.RuneCountInString(extraction.Text),
		ChunksWritten: report.Written,
		ChunksFailed:  report.Failed,
		ProcessedAt:   time.Now().UTC(),
	}
}

// summarize keeps the first BookSummaryLength characters of the text.
func summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= constant.BookSummaryLength {
		return text
	}
	return string(runes[:constant.BookSummaryLength]) + "..."
}
