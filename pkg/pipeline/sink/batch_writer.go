// Package sink persists chunks in small batches without flooding the store.
package sink

import (
	"context"
	"fmt"
	"sync"

	"bookbodh-be/pkg/pipeline/chunk"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultBatchSize   = 20
	DefaultConcurrency = 4
)

// ChunkSink receives the chunks of one document.
type ChunkSink interface {
	Write(ctx context.Context, chunks []chunk.Chunk) (Report, error)
}

// BatchFunc stores one batch. It is called concurrently.
type BatchFunc func(ctx context.Context, batch []chunk.Chunk) error

// Report counts chunks, not batches, so callers can compare against the
// chunk total directly.
type Report struct {
	Total         int
	Written       int
	Failed        int
	FailedBatches int
	Errors        []error
}

// AllFailed reports whether nothing was written out of a non-empty input.
func (r Report) AllFailed() bool {
	return r.Total > 0 && r.Written == 0
}

type Option func(*BatchWriter)

func WithBatchSize(n int) Option {
	return func(w *BatchWriter) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(w *BatchWriter) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithRateLimit caps batch starts per second. Zero or less disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(w *BatchWriter) {
		if perSecond <= 0 {
			w.limiter = nil
			return
		}
		w.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// BatchWriter splits chunks into batches and hands them to a BatchFunc with
// bounded concurrency. A failed batch is recorded and the rest continue.
type BatchWriter struct {
	write       BatchFunc
	batchSize   int
	concurrency int
	limiter     *rate.Limiter
}

var _ ChunkSink = (*BatchWriter)(nil)

func NewBatchWriter(write BatchFunc, opts ...Option) *BatchWriter {
	w := &BatchWriter{
		write:       write,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write returns a non-nil error only when ctx ended and some chunks were not
// written. Batch failures are reported in the Report.
func (w *BatchWriter) Write(ctx context.Context, chunks []chunk.Chunk) (Report, error) {
	report := Report{Total: len(chunks)}
	if len(chunks) == 0 {
		return report, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for start := 0; start < len(chunks); start += w.batchSize {
		batch := chunks[start:min(start+w.batchSize, len(chunks))]

		if w.limiter != nil {
			if err := w.limiter.Wait(gctx); err != nil {
				w.markFailed(&mu, &report, err)
				break
			}
		}
		if gctx.Err() != nil {
			w.markFailed(&mu, &report, gctx.Err())
			break
		}

		g.Go(func() error {
			if err := w.write(gctx, batch); err != nil {
				w.markFailed(&mu, &report, fmt.Errorf("batch at index %d: %w", batch[0].Index, err))
				return nil
			}
			mu.Lock()
			report.Written += len(batch)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	report.Failed = report.Total - report.Written
	if err := ctx.Err(); err != nil && report.Failed > 0 {
		return report, err
	}
	return report, nil
}

func (w *BatchWriter) markFailed(mu *sync.Mutex, report *Report, err error) {
	mu.Lock()
	defer mu.Unlock()
	report.FailedBatches++
	report.Errors = append(report.Errors, err)
}
