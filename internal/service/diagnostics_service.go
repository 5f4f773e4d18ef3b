package service

import (
	"context"
	"unicode/utf8"

	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/pkg/pipeline/chunk"
	"bookbodh-be/pkg/pipeline/extract"
	"bookbodh-be/pkg/pipeline/textclean"
)

const (
	diagnosticsPreviewLength = 1000
	diagnosticsChunkSample   = 3
)

type IDiagnosticsService interface {
	GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error)
	GetLogById(ctx context.Context, id string) (*logger.LogEntry, error)
	DryRunExtract(ctx context.Context, fileName string, data []byte, targetWords int) (*dto.ExtractDiagnosticsResponse, error)
}

type diagnosticsService struct {
	logger       logger.ILogger
	extractor    extract.TextExtractor
	defaultWords int
}

func NewDiagnosticsService(log logger.ILogger, extractor extract.TextExtractor, defaultWords int) IDiagnosticsService {
	return &diagnosticsService{
		logger:       log,
		extractor:    extractor,
		defaultWords: defaultWords,
	}
}

func (s *diagnosticsService) GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.logger.GetLogs(level, limit, offset)
}

func (s *diagnosticsService) GetLogById(ctx context.Context, id string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(id)
}

// DryRunExtract runs extraction and chunking on an upload without storing
// anything.
func (s *diagnosticsService) DryRunExtract(ctx context.Context, fileName string, data []byte, targetWords int) (*dto.ExtractDiagnosticsResponse, error) {
	if err := extract.Validate(data); err != nil {
		return nil, err
	}
	if targetWords == 0 {
		targetWords = s.defaultWords
	}

	res := &dto.ExtractDiagnosticsResponse{
		FileName: fileName,
		FileSize: len(data),
	}
	if info, err := extract.Inspect(data); err != nil {
		res.InspectError = err.Error()
	} else {
		res.PageCount = info.PageCount
	}

	extraction := s.extractor.Extract(data)
	chunks, err := chunk.ChunkText(extraction.Text, fileName, targetWords)
	if err != nil {
		return nil, err
	}

	res.Pass = string(extraction.Pass)
	res.LowConfidence = extraction.LowConfidence
	res.TextLength = utf8.RuneCountInString(extraction.Text)
	res.WordCount = len(textclean.Words(extraction.Text))
	res.ChunkCount = len(chunks)
	res.Preview = textclean.Truncate(extraction.Text, diagnosticsPreviewLength)
	res.Chunks = make([]*dto.BookChunkResponse, 0, diagnosticsChunkSample)
	for _, c := range chunks[:min(diagnosticsChunkSample, len(chunks))] {
		res.Chunks = append(res.Chunks, &dto.BookChunkResponse{
			Index:   c.Index,
			Title:   c.Title,
			Text:    textclean.Truncate(c.Text, diagnosticsPreviewLength),
			Summary: c.Summary,
		})
	}

	s.logger.Info("DiagnosticsService", "Dry-run extraction", map[string]interface{}{
		"file_name":      fileName,
		"pass":           res.Pass,
		"low_confidence": res.LowConfidence,
		"chunks":         res.ChunkCount,
	})
	return res, nil
}
