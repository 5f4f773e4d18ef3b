package entity

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Title           string
	Author          string
	Category        string
	FilePath        string
	FileSize        int64
	PageCount       int
	Status          string
	ChunksCount     int
	Summary         string
	ExtractionError string
	ExtractionMeta  *ExtractionMeta
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}

// ExtractionMeta records how the last extraction went.
type ExtractionMeta struct {
	Pass          string    `json:"pass"`
	LowConfidence bool      `json:"low_confidence"`
	TextLength    int       `json:"text_length"`
	ChunksWritten int       `json:"chunks_written"`
	ChunksFailed  int       `json:"chunks_failed"`
	ProcessedAt   time.Time `json:"processed_at"`
}
