package dto

import (
	"time"

	"bookbodh-be/internal/entity"

	"github.com/google/uuid"
)

type UploadBookRequest struct {
	Title    string `json:"title" form:"title" validate:"required,max=255"`
	Author   string `json:"author" form:"author" validate:"max=255"`
	Category string `json:"category" form:"category" validate:"max=100"`
}

type UploadBookResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type BookResponse struct {
	Id              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	Author          string                 `json:"author"`
	Category        string                 `json:"category"`
	Status          string                 `json:"status"`
	FileSize        int64                  `json:"file_size"`
	PageCount       int                    `json:"page_count"`
	ChunksCount     int                    `json:"chunks_count"`
	Summary         string                 `json:"summary"`
	ExtractionError string                 `json:"extraction_error,omitempty"`
	ExtractionMeta  *entity.ExtractionMeta `json:"extraction_meta,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       *time.Time             `json:"updated_at"`
}

type BookChunkResponse struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

type GetChunksResponse struct {
	BookId uuid.UUID            `json:"book_id"`
	Total  int64                `json:"total"`
	Chunks []*BookChunkResponse `json:"chunks"`
}

type ReextractResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// PublishExtractBookMessage is the payload of an extraction job.
type PublishExtractBookMessage struct {
	BookId uuid.UUID `json:"book_id"`
}

// BookStatusMessage is pushed to websocket clients and published on the bus.
type BookStatusMessage struct {
	BookId      uuid.UUID `json:"book_id"`
	UserId      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	ChunksCount int       `json:"chunks_count"`
	Error       string    `json:"error,omitempty"`
}
