package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookChunk struct {
	Id         uuid.UUID
	BookId     uuid.UUID
	ChunkIndex int
	Title      string
	Author     string
	Text       string
	Summary    string
	CreatedAt  time.Time
}
