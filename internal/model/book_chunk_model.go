package model

import (
	"time"

	"github.com/google/uuid"
)

// BookChunk rows are hard deleted together with their book.
type BookChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_book_chunks_book_index"`
	ChunkIndex int       `gorm:"not null;uniqueIndex:idx_book_chunks_book_index"`
	Title      string    `gorm:"type:varchar(300)"`
	Author     string    `gorm:"type:varchar(255)"`
	Text       string    `gorm:"type:text;not null"`
	Summary    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (BookChunk) TableName() string {
	return "book_chunks"
}
