package memory

import (
	"testing"
	"time"

	"bookbodh-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCache(t *testing.T) {
	c := NewChunkCache(time.Minute)
	bookId := uuid.New()

	_, ok := c.Get(bookId)
	assert.False(t, ok)

	c.Set(bookId, []*entity.BookChunk{{BookId: bookId, ChunkIndex: 0, Text: "hello"}})
	got, ok := c.Get(bookId)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text)

	c.Delete(bookId)
	_, ok = c.Get(bookId)
	assert.False(t, ok)
}

func TestChunkCache_Expiry(t *testing.T) {
	c := NewChunkCache(20 * time.Millisecond)
	bookId := uuid.New()
	c.Set(bookId, []*entity.BookChunk{})

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get(bookId)
	assert.False(t, ok)
}
