package memory

import (
	"time"

	"bookbodh-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ChunkCache keeps the chunks of recently read books so chat requests do not
// hit the database every turn.
type ChunkCache struct {
	cache *cache.Cache
}

func NewChunkCache(ttl time.Duration) *ChunkCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ChunkCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *ChunkCache) Get(bookId uuid.UUID) ([]*entity.BookChunk, bool) {
	if x, found := r.cache.Get(bookId.String()); found {
		return x.([]*entity.BookChunk), true
	}
	return nil, false
}

func (r *ChunkCache) Set(bookId uuid.UUID, chunks []*entity.BookChunk) {
	r.cache.Set(bookId.String(), chunks, cache.DefaultExpiration)
}

func (r *ChunkCache) Delete(bookId uuid.UUID) {
	r.cache.Delete(bookId.String())
}
