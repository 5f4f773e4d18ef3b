package mapper

import (
	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/model"
	"bookbodh-be/pkg/pipeline/retrieval"
)

type BookChunkMapper struct{}

func NewBookChunkMapper() *BookChunkMapper {
	return &BookChunkMapper{}
}

func (m *BookChunkMapper) ToEntity(c *model.BookChunk) *entity.BookChunk {
	if c == nil {
		return nil
	}
	return &entity.BookChunk{
		Id:         c.Id,
		BookId:     c.BookId,
		ChunkIndex: c.ChunkIndex,
		Title:      c.Title,
		Author:     c.Author,
		Text:       c.Text,
		Summary:    c.Summary,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *BookChunkMapper) ToModel(c *entity.BookChunk) *model.BookChunk {
	if c == nil {
		return nil
	}
	return &model.BookChunk{
		Id:         c.Id,
		BookId:     c.BookId,
		ChunkIndex: c.ChunkIndex,
		Title:      c.Title,
		Author:     c.Author,
		Text:       c.Text,
		Summary:    c.Summary,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *BookChunkMapper) ToEntities(chunks []*model.BookChunk) []*entity.BookChunk {
	entities := make([]*entity.BookChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *BookChunkMapper) ToModels(chunks []*entity.BookChunk) []*model.BookChunk {
	models := make([]*model.BookChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}

// ToSources converts stored chunks into the scorer's input shape.
func (m *BookChunkMapper) ToSources(chunks []*entity.BookChunk) []retrieval.Source {
	sources := make([]retrieval.Source, len(chunks))
	for i, c := range chunks {
		sources[i] = retrieval.Source{
			Title:   c.Title,
			Author:  c.Author,
			Text:    c.Text,
			Summary: c.Summary,
		}
	}
	return sources
}
