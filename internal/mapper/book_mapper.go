package mapper

import (
	"encoding/json"
	"time"

	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}

	var deletedAt *time.Time
	if b.DeletedAt.Valid {
		t := b.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	// Unreadable metadata is dropped rather than failing the whole read.
	var meta *entity.ExtractionMeta
	if len(b.ExtractionMeta) > 0 {
		var decoded entity.ExtractionMeta
		if err := json.Unmarshal(b.ExtractionMeta, &decoded); err == nil {
			meta = &decoded
		}
	}

	return &entity.Book{
		Id:              b.Id,
		UserId:          b.UserId,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		FilePath:        b.FilePath,
		FileSize:        b.FileSize,
		PageCount:       b.PageCount,
		Status:          b.Status,
		ChunksCount:     b.ChunksCount,
		Summary:         b.Summary,
		ExtractionError: b.ExtractionError,
		ExtractionMeta:  meta,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       b.DeletedAt.Valid,
	}
}

func (m *BookMapper) ToModel(b *entity.Book) *model.Book {
	if b == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if b.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *b.DeletedAt, Valid: true}
	} else if b.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	var meta datatypes.JSON
	if b.ExtractionMeta != nil {
		if raw, err := json.Marshal(b.ExtractionMeta); err == nil {
			meta = datatypes.JSON(raw)
		}
	}

	return &model.Book{
		Id:              b.Id,
		UserId:          b.UserId,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		FilePath:        b.FilePath,
		FileSize:        b.FileSize,
		PageCount:       b.PageCount,
		Status:          b.Status,
		ChunksCount:     b.ChunksCount,
		Summary:         b.Summary,
		ExtractionError: b.ExtractionError,
		ExtractionMeta:  meta,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
