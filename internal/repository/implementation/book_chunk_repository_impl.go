package implementation

import (
	"context"

	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/mapper"
	"bookbodh-be/internal/model"
	"bookbodh-be/internal/repository/contract"
	"bookbodh-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookChunkMapper
}

func NewBookChunkRepository(db *gorm.DB) contract.BookChunkRepository {
	return &BookChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookChunkMapper(),
	}
}

func (r *BookChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.BookChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *BookChunkRepositoryImpl) DeleteByBookId(ctx context.Context, bookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookId).Delete(&model.BookChunk{}).Error
}

func (r *BookChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error) {
	var models []*model.BookChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.BookChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
