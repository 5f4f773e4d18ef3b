package contract

import (
	"context"

	"bookbodh-be/internal/entity"
	"bookbodh-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.BookChunk) error
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
