package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByBookID struct {
	BookID uuid.UUID
}

func (s ByBookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("book_id = ?", s.BookID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// BookSearchQuery matches title or author, case-insensitive. LOWER + LIKE
// keeps it portable between Postgres and SQLite.
type BookSearchQuery struct {
	Query string
}

func (s BookSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(strings.TrimSpace(s.Query)) + "%"
	return db.Where("(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)", pattern, pattern)
}

// ByBookTitle matches a title exactly, ignoring case.
type ByBookTitle struct {
	Title string
}

func (s ByBookTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(s.Title)))
}
