package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Book struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title           string         `gorm:"type:varchar(255);not null;index"`
	Author          string         `gorm:"type:varchar(255)"`
	Category        string         `gorm:"type:varchar(100)"`
	FilePath        string         `gorm:"type:text"`
	FileSize        int64          `gorm:"default:0"`
	PageCount       int            `gorm:"default:0"`
	Status          string         `gorm:"type:varchar(32);not null;index"`
	ChunksCount     int            `gorm:"default:0"`
	Summary         string         `gorm:"type:text"`
	ExtractionError string         `gorm:"type:text"`
	ExtractionMeta  datatypes.JSON `gorm:"type:json"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Book) TableName() string {
	return "books"
}
