package service

import (
	"context"
	"os"
	"time"

	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}

// BusStatus reports whether the event bus connection is up.
type BusStatus interface {
	Connected() bool
}

type healthService struct {
	db        *gorm.DB
	rdb       *redis.Client
	bus       BusStatus
	uploadDir string
}

// NewHealthService accepts nil rdb and bus when those are not configured.
func NewHealthService(db *gorm.DB, rdb *redis.Client, bus BusStatus, uploadDir string) IHealthService {
	return &healthService{
		db:        db,
		rdb:       rdb,
		bus:       bus,
		uploadDir: uploadDir,
	}
}

func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	checks := map[string]bool{
		"database": s.pingDB(ctx),
		"uploads":  dirExists(s.uploadDir),
	}
	if s.rdb != nil {
		checks["redis"] = s.rdb.Ping(ctx).Err() == nil
	}
	if s.bus != nil {
		checks["nats"] = s.bus.Connected()
	}

	res := &dto.HealthResponse{
		Status:    "healthy",
		Message:   "BookBodh API is running normally",
		Version:   constant.AppVersion,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if !checks["database"] {
		res.Status = "unhealthy"
		res.Message = "Database is unreachable"
	}
	return res
}

func (s *healthService) pingDB(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
