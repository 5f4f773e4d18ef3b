package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDBFromDSN opens a Postgres connection pool.
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return Open(DriverPostgres, dsn, logger.Warn)
}

// Open connects with the named driver. SQLite gets a single connection
// because the pure-Go driver serialises writers anyway and an in-memory
// database only lives as long as its connection.
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		maxOpen   int
	)
	switch driver {
	case DriverPostgres, "":
		if dsn == "" {
			return nil, fmt.Errorf("postgres DSN is empty")
		}
		dialector, maxOpen = postgres.Open(dsn), 100
	case DriverSQLite:
		if dsn == "" {
			dsn = "bookbodh.db"
		}
		dialector, maxOpen = sqlite.Open(dsn), 1
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: getLogger(level),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, maxOpen); err != nil {
		return nil, err
	}

	return db, nil
}

// NewInMemorySQLite returns a private database that lives as long as its
// single connection. Used by tests.
func NewInMemorySQLite() (*gorm.DB, error) {
	return Open(DriverSQLite, ":memory:", logger.Silent)
}
