package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectTimeout = 1 * time.Minute
	retryInterval  = 5 * time.Second
)

// New creates a new database connection and migrates the key-value table.
func New(cfg *config.Config) (*gorm.DB, error) {
	return connectToDatabaseWithRetry(cfg.EnvVars.DatabaseUrl)
}

// Open opens a database without retrying. It is used by tests and by
// sqlite files, where a failure will not resolve itself.
func Open(databaseURL string) (*gorm.DB, error) {
	database, err := gorm.Open(dialector(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(database); err != nil {
		return nil, err
	}
	return database, nil
}

// Migrate creates or updates the tables the application needs.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// IsSQLite reports whether databaseURL names a sqlite database rather than a
// postgres connection string.
func IsSQLite(databaseURL string) bool {
	return databaseURL == ":memory:" ||
		strings.HasPrefix(databaseURL, "file:") ||
		strings.HasSuffix(databaseURL, ".db") ||
		strings.HasSuffix(databaseURL, ".sqlite")
}

func dialector(databaseURL string) gorm.Dialector {
	if IsSQLite(databaseURL) {
		return sqlite.Open(databaseURL)
	}
	return postgres.Open(databaseURL)
}

// connectToDatabaseWithRetry connects to the database and retries if necessary.
func connectToDatabaseWithRetry(databaseURL string) (*gorm.DB, error) {
	if IsSQLite(databaseURL) {
		logger.Get().Info("opening sqlite database", zap.String("path", databaseURL))
		return Open(databaseURL)
	}

	logger.Get().Info("connecting to database")
	var database *gorm.DB
	var err error

	start := time.Now()
	for {
		database, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Since(start) > connectTimeout {
			return nil, fmt.Errorf("could not connect to database after %s: %w", connectTimeout, err)
		}
		logger.Get().Warn("could not connect to database, retrying...", zap.Error(err))
		time.Sleep(retryInterval)
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}
	return database, nil
}
