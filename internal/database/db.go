// Package database stores user feedback with gorm. sqlite3 is the default
// dialect; postgres is available for shared deployments.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/mattn/go-sqlite3"              // SQLite driver

	"rasaroots/internal/models"
)

// Store wraps the gorm connection.
type Store struct {
	db *gorm.DB
}

// Open connects to driver/dsn and migrates the feedback table.
func Open(driver, dsn string) (*Store, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// A single connection keeps ":memory:" databases coherent and
		// serialises writers.
		db.DB().SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&models.Feedback{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.DB().PingContext(ctx)
}

// CreateFeedback assigns an id and timestamp and stores f.
func (s *Store) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.ID = 0
	f.DateAdded = time.Now().UTC()
	if err := s.db.Create(f).Error; err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListFeedback returns a user's feedback, oldest first. Never nil.
func (s *Store) ListFeedback(ctx context.Context, userID string) ([]models.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Feedback, 0)
	if err := s.db.Where("user_id = ?", userID).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}
