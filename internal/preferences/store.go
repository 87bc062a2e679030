// Package preferences keeps one preference document per user in badger.
package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"rasaroots/internal/models"
)

const keyPrefix = "prefs:"

// ErrNotFound is returned by Load when a user has no stored document.
var ErrNotFound = errors.New("preferences not found")

// Store is a badger-backed preference store.
type Store struct {
	db *badger.DB
}

// Open opens a store at path. An empty path keeps everything in memory.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(userID string) []byte {
	return []byte(keyPrefix + userID)
}

// Load returns the stored document or ErrNotFound.
func (s *Store) Load(ctx context.Context, userID string) (models.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return models.Preferences{}, err
	}
	var p models.Preferences
	err := s.db.View(func(txn *badger.Txn) error {
		return get(ctx, txn, userID, &p)
	})
	return p, err
}

// Get returns the stored document, or the defaults when there is none.
func (s *Store) Get(ctx context.Context, userID string) (models.Preferences, error) {
	p, err := s.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return models.DefaultPreferences(), nil
	}
	return p, err
}

// Patch holds the fields of a partial update. Nil fields are left alone.
type Patch struct {
	PreferredTags       []models.Tag
	FamilySize          *int
	RegionalPreferences []string
}

// Merge applies patch on top of the stored document (or the defaults) in a
// single transaction and returns the result. A context that ends inside
// the transaction aborts it before commit.
func (s *Store) Merge(ctx context.Context, userID string, patch Patch) (models.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return models.Preferences{}, err
	}
	var merged models.Preferences
	err := s.db.Update(func(txn *badger.Txn) error {
		current := models.DefaultPreferences()
		if err := get(ctx, txn, userID, &current); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if patch.PreferredTags != nil {
			current.PreferredTags = models.NewTagSet(patch.PreferredTags...)
		}
		if patch.FamilySize != nil {
			current.FamilySize = *patch.FamilySize
		}
		if patch.RegionalPreferences != nil {
			current.RegionalPreferences = patch.RegionalPreferences
		}
		merged = current
		return put(ctx, txn, userID, current)
	})
	return merged, err
}

func get(ctx context.Context, txn *badger.Txn, userID string, p *models.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item, err := txn.Get(key(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get preferences: %w", err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, p)
	})
}

func put(ctx context.Context, txn *badger.Txn, userID string, p models.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return txn.Set(key(userID), data)
}
