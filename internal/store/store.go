package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"andon-console/internal/model"
)

// Namespace is the storage namespace the console writes its keys under.
const Namespace = "NVSMem"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is the flat, string-keyed persistence layer.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites key and commits before returning.
	Set(ctx context.Context, key, value string) error
	// SeedIfMissing writes value only when key has never been written.
	SeedIfMissing(ctx context.Context, key, value string) error
}

// Store is the KV plus access to the underlying database for the
// subscription handlers and the notification workers.
type Store interface {
	KV
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db        *gorm.DB
	namespace string
}

// NewGormStore creates a new GORM-backed store in the default namespace.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, namespace: Namespace}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Get reads a single key.
func (s *gormStore) Get(ctx context.Context, key string) (string, error) {
	var entry model.NVSEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", s.namespace, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return entry.Value, nil
}

// Set upserts a key inside its own transaction so a reader never observes a
// partially written value.
func (s *gormStore) Set(ctx context.Context, key, value string) error {
	entry := model.NVSEntry{
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// SeedIfMissing inserts value unless the key already exists.
func (s *gormStore) SeedIfMissing(ctx context.Context, key, value string) error {
	entry := model.NVSEntry{
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("failed to seed key %q: %w", key, err)
	}
	return nil
}
