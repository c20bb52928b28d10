package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ulimi/corpus-api/internal/config"
	"github.com/ulimi/corpus-api/internal/model"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Document is one persisted key/value row.
type Document struct {
	Key           string         `gorm:"primaryKey;size:128" json:"key"`
	SchemaVersion int            `gorm:"not null;default:1" json:"schemaVersion"`
	Value         datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}

// DB is the gorm-backed document store.
type DB struct {
	db *gorm.DB
}

// Connect opens the database, retrying with exponential backoff so the
// service survives the database coming up after it does.
func Connect(cfg *config.Config) (*DB, error) {
	var db *gorm.DB

	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// Migrate creates the documents table.
func (s *DB) Migrate() error {
	return s.db.AutoMigrate(&Document{})
}

func (s *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var doc Document
	result := s.db.WithContext(ctx).First(&doc, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return []byte(doc.Value), nil
}

func (s *DB) Put(ctx context.Context, key string, value []byte) error {
	doc := Document{
		Key:           key,
		SchemaVersion: SchemaVersion,
		Value:         datatypes.JSON(value),
		UpdatedAt:     time.Now(),
	}
	return s.db.WithContext(ctx).Save(&doc).Error
}

func (s *DB) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Document{}, "key = ?", key).Error
}

func (s *DB) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	result := s.db.WithContext(ctx).Model(&Document{}).
		Where("key LIKE ?", escapeLike(prefix)+"%").
		Order("key ASC").
		Pluck("key", &keys)
	return keys, result.Error
}

// escapeLike neutralizes LIKE metacharacters so a prefix such as
// "corpusUser_" matches the underscore literally.
var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace

func (s *DB) Probe(ctx context.Context) error {
	probe := Document{
		Key:           "_probe",
		SchemaVersion: SchemaVersion,
		Value:         datatypes.JSON(`"ok"`),
		UpdatedAt:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Save(&probe).Error; err != nil {
		return model.ErrStorageUnavailable
	}
	if err := s.db.WithContext(ctx).Delete(&Document{}, "key = ?", "_probe").Error; err != nil {
		return model.ErrStorageUnavailable
	}
	return nil
}
