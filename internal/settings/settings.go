// Package settings exposes the admin-panel settings persisted as
// stringified values in the document store.
package settings

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/store"
)

// DefaultSearchLimit caps how many ranked results a search returns when
// the admin has not set a limit.
const DefaultSearchLimit = 25

type Settings struct {
	store  store.Store
	logger zerolog.Logger
}

func New(s store.Store, logger zerolog.Logger) *Settings {
	return &Settings{store: s, logger: logger}
}

// PublicStats reports whether the public statistics page is enabled.
func (s *Settings) PublicStats(ctx context.Context) bool {
	return s.getString(ctx, store.KeyPublicStats, "true") == "true"
}

func (s *Settings) SetPublicStats(ctx context.Context, enabled bool) error {
	return s.putString(ctx, store.KeyPublicStats, strconv.FormatBool(enabled))
}

// AutoBackup reports whether automatic backups are enabled.
func (s *Settings) AutoBackup(ctx context.Context) bool {
	return s.getString(ctx, store.KeyAutoBackup, "false") == "true"
}

func (s *Settings) SetAutoBackup(ctx context.Context, enabled bool) error {
	return s.putString(ctx, store.KeyAutoBackup, strconv.FormatBool(enabled))
}

// SearchLimit returns the configured result cap, falling back to the
// default on absent or unparseable values.
func (s *Settings) SearchLimit(ctx context.Context) int {
	value := s.getString(ctx, store.KeySearchLimit, "")
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return DefaultSearchLimit
	}
	return limit
}

func (s *Settings) SetSearchLimit(ctx context.Context, limit int) error {
	return s.putString(ctx, store.KeySearchLimit, strconv.Itoa(limit))
}

// LastBackup returns when the last backup was taken, empty if never.
func (s *Settings) LastBackup(ctx context.Context) string {
	return s.getString(ctx, store.KeyLastBackup, "")
}

func (s *Settings) SetLastBackup(ctx context.Context, at time.Time) error {
	return s.putString(ctx, store.KeyLastBackup, at.Format(time.RFC3339))
}

// All returns every setting with its effective value, for the debug
// export.
func (s *Settings) All(ctx context.Context) map[string]string {
	return map[string]string{
		store.KeyPublicStats: strconv.FormatBool(s.PublicStats(ctx)),
		store.KeyAutoBackup:  strconv.FormatBool(s.AutoBackup(ctx)),
		store.KeySearchLimit: strconv.Itoa(s.SearchLimit(ctx)),
		store.KeyLastBackup:  s.LastBackup(ctx),
	}
}

func (s *Settings) getString(ctx context.Context, key, fallback string) string {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return fallback
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("setting document is corrupt, using default")
		return fallback
	}
	return value
}

func (s *Settings) putString(ctx context.Context, key, value string) error {
	if err := s.store.Probe(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, key, raw)
}
