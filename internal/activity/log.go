// Package activity maintains the bounded, append-only log of
// human-readable action records.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/store"
)

// MaxRecords is the authoritative cap on the activity log. The store keeps
// only the most recent records; eviction is oldest-first at write time and
// housekeeping re-applies the same bound.
const MaxRecords = 50

type Log struct {
	store  store.Store
	logger zerolog.Logger
}

func New(s store.Store, logger zerolog.Logger) *Log {
	return &Log{store: s, logger: logger}
}

// Append records an action. Logging is best-effort: a failing store never
// fails the mutating operation that produced the record.
func (l *Log) Append(ctx context.Context, action string) {
	if err := l.store.Probe(ctx); err != nil {
		l.logger.Warn().Str("action", action).Msg("activity log skipped: storage unavailable")
		return
	}

	records := l.load(ctx)
	records = append([]model.ActivityRecord{{Action: action, Timestamp: time.Now()}}, records...)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	if err := l.persist(ctx, records); err != nil {
		l.logger.Error().Err(err).Str("action", action).Msg("failed to persist activity record")
	}
}

// Recent returns the stored records, newest first.
func (l *Log) Recent(ctx context.Context) []model.ActivityRecord {
	return l.load(ctx)
}

// Trim re-applies the record cap. Normally a no-op since Append already
// bounds the list, but it repairs documents written before the cap was
// unified.
func (l *Log) Trim(ctx context.Context) error {
	records := l.load(ctx)
	if len(records) <= MaxRecords {
		return nil
	}
	return l.persist(ctx, records[:MaxRecords])
}

func (l *Log) load(ctx context.Context) []model.ActivityRecord {
	raw, err := l.store.Get(ctx, store.KeyActivityLogs)
	if err != nil {
		return nil
	}
	var records []model.ActivityRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		l.logger.Warn().Err(err).Msg("activity log document is corrupt, treating as empty")
		return nil
	}
	return records
}

func (l *Log) persist(ctx context.Context, records []model.ActivityRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return l.store.Put(ctx, store.KeyActivityLogs, raw)
}
