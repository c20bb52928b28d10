// Package corpus owns the persisted entry collection: one JSON document
// holding every entry, newest first.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/sanitize"
	"github.com/ulimi/corpus-api/internal/store"
)

// Trimmer is a housekeeping hook run by Cleanup. The search history
// registers itself here so the repository stays decoupled from it.
type Trimmer interface {
	Trim(ctx context.Context) error
}

type Repository struct {
	store    store.Store
	activity *activity.Log
	logger   zerolog.Logger
	trimmers []Trimmer
}

func New(s store.Store, act *activity.Log, logger zerolog.Logger) *Repository {
	return &Repository{store: s, activity: act, logger: logger}
}

// RegisterTrimmer adds a housekeeping hook run on every Cleanup.
func (r *Repository) RegisterTrimmer(t Trimmer) {
	r.trimmers = append(r.trimmers, t)
}

// Available reports whether the backing store passes its probe.
func (r *Repository) Available(ctx context.Context) bool {
	return r.store.Probe(ctx) == nil
}

// SeedIfEmpty writes the built-in starter collection if, and only if, no
// corpus document exists yet. An existing document is never overwritten,
// even an empty array.
func (r *Repository) SeedIfEmpty(ctx context.Context) error {
	if err := r.store.Probe(ctx); err != nil {
		return nil
	}

	if _, err := r.store.Get(ctx, store.KeyCorpusData); err == nil {
		return nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return err
	}

	if err := r.persist(ctx, StarterEntries()); err != nil {
		return err
	}
	r.logger.Info().Int("entries", len(StarterEntries())).Msg("seeded starter corpus")
	return nil
}

// LoadAll returns every entry, newest first. It seeds lazily on first read
// and fails soft: a missing store or a corrupt document yields an empty
// collection, never an error.
func (r *Repository) LoadAll(ctx context.Context) []model.Entry {
	if err := r.store.Probe(ctx); err != nil {
		return []model.Entry{}
	}

	if err := r.SeedIfEmpty(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("seed failed")
	}

	raw, err := r.store.Get(ctx, store.KeyCorpusData)
	if err != nil {
		return []model.Entry{}
	}

	var entries []model.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.logger.Error().Err(err).Msg("corpus document is corrupt, treating as empty")
		return []model.Entry{}
	}
	return entries
}

// Save validates, sanitizes and stores a new entry, assigning the next id
// and a starting frequency of 1 regardless of what the caller supplied.
// The stored entry is prepended to the collection.
func (r *Repository) Save(ctx context.Context, candidate model.Entry) (model.Entry, error) {
	if errs := sanitize.ValidateEntry(candidate); len(errs) > 0 {
		return model.Entry{}, &model.ValidationError{Messages: errs}
	}

	if err := r.store.Probe(ctx); err != nil {
		return model.Entry{}, model.ErrStorageUnavailable
	}

	entries := r.LoadAll(ctx)

	maxID := 0
	for _, e := range entries {
		if e.ID > maxID {
			maxID = e.ID
		}
	}

	candidate.ID = maxID + 1
	candidate.Frequency = 1
	candidate.Word = sanitize.Clean(candidate.Word)
	candidate.Translation = sanitize.Clean(candidate.Translation)
	candidate.CulturalContext = sanitize.Clean(candidate.CulturalContext)
	candidate.CreatedAt = time.Now()

	entries = append([]model.Entry{candidate}, entries...)
	if err := r.persist(ctx, entries); err != nil {
		return model.Entry{}, err
	}

	r.activity.Append(ctx, "Added entry: "+candidate.Word)
	if err := r.Cleanup(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("housekeeping failed")
	}

	return candidate, nil
}

// IncrementFrequencies bumps the frequency of every entry whose id is in
// ids by exactly one and persists the collection once.
func (r *Repository) IncrementFrequencies(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.store.Probe(ctx); err != nil {
		return nil
	}

	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	entries := r.LoadAll(ctx)
	touched := false
	for i := range entries {
		if _, ok := wanted[entries[i].ID]; ok {
			entries[i].Frequency++
			touched = true
		}
	}
	if !touched {
		return nil
	}
	return r.persist(ctx, entries)
}

// Cleanup re-applies the bounded-list caps: the activity log's and any
// registered trimmer's (search history).
func (r *Repository) Cleanup(ctx context.Context) error {
	if err := r.activity.Trim(ctx); err != nil {
		return err
	}
	for _, t := range r.trimmers {
		if err := t.Trim(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) persist(ctx context.Context, entries []model.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.KeyCorpusData, raw)
}
