package search

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/store"
)

// MaxHistoryTerms is the authoritative cap on the recent-query list.
const MaxHistoryTerms = 10

// History is the bounded, de-duplicated list of recent search terms,
// newest first. Recording a term that is already present moves it to the
// front instead of duplicating it.
type History struct {
	store  store.Store
	logger zerolog.Logger
}

func NewHistory(s store.Store, logger zerolog.Logger) *History {
	return &History{store: s, logger: logger}
}

// Record stores a normalized term. Best-effort: a failing store never
// fails the search that produced the term.
func (h *History) Record(ctx context.Context, term string) {
	if term == "" {
		return
	}
	if err := h.store.Probe(ctx); err != nil {
		return
	}

	terms := h.load(ctx)
	deduped := make([]string, 0, len(terms)+1)
	deduped = append(deduped, term)
	for _, t := range terms {
		if t != term {
			deduped = append(deduped, t)
		}
	}
	if len(deduped) > MaxHistoryTerms {
		deduped = deduped[:MaxHistoryTerms]
	}

	if err := h.persist(ctx, deduped); err != nil {
		h.logger.Error().Err(err).Str("term", term).Msg("failed to persist search history")
	}
}

// Terms returns the recent terms, newest first.
func (h *History) Terms(ctx context.Context) []string {
	return h.load(ctx)
}

// Clear removes the whole history.
func (h *History) Clear(ctx context.Context) error {
	return h.store.Delete(ctx, store.KeySearchHistory)
}

// Trim re-applies the term cap; registered with the repository's
// housekeeping.
func (h *History) Trim(ctx context.Context) error {
	terms := h.load(ctx)
	if len(terms) <= MaxHistoryTerms {
		return nil
	}
	return h.persist(ctx, terms[:MaxHistoryTerms])
}

func (h *History) load(ctx context.Context) []string {
	raw, err := h.store.Get(ctx, store.KeySearchHistory)
	if err != nil {
		return nil
	}
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		h.logger.Warn().Err(err).Msg("search history document is corrupt, treating as empty")
		return nil
	}
	return terms
}

func (h *History) persist(ctx context.Context, terms []string) error {
	raw, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	return h.store.Put(ctx, store.KeySearchHistory, raw)
}
