// Package search filters and ranks the corpus for a query term.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/sanitize"
)

// Filters are AND-combined with the term match; each is a no-op when
// unset.
type Filters struct {
	// Languages keeps an entry if its languages intersect this set.
	Languages []string
	// Pos keeps entries whose part of speech matches exactly.
	Pos string
	// Genre keeps entries whose genre matches exactly.
	Genre string
}

type Engine struct {
	repo     *corpus.Repository
	history  *History
	activity *activity.Log
	logger   zerolog.Logger
}

func NewEngine(repo *corpus.Repository, history *History, act *activity.Log, logger zerolog.Logger) *Engine {
	return &Engine{repo: repo, history: history, activity: act, logger: logger}
}

// Search returns the relevance-ranked entries matching term and filters.
// Ranking order: exact headword match, then headword prefix, then
// descending frequency; equal-frequency ties keep collection order.
//
// Searching is not read-only: every returned entry's frequency is bumped
// by one and persisted, and the normalized term is recorded in the
// recent-query history.
func (e *Engine) Search(ctx context.Context, rawTerm string, filters Filters) ([]model.Entry, error) {
	term := sanitize.Clean(strings.ToLower(strings.TrimSpace(rawTerm)))
	if term == "" {
		return nil, model.ErrTermRequired
	}

	entries := e.repo.LoadAll(ctx)

	var results []model.Entry
	for _, entry := range entries {
		if !matchesTerm(entry, term) {
			continue
		}
		if !matchesFilters(entry, filters) {
			continue
		}
		results = append(results, entry)
	}

	rank(results, term)

	ids := make([]int, len(results))
	for i := range results {
		ids[i] = results[i].ID
		results[i].Frequency++
	}
	if err := e.repo.IncrementFrequencies(ctx, ids); err != nil {
		e.logger.Error().Err(err).Str("term", term).Msg("failed to persist frequency updates")
	}

	e.history.Record(ctx, term)
	e.activity.Append(ctx, "Searched for: "+term)

	return results, nil
}

// History returns the recent search terms, newest first.
func (e *Engine) History(ctx context.Context) []string {
	return e.history.Terms(ctx)
}

// ClearHistory empties the recent-query list.
func (e *Engine) ClearHistory(ctx context.Context) error {
	return e.history.Clear(ctx)
}

func matchesTerm(entry model.Entry, term string) bool {
	if strings.Contains(strings.ToLower(entry.Word), term) ||
		strings.Contains(strings.ToLower(entry.Translation), term) ||
		strings.Contains(strings.ToLower(entry.CulturalContext), term) {
		return true
	}
	for _, ex := range entry.Examples {
		if strings.Contains(strings.ToLower(ex.SourceText), term) ||
			strings.Contains(strings.ToLower(ex.TargetText), term) {
			return true
		}
	}
	return false
}

func matchesFilters(entry model.Entry, filters Filters) bool {
	if len(filters.Languages) > 0 && !languagesIntersect(entry.Languages, filters.Languages) {
		return false
	}
	if filters.Pos != "" && entry.Pos != filters.Pos {
		return false
	}
	if filters.Genre != "" && entry.Genre != filters.Genre {
		return false
	}
	return true
}

func languagesIntersect(entryLangs, wanted []string) bool {
	for _, want := range wanted {
		for _, have := range entryLangs {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// rank orders results in place. The sort must be stable so that
// equal-frequency entries keep their relative collection order.
func rank(results []model.Entry, term string) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		aExact := strings.ToLower(a.Word) == term
		bExact := strings.ToLower(b.Word) == term
		if aExact != bExact {
			return aExact
		}

		aPrefix := strings.HasPrefix(strings.ToLower(a.Word), term)
		bPrefix := strings.HasPrefix(strings.ToLower(b.Word), term)
		if aPrefix != bPrefix {
			return aPrefix
		}

		return a.Frequency > b.Frequency
	})
}
