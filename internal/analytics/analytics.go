// Package analytics derives simple statistics from the corpus and the
// activity log.
package analytics

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/model"
)

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type CorpusStats struct {
	TotalEntries     int            `json:"totalEntries"`
	EntriesByGenre   map[string]int `json:"entriesByGenre"`
	AvgFrequency     float64        `json:"avgFrequency"`
	MaxFrequency     int            `json:"maxFrequency"`
	TotalWords       int            `json:"totalWords"`
	UniqueWords      int            `json:"uniqueWords"`
	AvgWordsPerEntry float64        `json:"avgWordsPerEntry"`
}

type UsageStats struct {
	TotalSearches  int `json:"totalSearches"`
	EntriesAdded   int `json:"entriesAdded"`
	Imports        int `json:"imports"`
	Exports        int `json:"exports"`
	Logins         int `json:"logins"`
	RecentActivity int `json:"recentActivity"`
}

type Service struct {
	repo     *corpus.Repository
	activity *activity.Log
}

func New(repo *corpus.Repository, act *activity.Log) *Service {
	return &Service{repo: repo, activity: act}
}

var wordPattern = regexp.MustCompile(`\w+`)

// WordFrequency tokenizes every headword and returns the limit most
// common tokens, most frequent first; ties break alphabetically.
func (s *Service) WordFrequency(ctx context.Context, limit int) []WordCount {
	if limit <= 0 {
		limit = 20
	}

	counts := make(map[string]int)
	for _, entry := range s.repo.LoadAll(ctx) {
		for _, token := range wordPattern.FindAllString(strings.ToLower(entry.Word), -1) {
			counts[token]++
		}
	}

	ranked := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, WordCount{Word: word, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Corpus aggregates collection-level statistics.
func (s *Service) Corpus(ctx context.Context) CorpusStats {
	entries := s.repo.LoadAll(ctx)

	stats := CorpusStats{
		TotalEntries:   len(entries),
		EntriesByGenre: make(map[string]int),
	}
	for _, genre := range model.Genres {
		stats.EntriesByGenre[genre] = 0
	}

	totalFrequency := 0
	unique := make(map[string]struct{})
	for _, entry := range entries {
		stats.EntriesByGenre[entry.Genre]++
		totalFrequency += entry.Frequency
		if entry.Frequency > stats.MaxFrequency {
			stats.MaxFrequency = entry.Frequency
		}
		words := strings.Fields(entry.Word)
		stats.TotalWords += len(words)
		for _, w := range words {
			unique[strings.ToLower(w)] = struct{}{}
		}
	}
	stats.UniqueWords = len(unique)

	if len(entries) > 0 {
		stats.AvgFrequency = float64(totalFrequency) / float64(len(entries))
		stats.AvgWordsPerEntry = float64(stats.TotalWords) / float64(len(entries))
	}
	return stats
}

// Usage tallies the retained activity records per action kind. The log is
// bounded, so these are counts over recent activity, not all-time totals.
func (s *Service) Usage(ctx context.Context) UsageStats {
	var stats UsageStats
	records := s.activity.Recent(ctx)
	stats.RecentActivity = len(records)

	for _, record := range records {
		switch {
		case strings.HasPrefix(record.Action, "Searched for:"):
			stats.TotalSearches++
		case strings.HasPrefix(record.Action, "Added entry:"):
			stats.EntriesAdded++
		case strings.HasPrefix(record.Action, "Imported"):
			stats.Imports++
		case strings.HasPrefix(record.Action, "Exported"):
			stats.Exports++
		case strings.HasPrefix(record.Action, "User logged in:"):
			stats.Logins++
		}
	}
	return stats
}
