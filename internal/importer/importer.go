// Package importer handles bulk JSON import of corpus entries.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/sanitize"
)

// Report tallies one import run.
type Report struct {
	ID        string    `json:"id"`
	Imported  int       `json:"imported"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Importer struct {
	repo     *corpus.Repository
	activity *activity.Log
	logger   zerolog.Logger
}

func New(repo *corpus.Repository, act *activity.Log, logger zerolog.Logger) *Importer {
	return &Importer{repo: repo, activity: act, logger: logger}
}

// Import validates the payload shape up front, rejecting the whole batch
// on a format error, then fans out to one independent save per record. A
// record failing validation at save time is skipped and counted; it never
// aborts the remaining records.
func (im *Importer) Import(ctx context.Context, raw []byte) (Report, error) {
	entries, err := sanitize.ValidateImport(raw)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}

	for i, entry := range entries {
		if _, err := im.repo.Save(ctx, entry); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("entry %d: %v", i, err))
			im.logger.Warn().Err(err).Int("index", i).Str("word", entry.Word).Msg("import record skipped")
			continue
		}
		report.Imported++
	}

	im.activity.Append(ctx, fmt.Sprintf("Imported %d entries (%d failed)", report.Imported, report.Failed))
	return report, nil
}
