package main

import (
	"context"
	"flag"
	"os"

	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/config"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/importer"
	"github.com/ulimi/corpus-api/internal/logger"
	"github.com/ulimi/corpus-api/internal/store"
)

func main() {
	filePath := flag.String("file", "", "Path to a JSON entry-array file to import (empty = built-in starter set)")
	dryRun := flag.Bool("dry-run", false, "Run against an in-memory store instead of the database")
	flag.Parse()

	logg := logger.New("corpus-seed")
	cfg := config.Load()

	var docs store.Store
	if *dryRun {
		docs = store.NewMemory()
	} else {
		db, err := store.Connect(cfg)
		if err != nil {
			logg.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.Migrate(); err != nil {
			logg.Fatal().Err(err).Msg("failed to migrate database")
		}
		docs = db
	}

	act := activity.New(docs, logg)
	repo := corpus.New(docs, act, logg)
	ctx := context.Background()

	if *filePath == "" {
		if err := repo.SeedIfEmpty(ctx); err != nil {
			logg.Fatal().Err(err).Msg("failed to seed starter corpus")
		}
		logg.Info().Int("entries", len(repo.LoadAll(ctx))).Msg("seeding complete")
		return
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		logg.Fatal().Err(err).Str("file", *filePath).Msg("failed to read import file")
	}

	imp := importer.New(repo, act, logg)
	report, err := imp.Import(ctx, raw)
	if err != nil {
		logg.Fatal().Err(err).Msg("import rejected")
	}

	logg.Info().
		Int("imported", report.Imported).
		Int("failed", report.Failed).
		Msg("seeding complete")
	for _, msg := range report.Errors {
		logg.Warn().Str("record", msg).Msg("import record failed")
	}
}
