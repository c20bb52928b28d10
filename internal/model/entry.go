package model

import "time"

// Part of speech constants
const (
	PosNoun      = "noun"
	PosVerb      = "verb"
	PosAdjective = "adjective"
	PosAdverb    = "adverb"
	PosProverb   = "proverb"
	PosIdiom     = "idiom"
	PosNarrative = "narrative"
)

// Genre constants
const (
	GenreProverb   = "proverb"
	GenreIdiom     = "idiom"
	GenreNarrative = "narrative"
	GenreSong      = "song"
	GenreGreeting  = "greeting"
	GenreCultural  = "cultural"
)

// Genres lists every browse category in display order.
var Genres = []string{
	GenreProverb,
	GenreIdiom,
	GenreNarrative,
	GenreSong,
	GenreGreeting,
	GenreCultural,
}

// UsageExample pairs source-language text with its target-language rendering.
type UsageExample struct {
	SourceText string `json:"sourceText"`
	TargetText string `json:"targetText"`
}

// Entry is one lexical/cultural unit in the corpus. Entries are immutable
// after creation except for the frequency counter, which is bumped every
// time the entry appears in a search result set.
type Entry struct {
	ID              int            `json:"id"`
	Word            string         `json:"word"`
	Translation     string         `json:"translation"`
	Pos             string         `json:"pos"`
	Genre           string         `json:"genre"`
	Languages       []string       `json:"languages"`
	Examples        []UsageExample `json:"examples"`
	CulturalContext string         `json:"culturalContext"`
	Frequency       int            `json:"frequency"`
	CreatedAt       time.Time      `json:"createdAt"`
}
