package corpus

import (
	"time"

	"github.com/ulimi/corpus-api/internal/model"
)

// StarterEntries returns the fixed built-in corpus written on first use.
func StarterEntries() []model.Entry {
	seeded := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Entry{
		{
			ID:          1,
			Word:        "Ubuntu",
			Translation: "Humanity, human kindness",
			Pos:         model.PosNoun,
			Genre:       model.GenreCultural,
			Languages:   []string{"isizulu", "english", "isixhosa", "sesotho"},
			Examples: []model.UsageExample{
				{
					SourceText: "Ubuntu ngumuntu ngabantu",
					TargetText: "A person is a person through other people",
				},
			},
			CulturalContext: "Philosophical concept emphasizing shared humanity and interconnectedness",
			Frequency:       1,
			CreatedAt:       seeded,
		},
		{
			ID:          2,
			Word:        "Indlela ibuzwa kwabaphambili",
			Translation: "The way is asked from those who have gone before",
			Pos:         model.PosProverb,
			Genre:       model.GenreProverb,
			Languages:   []string{"isizulu", "english"},
			Examples: []model.UsageExample{
				{
					SourceText: "Umuntu omusha kufanele azwe izinkulumo zabadala",
					TargetText: "A young person should listen to the elders' wisdom",
				},
			},
			CulturalContext: "Emphasizes learning from elders and experienced people",
			Frequency:       1,
			CreatedAt:       seeded,
		},
	}
}
