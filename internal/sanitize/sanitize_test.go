package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulimi/corpus-api/internal/model"
)

func validEntry() model.Entry {
	return model.Entry{
		Word:        "Ubuntu",
		Translation: "Humanity",
		Pos:         model.PosNoun,
		Genre:       model.GenreCultural,
		Languages:   []string{"isizulu", "english"},
		Examples: []model.UsageExample{
			{SourceText: "Ubuntu ngumuntu ngabantu", TargetText: "A person is a person through other people"},
		},
		CulturalContext: "Philosophy of shared humanity",
	}
}

func TestCleanEscapesMarkup(t *testing.T) {
	cleaned := Clean(`<script>alert("x") & 'y'</script>`)
	assert.NotContains(t, cleaned, "<")
	assert.NotContains(t, cleaned, ">")
	assert.NotContains(t, cleaned, `"`)
	assert.NotContains(t, cleaned, "'")
	assert.Contains(t, cleaned, "&lt;script&gt;")
	assert.Contains(t, cleaned, "&amp;")
}

func TestCleanLeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "Indlela ibuzwa kwabaphambili", Clean("Indlela ibuzwa kwabaphambili"))
}

func TestValidateEntryAcceptsValid(t *testing.T) {
	assert.Empty(t, ValidateEntry(validEntry()))
}

func TestValidateEntryMissingGenre(t *testing.T) {
	e := validEntry()
	e.Genre = ""

	errs := ValidateEntry(e)
	require.Len(t, errs, 1)
	assert.Equal(t, "Genre is required", errs[0])
}

func TestValidateEntryMissingWord(t *testing.T) {
	e := validEntry()
	e.Word = ""

	errs := ValidateEntry(e)
	require.Len(t, errs, 1)
	assert.Equal(t, "Word/phrase is required", errs[0])
}

func TestValidateEntryCollectsAllErrors(t *testing.T) {
	errs := ValidateEntry(model.Entry{})

	assert.Contains(t, errs, "Word/phrase is required")
	assert.Contains(t, errs, "Translation is required")
	assert.Contains(t, errs, "At least one usage example is required")
	assert.Contains(t, errs, "Part of speech is required")
	assert.Contains(t, errs, "Genre is required")
	assert.Contains(t, errs, "Cultural context is required")
	assert.Len(t, errs, 6)
}

func TestValidateEntryIncompleteExamplePerIndex(t *testing.T) {
	e := validEntry()
	e.Examples = []model.UsageExample{
		{SourceText: "okay", TargetText: "okay"},
		{SourceText: "missing target"},
		{TargetText: "missing source"},
	}

	errs := ValidateEntry(e)
	require.Len(t, errs, 2)
	assert.Equal(t, "Example 2 must include both source and target text", errs[0])
	assert.Equal(t, "Example 3 must include both source and target text", errs[1])
}

func TestValidateImportAcceptsFullEntries(t *testing.T) {
	payload := []byte(`[{
		"word": "Sawubona",
		"translation": "Hello",
		"pos": "greeting",
		"genre": "greeting",
		"languages": ["isizulu"],
		"examples": [{"sourceText": "Sawubona mngani", "targetText": "Hello friend"}],
		"culturalContext": "Common greeting"
	}]`)

	entries, err := ValidateImport(payload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sawubona", entries[0].Word)
	assert.Equal(t, "Hello friend", entries[0].Examples[0].TargetText)
}

func TestValidateImportRejectsNonArray(t *testing.T) {
	_, err := ValidateImport([]byte(`{"word": "A"}`))

	var ferr *model.ImportFormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, -1, ferr.Index)
}

func TestValidateImportNamesMissingFieldAndIndex(t *testing.T) {
	payload := []byte(`[
		{"word": "A", "translation": "a", "pos": "noun", "genre": "cultural",
		 "languages": ["isizulu"], "examples": [], "culturalContext": "c"},
		{"word": "B"}
	]`)

	_, err := ValidateImport(payload)

	var ferr *model.ImportFormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Index)
	assert.Contains(t, ferr.Reason, `"translation"`)
	assert.Contains(t, err.Error(), "entry 1")
}

func TestValidateImportRequiresArrayFields(t *testing.T) {
	payload := []byte(`[
		{"word": "A", "translation": "a", "pos": "noun", "genre": "cultural",
		 "languages": "isizulu", "examples": [], "culturalContext": "c"}
	]`)

	_, err := ValidateImport(payload)

	var ferr *model.ImportFormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 0, ferr.Index)
	assert.Contains(t, ferr.Reason, `"languages"`)
}

func TestValidateImportRejectsNullArrayFields(t *testing.T) {
	cases := []struct {
		field   string
		payload string
	}{
		{"languages", `[
			{"word": "A", "translation": "a", "pos": "noun", "genre": "cultural",
			 "languages": null, "examples": [{"sourceText": "s", "targetText": "t"}],
			 "culturalContext": "c"}
		]`},
		{"examples", `[
			{"word": "A", "translation": "a", "pos": "noun", "genre": "cultural",
			 "languages": ["isizulu"], "examples": null, "culturalContext": "c"}
		]`},
	}

	for _, tc := range cases {
		_, err := ValidateImport([]byte(tc.payload))

		var ferr *model.ImportFormatError
		require.ErrorAs(t, err, &ferr, tc.field)
		assert.Equal(t, 0, ferr.Index)
		assert.Contains(t, ferr.Reason, `"`+tc.field+`"`)
	}
}

func TestValidateImportSkipsNestedExampleShape(t *testing.T) {
	// Malformed example pairs pass shape validation; the per-record save
	// catches them later.
	payload := []byte(`[
		{"word": "A", "translation": "a", "pos": "noun", "genre": "cultural",
		 "languages": ["isizulu"], "examples": [{"sourceText": "only source"}],
		 "culturalContext": "c"}
	]`)

	entries, err := ValidateImport(payload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, ValidateEntry(entries[0]))
}
