// Package sanitize holds the pure input-cleaning and validation helpers
// used by the repository and the import path.
package sanitize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/ulimi/corpus-api/internal/model"
)

// Clean HTML-escapes free-text input so stored values are inert when later
// rendered as markup. Covers & < > " '.
func Clean(s string) string {
	return html.EscapeString(s)
}

// ValidateEntry checks one entry's structural validity. All checks run
// independently and every failure is collected; the entry is acceptable
// iff the returned list is empty.
func ValidateEntry(e model.Entry) []string {
	var errs []string

	if strings.TrimSpace(e.Word) == "" {
		errs = append(errs, "Word/phrase is required")
	}
	if strings.TrimSpace(e.Translation) == "" {
		errs = append(errs, "Translation is required")
	}
	if len(e.Examples) == 0 {
		errs = append(errs, "At least one usage example is required")
	} else {
		for i, ex := range e.Examples {
			if strings.TrimSpace(ex.SourceText) == "" || strings.TrimSpace(ex.TargetText) == "" {
				errs = append(errs, fmt.Sprintf("Example %d must include both source and target text", i+1))
			}
		}
	}
	if strings.TrimSpace(e.Pos) == "" {
		errs = append(errs, "Part of speech is required")
	}
	if strings.TrimSpace(e.Genre) == "" {
		errs = append(errs, "Genre is required")
	}
	if strings.TrimSpace(e.CulturalContext) == "" {
		errs = append(errs, "Cultural context is required")
	}

	return errs
}

// requiredFields, in the order failures are reported.
var requiredFields = []string{
	"word",
	"translation",
	"pos",
	"genre",
	"languages",
	"examples",
	"culturalContext",
}

// ValidateImport checks the structural shape of a bulk-import payload and
// decodes it. The payload must be a JSON array whose every element carries
// all seven required fields, with languages and examples themselves arrays.
// Any failure rejects the whole payload with an *model.ImportFormatError
// naming the offending index and field; nothing is decoded per-entry beyond
// that (malformed example pairs inside a well-formed entry are left to the
// per-record save, which skips and counts them).
func ValidateImport(raw []byte) ([]model.Entry, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &model.ImportFormatError{Index: -1, Reason: "expected a JSON array of entries"}
	}

	entries := make([]model.Entry, 0, len(elements))
	for i, element := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			return nil, &model.ImportFormatError{Index: i, Reason: "entry must be a JSON object"}
		}

		for _, field := range requiredFields {
			if _, ok := fields[field]; !ok {
				return nil, &model.ImportFormatError{Index: i, Reason: fmt.Sprintf("missing required field %q", field)}
			}
		}

		// json.Unmarshal accepts null for a slice target, so null has to
		// be rejected before decoding or it would pass as an array.
		for _, field := range []string{"languages", "examples"} {
			raw := bytes.TrimSpace(fields[field])
			var items []json.RawMessage
			if bytes.Equal(raw, []byte("null")) || json.Unmarshal(raw, &items) != nil {
				return nil, &model.ImportFormatError{Index: i, Reason: fmt.Sprintf("field %q must be an array", field)}
			}
		}

		var entry model.Entry
		if err := json.Unmarshal(element, &entry); err != nil {
			return nil, &model.ImportFormatError{Index: i, Reason: "entry does not match the expected format"}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
