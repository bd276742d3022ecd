package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeTagName trims and lower-cases a tag name using locale-independent rules
func NormalizeTagName(raw string) string {
	// a Caser keeps state, so each call gets its own
	return cases.Lower(language.Und).String(strings.TrimSpace(raw))
}

// NormalizeTags normalises every name, drops blanks and repeats, and keeps first
// occurrence order
func NormalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := NormalizeTagName(r)
		if name == "" || seen[name] {
			continue
		}
		if utf8.RuneCountInString(name) > models.MaxTagNameLength {
			return nil, errs.NewBadRequestErrorWithField("validation failed", "tags",
				fmt.Sprintf("tag %q must not exceed %d characters", name, models.MaxTagNameLength))
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}
