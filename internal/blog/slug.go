package blog

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Transliteration can expand a 200-character title well past the 220-char
// slug column, so the base is capped with room left for a counter suffix.
const maxSlugBase = 200

// Slugify lowercases the title, transliterates it to ASCII and collapses
// anything non-alphanumeric into single hyphens, trimmed at both ends.
func Slugify(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugBase {
		s = strings.TrimRight(s[:maxSlugBase], "-")
	}
	return s
}

// GenerateSlug returns the first candidate the exists predicate does not
// claim: base, then base-1, base-2, and so on. An empty base still
// terminates, walking "-1", "-2", ...
func GenerateSlug(base string, exists func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
