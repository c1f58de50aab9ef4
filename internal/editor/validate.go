package editor

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goslug "github.com/goliatone/go-slug"
)

// slugPattern is the final gate on slugs: lowercase alphanumeric runs joined
// by single hyphens. Normalization happens before this check, never instead
// of it.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	invalidRune   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// NormalizeSlug lowercases raw input, collapses whitespace runs into single
// hyphens, and strips everything that cannot appear in a slug. The slug
// library handles transliteration; the explicit cleanup after it guarantees
// the output shape regardless of input.
func NormalizeSlug(raw string) string {
	value := strings.TrimSpace(raw)
	if normalized, err := goslug.Normalize(value); err == nil && normalized != "" {
		value = normalized
	}
	value = strings.ToLower(value)
	value = whitespaceRun.ReplaceAllString(value, "-")
	value = invalidRune.ReplaceAllString(value, "")
	value = hyphenRun.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// ValidateDraft runs the local pre-save checks. The returned error is a
// field-keyed validation.Errors; a draft failing here must never reach the
// repository.
func ValidateDraft(title, slug string) error {
	return validation.Errors{
		"title": validation.Validate(strings.TrimSpace(title), validation.Required.Error("title is required")),
		"slug": validation.Validate(slug,
			validation.Required.Error("slug is required"),
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, numbers, and hyphens"),
		),
	}.Filter()
}
