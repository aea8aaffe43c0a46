package validations

import (
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var spacesRegex *regexp.Regexp = regexp.MustCompile("[\t|\n]+")

var sanitization = bluemonday.StrictPolicy()

// CleanUpText strips markup and collapses whitespace. Page titles go through
// here before they are persisted or rendered.
func CleanUpText(text string) string {
	return html.UnescapeString(
		sanitization.Sanitize(
			spacesRegex.ReplaceAllLiteralString(text, " "),
		))
}
