// Package sanitize strips markup from user-submitted text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity encoding are peeled off.
const maxPasses = 4

var policy = bluemonday.StrictPolicy()

// Text removes every HTML element (and the content of script-like elements)
// and trims surrounding whitespace. Entities are decoded so length limits
// apply to what the user sees, and the decoded text is sanitized again until
// it is stable, so encoded markup cannot come back to life. Input that is
// still unstable after maxPasses is returned in its escaped form.
func Text(s string) string {
	cur := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(policy.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	return strings.TrimSpace(policy.Sanitize(cur))
}
