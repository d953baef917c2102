// Package mdtext converts markdown or HTML fragments to plain text.
// Retrieved knowledge snippets are frequently markdown; estimating
// tokens on their rendered text keeps counts closer to what the model
// will actually see.
package mdtext

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// strict strips every tag. Policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// ToText renders markdown to HTML and strips all tags, returning the
// plain text content. Raw HTML embedded in the input is stripped too.
// If rendering fails the input is sanitized directly.
func ToText(markdown string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return strings.TrimSpace(html.UnescapeString(strict.Sanitize(markdown)))
	}
	stripped := strict.Sanitize(buf.String())
	return strings.TrimSpace(html.UnescapeString(stripped))
}
