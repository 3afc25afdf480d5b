// Package htmltext normalizes user input before prompt assembly. Input that
// carries HTML markup is converted to Markdown so the backend sees readable
// text instead of tag soup; plain text passes through untouched.
package htmltext

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// tagPattern is a cheap markup probe: a closing or self-contained element
// somewhere in the text. Stray angle brackets (e.g. "a < b") do not match.
var tagPattern = regexp.MustCompile(`(?s)<([a-zA-Z][a-zA-Z0-9-]*)(\s[^>]*)?>.*</([a-zA-Z][a-zA-Z0-9-]*)>|<(br|hr|img|meta|input)(\s[^>]*)?/?>`)

// LooksLikeHTML reports whether the input plausibly contains HTML markup.
func LooksLikeHTML(input string) bool {
	return tagPattern.MatchString(input)
}

// Normalize converts HTML input to Markdown. Non-HTML input is returned
// unchanged. The result is trimmed of surrounding whitespace.
func Normalize(input string) (string, error) {
	if !LooksLikeHTML(input) {
		return input, nil
	}

	markdown, err := htmltomarkdown.ConvertString(input)
	if err != nil {
		return "", fmt.Errorf("htmltext: converting HTML input: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}
