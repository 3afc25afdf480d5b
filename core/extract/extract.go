// Package extract scans raw response text for candidate substrings that might
// parse into the target schema. Patterns are regular expressions applied as
// independent passes; results keep pattern order, then match order.
package extract

import (
	"regexp"
	"strings"
)

// DefaultPatterns returns the standard candidate patterns: first the content
// of a fenced code block labelled json, second the widest brace-delimited
// span in the text. Both match across line boundaries.
func DefaultPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile("(?s)```json(.*?)```"),
		regexp.MustCompile(`(?s)\{.*\}`),
	}
}

// Compile turns raw pattern strings into regular expressions with multi-line
// matching enabled, mirroring the DOTALL behaviour default patterns get.
func Compile(patterns ...string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?s)" + pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Find collects every match of every pattern against text, trimmed of
// surrounding whitespace. Each pattern is an independent pass over the full
// text; results are concatenated pattern by pattern, never interleaved by
// position. A pattern with capture groups contributes its first group,
// otherwise the whole match.
func Find(text string, patterns []*regexp.Regexp) []string {
	var results []string

	for _, pattern := range patterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		for _, match := range matches {
			found := match[0]
			if len(match) > 1 {
				found = match[1]
			}
			results = append(results, strings.TrimSpace(found))
		}
	}

	return results
}
