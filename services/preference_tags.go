package services

import (
	"regexp"
	"strings"
)

var hashTagPattern = regexp.MustCompile(`#([^\s#]+)`)

// ExtractPreferenceTags pulls matching tags out of an AI-generated preference
// text. Two sources feed the result:
//
//  1. every #tag token anywhere in the text, and
//  2. the last non-blank line split on commas — but only when that line itself
//     contains no '#' character.
//
// The comma fallback looks at the last line alone: hashtags on earlier lines
// do not suppress it. The analysis model sometimes emits a bare trailing tag
// line and sometimes a #-prefixed one, and this is the decision rule the rest
// of the system was tuned against, so it stays as is (see the flagged cases in
// the tests before changing it).
//
// Returns an empty slice for empty input, deduplicated, first-seen order.
func ExtractPreferenceTags(preferenceText string) []string {
	if preferenceText == "" {
		return []string{}
	}

	var tags []string
	seen := make(map[string]struct{})
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, match := range hashTagPattern.FindAllStringSubmatch(preferenceText, -1) {
		add(match[1])
	}

	lastLine := ""
	for _, line := range strings.Split(preferenceText, "\n") {
		if strings.TrimSpace(line) != "" {
			lastLine = line
		}
	}

	if !strings.Contains(lastLine, "#") {
		for _, piece := range strings.Split(lastLine, ",") {
			add(piece)
		}
	}

	if tags == nil {
		return []string{}
	}
	return tags
}
