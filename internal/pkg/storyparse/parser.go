// Package storyparse turns raw LLM output into a structured story: a title,
// an ordered page list, and a text/background color pair. Parsing is pure and
// never fails; malformed input degrades to defaults instead of erroring.
package storyparse

import (
	"regexp"
	"strings"
)

// Default colors used when the generated text carries no valid color block.
const (
	DefaultTextColor       = "#222222"
	DefaultBackgroundColor = "#f8f4e9"
)

// Story is the structured result of parsing one generation run.
type Story struct {
	Title           string
	Pages           []string
	TextColor       string
	BackgroundColor string
}

var (
	// Trailing color block: two labeled hex colors, each optionally followed
	// by a parenthetical annotation on the same line.
	colorBlockRe = regexp.MustCompile(
		`Text Color:\s*(#[0-9a-fA-F]{6})[^\n]*\n\s*Background Color:\s*(#[0-9a-fA-F]{6})`)

	// Page markers are the literal word "Page" followed by digits.
	// Case-sensitive on purpose: prose mentioning "page 3" must not split.
	pageMarkerRe = regexp.MustCompile(`Page \d+`)

	titleLabelRe = regexp.MustCompile(`(?i)^\s*title:\s*`)
)

// Parse extracts a Story from raw generated text.
//
// The color block (and everything from its start onward) is stripped before
// page segmentation. The text is then split on "Page N" markers: the segment
// before the first marker is the title, every following segment is one page.
// Empty segments are dropped; order is preserved. With no markers at all the
// whole text becomes the title and the page list is empty — callers must
// handle the zero-page case.
func Parse(raw string) Story {
	story := Story{
		TextColor:       DefaultTextColor,
		BackgroundColor: DefaultBackgroundColor,
	}

	text := raw
	if m := colorBlockRe.FindStringSubmatchIndex(text); m != nil {
		story.TextColor = text[m[2]:m[3]]
		story.BackgroundColor = text[m[4]:m[5]]
		text = text[:m[0]]
	}

	segments := pageMarkerRe.Split(text, -1)

	title := titleLabelRe.ReplaceAllString(segments[0], "")
	story.Title = strings.TrimSpace(title)

	for _, seg := range segments[1:] {
		if page := strings.TrimSpace(seg); page != "" {
			story.Pages = append(story.Pages, page)
		}
	}

	return story
}
