package render

import "regexp"

// Package-level defaults for page styling. A zero Options renders a 1080px
// square card with dark text on a warm off-white background.
const (
	DefaultWidth      = 1080
	DefaultHeight     = 1080
	DefaultMargin     = 96
	DefaultFontSize   = 44
	DefaultFontFamily = "Georgia, 'Times New Roman', serif"
	DefaultTextColor  = "#222222"
	DefaultBackground = "#f8f4e9"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Options are the style knobs for a single page render.
type Options struct {
	FontFamily      string
	FontSize        int
	TextColor       string
	BackgroundColor string
	Margin          int
	Width           int
	Height          int

	// PageNumberLabel is drawn small and semi-transparent in the
	// bottom-right corner; empty omits the label entirely (title page).
	PageNumberLabel string
}

// normalized fills zero values with defaults and replaces unusable style
// values. Colors and font families flow in from LLM output and client
// requests, so anything that could break out of the stylesheet is dropped.
func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if !hexColorRe.MatchString(o.TextColor) {
		o.TextColor = DefaultTextColor
	}
	if !hexColorRe.MatchString(o.BackgroundColor) {
		o.BackgroundColor = DefaultBackground
	}
	if o.FontFamily == "" || fontFamilyUnsafeRe.MatchString(o.FontFamily) {
		o.FontFamily = DefaultFontFamily
	}
	return o
}

// fontFamilyUnsafeRe rejects characters that could terminate the CSS
// declaration or the style block.
var fontFamilyUnsafeRe = regexp.MustCompile(`[;{}<>\\]`)
