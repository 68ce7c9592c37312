package present

import (
	"strings"
)

const (
	// Marker is the literal the model uses to flag a cell that needs work.
	Marker = "ACTION REQUIRED"
	// NeutralGlyph is the headline of a critique without the marker.
	NeutralGlyph = "👍"

	headlinePrefix = "🤓 unprompted feedback: "
	bullet         = "* "
)

// ActionRequired reports whether the critique flags the cell.
func ActionRequired(critique string) bool {
	return strings.Contains(critique, Marker)
}

// Headline returns the one-line summary of a critique.
func Headline(critique string) string {
	if !ActionRequired(critique) {
		return NeutralGlyph
	}
	return headlinePrefix + actionSegment(critique)
}

// actionSegment picks the second-to-last "* " segment, flattened to one
// line. Critiques without that bullet structure fall back to the marker.
func actionSegment(critique string) string {
	segments := strings.Split(critique, bullet)
	if len(segments) < 2 {
		return Marker
	}
	seg := strings.TrimSpace(strings.ReplaceAll(segments[len(segments)-2], "\n", " "))
	if seg == "" {
		return Marker
	}
	return seg
}
