package imageproc

import "strings"

// Line is one wrapped line of a caption.
type Line struct {
	Words []string
	// Width is the sum of advance widths, including separating spaces.
	Width float64
}

func (l Line) String() string {
	return strings.Join(l.Words, " ")
}

// WrapLines greedily packs the whitespace separated words of caption into
// lines no wider than maxWidth. A word that is wider than maxWidth on its own
// gets a line to itself; words are never split.
func WrapLines(caption string, m MetricsProvider, scale float64, maxWidth float64) []Line {
	var lines []Line
	spaceWidth := m.AdvanceWidth(' ', scale)

	var cur Line
	for _, w := range strings.Fields(caption) {
		wordWidth := 0.0
		for _, c := range w {
			wordWidth += m.AdvanceWidth(c, scale)
		}

		width := cur.Width + wordWidth
		if len(cur.Words) > 0 {
			width += spaceWidth
		}

		switch {
		case width <= maxWidth:
			cur.Words = append(cur.Words, w)
			cur.Width = width
		case len(cur.Words) == 0:
			lines = append(lines, Line{Words: []string{w}, Width: wordWidth})
			cur = Line{}
		default:
			lines = append(lines, cur)
			cur = Line{Words: []string{w}, Width: wordWidth}
		}
	}

	if len(cur.Words) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
