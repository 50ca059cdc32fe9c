package content

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/perch/pkg/geometry"
)

// TextLine is one laid-out line of text.
type TextLine struct {
	Text  string
	Width float64
}

// TextMetrics is the result of measuring a Text value.
type TextMetrics struct {
	Size       geometry.Size
	LineHeight float64
	Lines      []TextLine
}

// ruler measures strings with a face scaled to a requested font size.
type ruler struct {
	face  font.Face
	scale float64
	line  float64
}

func newRuler(face font.Face, fontSize float64) ruler {
	m := face.Metrics()
	line := fixedToFloat(m.Height)
	if line == 0 {
		line = fixedToFloat(m.Ascent + m.Descent)
	}
	r := ruler{face: face, scale: 1, line: line}
	if fontSize > 0 && line > 0 {
		r.scale = fontSize / line
		r.line = fontSize
	}
	return r
}

func (r ruler) width(s string) float64 {
	return fixedToFloat(font.MeasureString(r.face, s)) * r.scale
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// MeasureText lays out text with face and reports its bounding box. When the
// text wraps and maxWidth is positive, lines break between words to fit it; a
// word wider than maxWidth is split at rune boundaries. Explicit newlines
// always break.
func MeasureText(face font.Face, t Text, maxWidth float64) TextMetrics {
	r := newRuler(face, t.FontSize)
	limit := 0.0
	if t.WordWrap && maxWidth > 0 && !math.IsInf(maxWidth, 0) {
		limit = maxWidth
	}

	var lines []TextLine
	for _, paragraph := range strings.Split(t.Value, "\n") {
		lines = r.layoutParagraph(lines, paragraph, limit)
	}

	var size geometry.Size
	for _, l := range lines {
		size.Width = max(size.Width, l.Width)
	}
	size.Height = r.line * float64(len(lines))
	return TextMetrics{Size: size, LineHeight: r.line, Lines: lines}
}

// layoutParagraph appends the lines of one paragraph to dst. A zero limit
// keeps the paragraph on a single line.
func (r ruler) layoutParagraph(dst []TextLine, paragraph string, limit float64) []TextLine {
	if limit == 0 || paragraph == "" {
		return append(dst, TextLine{Text: paragraph, Width: r.width(paragraph)})
	}
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return append(dst, TextLine{})
	}

	var current string
	flush := func() {
		dst = append(dst, TextLine{Text: current, Width: r.width(current)})
		current = ""
	}
	for _, word := range words {
		if current != "" {
			if joined := current + " " + word; r.width(joined) <= limit {
				current = joined
				continue
			}
			flush()
		}
		for r.width(word) > limit {
			head, rest := r.splitWord(word, limit)
			current = head
			flush()
			word = rest
		}
		current = word
	}
	if current != "" {
		flush()
	}
	return dst
}

// splitWord returns the longest prefix of word that fits limit, and the rest.
// The prefix always holds at least one rune.
func (r ruler) splitWord(word string, limit float64) (string, string) {
	_, first := utf8.DecodeRuneInString(word)
	cut := first
	for i := first; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		if r.width(word[:i+size]) > limit {
			break
		}
		i += size
		cut = i
	}
	return word[:cut], word[cut:]
}
