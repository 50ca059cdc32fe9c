package content

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

// basicfont.Face7x13 advances 7px per glyph with a 13px line.

func TestMeasureText_SingleLine(t *testing.T) {
	m := MeasureText(basicfont.Face7x13, Text{Value: "hello world"}, 0)
	if m.Size.Width != 77 || m.Size.Height != 13 {
		t.Errorf("Size = %+v, want 77x13", m.Size)
	}
	if len(m.Lines) != 1 {
		t.Errorf("lines = %d, want 1", len(m.Lines))
	}
}

func TestMeasureText_WrapsAtWhitespace(t *testing.T) {
	m := MeasureText(basicfont.Face7x13, Text{Value: "hello world", WordWrap: true}, 50)
	if len(m.Lines) != 2 {
		t.Fatalf("lines = %+v, want 2", m.Lines)
	}
	if m.Lines[0].Text != "hello" || m.Lines[1].Text != "world" {
		t.Errorf("lines = %q / %q", m.Lines[0].Text, m.Lines[1].Text)
	}
	if m.Size.Width != 35 || m.Size.Height != 26 {
		t.Errorf("Size = %+v, want 35x26", m.Size)
	}
}

func TestMeasureText_NoWrapIgnoresContainer(t *testing.T) {
	m := MeasureText(basicfont.Face7x13, Text{Value: "hello world"}, 50)
	if len(m.Lines) != 1 {
		t.Errorf("unwrapped text should stay on one line, got %d", len(m.Lines))
	}
}

func TestMeasureText_SplitsLongWord(t *testing.T) {
	m := MeasureText(basicfont.Face7x13, Text{Value: "abcdefgh", WordWrap: true}, 21)
	if len(m.Lines) != 3 {
		t.Fatalf("lines = %+v, want 3", m.Lines)
	}
	if m.Lines[0].Text != "abc" || m.Lines[2].Text != "gh" {
		t.Errorf("unexpected split %+v", m.Lines)
	}
}

func TestMeasureText_ExplicitNewlines(t *testing.T) {
	m := MeasureText(basicfont.Face7x13, Text{Value: "a\n\nbb"}, 0)
	if len(m.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(m.Lines))
	}
	if m.Size.Width != 14 || m.Size.Height != 39 {
		t.Errorf("Size = %+v, want 14x39", m.Size)
	}
}

func TestMeasureText_FontSizeScales(t *testing.T) {
	m := MeasureText(basicfont.Face7x13, Text{Value: "ab", FontSize: 26}, 0)
	if m.Size.Width != 28 || m.Size.Height != 26 {
		t.Errorf("Size = %+v, want 28x26", m.Size)
	}
}
