package flex

import (
	"math"

	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/style"
)

// flexItem holds per-call state for one in-flow child.
type flexItem struct {
	entry       *entry
	hug         geometry.Size
	base        float64
	main        float64
	cross       float64
	mainMargin  float64
	crossMargin float64
	mainPos     float64
	crossPos    float64
}

// layoutFlow arranges flow inside the content box that starts at origin and
// has size inner. It returns the far corner of the children's margin boxes,
// relative to the parent's border-box origin.
func (s *Solver) layoutFlow(parent *entry, flow []*entry, origin geometry.Offset, inner geometry.Size) geometry.Offset {
	st := parent.style
	isRow := st.Direction == style.Row
	mainAvail, crossAvail := inner.Width, inner.Height
	if !isRow {
		mainAvail, crossAvail = crossAvail, mainAvail
	}

	// Phase 1: hug sizes, margins and bases.
	items := make([]flexItem, len(flow))
	for i, c := range flow {
		it := &items[i]
		it.entry = c
		it.hug = s.hug(c, inner)
		m := c.style.Margin
		if isRow {
			it.base = it.hug.Width
			it.mainMargin = m.Horizontal()
			it.crossMargin = m.Vertical()
		} else {
			it.base = it.hug.Height
			it.mainMargin = m.Vertical()
			it.crossMargin = m.Horizontal()
		}
	}

	lines := splitLines(items, mainAvail, st.Gap, st.Wrap)

	far := origin
	crossCursor := 0.0
	for li, line := range lines {
		resolveFlexible(line, mainAvail, st.Gap, isRow)

		// Phase 2: cross sizes. A single line fills the container.
		lineCross := crossAvail
		if len(lines) > 1 {
			lineCross = 0
			for i := range line {
				lineCross = math.Max(lineCross, hugCross(&line[i], isRow)+line[i].crossMargin)
			}
		}
		for i := range line {
			it := &line[i]
			cs := it.entry.style
			crossDim, minDim, maxDim := cs.Height, cs.MinHeight, cs.MaxHeight
			if !isRow {
				crossDim, minDim, maxDim = cs.Width, cs.MinWidth, cs.MaxWidth
			}
			switch {
			case !crossDim.IsAuto():
				it.cross = hugCross(it, isRow)
			case st.AlignItems == style.AlignStretch:
				it.cross = math.Max(0, lineCross-it.crossMargin)
			default:
				it.cross = hugCross(it, isRow)
			}
			it.cross = clamp(it.cross, minSize(minDim, crossAvail), maxSize(maxDim, crossAvail))
			it.crossPos = crossCursor + alignOffset(st.AlignItems, lineCross, it.cross+it.crossMargin)
		}

		// Phase 3: main-axis positions.
		used := st.Gap * float64(len(line)-1)
		for i := range line {
			used += line[i].main + line[i].mainMargin
		}
		free := mainAvail - used
		offset := justifyOffset(st.Justify, free, len(line))
		spacing := justifySpacing(st.Justify, free, len(line))
		for i := range line {
			line[i].mainPos = offset
			offset += line[i].main + line[i].mainMargin + st.Gap + spacing
		}

		// Phase 4: convert to boxes and recurse.
		for i := range line {
			it := &line[i]
			m := it.entry.style.Margin
			var loc geometry.Offset
			var size geometry.Size
			if isRow {
				loc = geometry.Offset{X: origin.X + it.mainPos + m.Left, Y: origin.Y + it.crossPos + m.Top}
				size = geometry.Size{Width: it.main, Height: it.cross}
			} else {
				loc = geometry.Offset{X: origin.X + it.crossPos + m.Left, Y: origin.Y + it.mainPos + m.Top}
				size = geometry.Size{Width: it.cross, Height: it.main}
			}
			s.place(it.entry, loc, size)
			far.X = math.Max(far.X, loc.X+size.Width+m.Right)
			far.Y = math.Max(far.Y, loc.Y+size.Height+m.Bottom)
		}

		crossCursor += lineCross
		if li < len(lines)-1 {
			crossCursor += st.Gap
		}
	}
	return far
}

func hugCross(it *flexItem, isRow bool) float64 {
	if isRow {
		return it.hug.Height
	}
	return it.hug.Width
}

// splitLines breaks items into lines when wrapping. Every line holds at
// least one item.
func splitLines(items []flexItem, mainAvail, gap float64, wrap bool) [][]flexItem {
	if !wrap || len(items) == 0 {
		return [][]flexItem{items}
	}
	var lines [][]flexItem
	start := 0
	used := 0.0
	for i := range items {
		outer := items[i].base + items[i].mainMargin
		if i > start && used+gap+outer > mainAvail {
			lines = append(lines, items[start:i])
			start = i
			used = 0
		}
		if i > start {
			used += gap
		}
		used += outer
	}
	return append(lines, items[start:])
}

// resolveFlexible distributes free main-axis space over grow factors, or
// takes overflow back through shrink factors, then applies min and max.
func resolveFlexible(line []flexItem, mainAvail, gap float64, isRow bool) {
	used := gap * float64(len(line)-1)
	var totalGrow, totalShrink float64
	for i := range line {
		used += line[i].base + line[i].mainMargin
		totalGrow += line[i].entry.style.FlexGrow
		totalShrink += line[i].entry.style.FlexShrink
	}
	free := mainAvail - used

	for i := range line {
		it := &line[i]
		it.main = it.base
		cs := it.entry.style
		switch {
		case free > 0 && totalGrow > 0 && cs.FlexGrow > 0:
			it.main += free * cs.FlexGrow / totalGrow
		case free < 0 && totalShrink > 0 && cs.FlexShrink > 0:
			it.main = math.Max(0, it.main+free*cs.FlexShrink/totalShrink)
		}
		minDim, maxDim := cs.MinWidth, cs.MaxWidth
		if !isRow {
			minDim, maxDim = cs.MinHeight, cs.MaxHeight
		}
		it.main = clamp(it.main, minSize(minDim, mainAvail), maxSize(maxDim, mainAvail))
	}
}

func justifyOffset(j style.Justify, free float64, count int) float64 {
	if free <= 0 || count == 0 {
		return 0
	}
	switch j {
	case style.JustifyEnd:
		return free
	case style.JustifyCenter:
		return free / 2
	case style.JustifySpaceAround:
		return free / float64(count*2)
	default:
		return 0
	}
}

func justifySpacing(j style.Justify, free float64, count int) float64 {
	if free <= 0 || count == 0 {
		return 0
	}
	switch j {
	case style.JustifySpaceBetween:
		if count == 1 {
			return 0
		}
		return free / float64(count-1)
	case style.JustifySpaceAround:
		return free / float64(count)
	default:
		return 0
	}
}

func alignOffset(a style.Align, lineCross, outer float64) float64 {
	switch a {
	case style.AlignEnd:
		return lineCross - outer
	case style.AlignCenter:
		return (lineCross - outer) / 2
	default:
		return 0
	}
}
