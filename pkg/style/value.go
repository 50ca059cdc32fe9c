package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit specifies how a Dimension is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // size determined by content or flex
	UnitPixels              // absolute pixels
	UnitPercent             // percentage of the parent's content box
)

// Dimension is a length that can be pixels, a percentage, or auto.
type Dimension struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Dimension computed from content or flex.
func Auto() Dimension {
	return Dimension{Unit: UnitAuto}
}

// Px returns a Dimension of n pixels.
func Px(n float64) Dimension {
	return Dimension{Amount: n, Unit: UnitPixels}
}

// Percent returns a Dimension on a 0-100 scale (50 = 50%).
func Percent(p float64) Dimension {
	return Dimension{Amount: p, Unit: UnitPercent}
}

// IsAuto reports whether d is computed from content or flex.
func (d Dimension) IsAuto() bool {
	return d.Unit == UnitAuto
}

// Resolve returns the pixel value of d against the given basis.
// Auto yields fallback, and so does a percentage with a negative basis.
func (d Dimension) Resolve(basis, fallback float64) float64 {
	switch d.Unit {
	case UnitPixels:
		return d.Amount
	case UnitPercent:
		if basis < 0 {
			return fallback
		}
		return basis * d.Amount / 100.0
	default:
		return fallback
	}
}

// ValueOr returns the pixel amount, or fallback for any other unit.
func (d Dimension) ValueOr(fallback float64) float64 {
	if d.Unit == UnitPixels {
		return d.Amount
	}
	return fallback
}

func (d Dimension) String() string {
	switch d.Unit {
	case UnitPixels:
		return strconv.FormatFloat(d.Amount, 'g', -1, 64) + "px"
	case UnitPercent:
		return strconv.FormatFloat(d.Amount, 'g', -1, 64) + "%"
	default:
		return "auto"
	}
}

// ParseDimension parses "auto", "", "120", "120px", or "50%".
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "auto":
		return Auto(), nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		return Percent(v), nil
	default:
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("invalid dimension %q: %w", s, err)
		}
		return Px(v), nil
	}
}
