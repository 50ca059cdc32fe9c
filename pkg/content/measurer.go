package content

import (
	stderrors "errors"
	"io/fs"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/perch/pkg/errors"
	"github.com/go-drift/perch/pkg/geometry"
)

// Measurer turns Content into a Measurement for the solver.
//
// Assets are read from an fs.FS, so a directory (os.DirFS), an embedded
// filesystem, or an in-memory fstest.MapFS all work. An asset that does not
// exist yet is treated as "not loaded" and silently yields no measurement.
type Measurer struct {
	assets fs.FS
	face   font.Face
	cache  *AssetCache
}

// NewMeasurer creates a Measurer. A nil face selects basicfont.Face7x13.
// A nil assets filesystem disables image and vector measurement.
func NewMeasurer(assets fs.FS, face font.Face) *Measurer {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &Measurer{assets: assets, face: face, cache: NewAssetCache()}
}

// Cache exposes the asset-size cache so callers can Reset it after assets change.
func (m *Measurer) Cache() *AssetCache {
	return m.cache
}

// Measure returns the intrinsic measurement for c. container is the size of
// the parent's box from the previous tick and bounds wrapped text. The second
// return value is false when c has no intrinsic size or it is unavailable.
func (m *Measurer) Measure(c Content, container geometry.Size) (Measurement, bool) {
	switch c := c.(type) {
	case Text:
		metrics := MeasureText(m.face, c, container.Width)
		return FixedMeasure{Size: metrics.Size}, true
	case *Text:
		if c == nil {
			return nil, false
		}
		return m.Measure(*c, container)
	case Image:
		size, ok := m.assetSize("content.MeasureImage", c.Asset, ImageSize)
		if !ok {
			return nil, false
		}
		return ImageMeasure{Size: size}, true
	case Vector:
		size, ok := m.assetSize("content.MeasureVector", c.Asset, VectorSize)
		if !ok {
			return nil, false
		}
		return ImageMeasure{Size: size}, true
	default:
		return nil, false
	}
}

func (m *Measurer) assetSize(op, name string, decode func([]byte) (geometry.Size, error)) (geometry.Size, bool) {
	if m.assets == nil || name == "" {
		return geometry.Size{}, false
	}
	size, loaded, err := m.cache.Get(name, func() (geometry.Size, error) {
		data, err := fs.ReadFile(m.assets, name)
		if err != nil {
			return geometry.Size{}, err
		}
		return decode(data)
	})
	if err != nil {
		if loaded && !stderrors.Is(err, fs.ErrNotExist) {
			errors.Report(&errors.PerchError{Op: op, Kind: errors.KindMeasure, Err: err})
		}
		return geometry.Size{}, false
	}
	return size, true
}
