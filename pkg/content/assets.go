package content

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	// Raster decoders consulted by image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-drift/perch/pkg/geometry"
)

// ImageSize decodes only the header of a raster image and returns its pixel
// dimensions. PNG, JPEG, GIF, BMP, TIFF, and WebP are recognised.
func ImageSize(data []byte) (geometry.Size, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return geometry.Size{}, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return geometry.Size{}, fmt.Errorf("%s image has empty bounds %dx%d", format, cfg.Width, cfg.Height)
	}
	return geometry.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

// VectorSize reads the root <svg> element and returns its declared size.
// Explicit width/height attributes win; otherwise the viewBox extent is used.
// Percentage sizes are ignored in favour of the viewBox.
func VectorSize(data []byte) (geometry.Size, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return geometry.Size{}, fmt.Errorf("no <svg> element")
		}
		if err != nil {
			return geometry.Size{}, fmt.Errorf("parse svg: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return geometry.Size{}, fmt.Errorf("root element is <%s>, want <svg>", start.Name.Local)
		}
		return svgRootSize(start)
	}
}

func svgRootSize(el xml.StartElement) (geometry.Size, error) {
	var width, height float64
	var viewBox geometry.Size
	var hasViewBox bool
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "width":
			width = svgLength(attr.Value)
		case "height":
			height = svgLength(attr.Value)
		case "viewBox":
			fields := strings.FieldsFunc(attr.Value, func(r rune) bool { return r == ' ' || r == ',' })
			if len(fields) == 4 {
				w, errW := strconv.ParseFloat(fields[2], 64)
				h, errH := strconv.ParseFloat(fields[3], 64)
				if errW == nil && errH == nil {
					viewBox = geometry.Size{Width: w, Height: h}
					hasViewBox = true
				}
			}
		}
	}
	switch {
	case width > 0 && height > 0:
		return geometry.Size{Width: width, Height: height}, nil
	case hasViewBox && width > 0 && viewBox.Width > 0:
		return geometry.Size{Width: width, Height: width * viewBox.Height / viewBox.Width}, nil
	case hasViewBox && height > 0 && viewBox.Height > 0:
		return geometry.Size{Width: height * viewBox.Width / viewBox.Height, Height: height}, nil
	case hasViewBox:
		return viewBox, nil
	default:
		return geometry.Size{}, fmt.Errorf("svg declares neither width/height nor viewBox")
	}
}

// svgLength parses an absolute length. Unsupported units yield zero.
func svgLength(v string) float64 {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
