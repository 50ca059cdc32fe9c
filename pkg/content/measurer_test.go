package content

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/go-drift/perch/pkg/errors"
	"github.com/go-drift/perch/pkg/geometry"
)

type countingHandler struct {
	errors.LogHandler
	reported []*errors.PerchError
}

func (h *countingHandler) HandleError(err *errors.PerchError) {
	h.reported = append(h.reported, err)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestMeasurer_Image(t *testing.T) {
	assets := fstest.MapFS{"logo.png": {Data: encodePNG(t, 40, 20)}}
	m := NewMeasurer(assets, nil)

	got, ok := m.Measure(Image{Asset: "logo.png"}, geometry.Size{})
	if !ok {
		t.Fatal("expected measurement for loaded image")
	}
	if size := got.Measure(Known{}, geometry.Size{}); size != (geometry.Size{Width: 40, Height: 20}) {
		t.Errorf("native size = %+v", size)
	}
	if size := got.Measure(Known{Width: 80, HasWidth: true}, geometry.Size{}); size != (geometry.Size{Width: 80, Height: 40}) {
		t.Errorf("aspect-scaled size = %+v", size)
	}
}

func TestMeasurer_CacheReset(t *testing.T) {
	assets := fstest.MapFS{"logo.png": {Data: encodePNG(t, 40, 20)}}
	m := NewMeasurer(assets, nil)
	size := func() geometry.Size {
		got, ok := m.Measure(Image{Asset: "logo.png"}, geometry.Size{})
		if !ok {
			t.Fatal("expected measurement")
		}
		return got.Measure(Known{}, geometry.Size{})
	}

	size()
	assets["logo.png"] = &fstest.MapFile{Data: encodePNG(t, 10, 10)}
	if got := size(); got.Width != 40 {
		t.Errorf("cached size = %+v, want the first decode", got)
	}
	m.Cache().Reset()
	if got := size(); got != (geometry.Size{Width: 10, Height: 10}) {
		t.Errorf("size after Reset = %+v, want 10x10", got)
	}
}

func TestMeasurer_Vector(t *testing.T) {
	assets := fstest.MapFS{
		"icon.svg": {Data: []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 12"></svg>`)},
	}
	m := NewMeasurer(assets, nil)
	got, ok := m.Measure(Vector{Asset: "icon.svg"}, geometry.Size{})
	if !ok {
		t.Fatal("expected measurement for svg")
	}
	if size := got.Measure(Known{}, geometry.Size{}); size != (geometry.Size{Width: 24, Height: 12}) {
		t.Errorf("size = %+v", size)
	}
}

func TestMeasurer_MissingAssetIsSilent(t *testing.T) {
	h := &countingHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	m := NewMeasurer(fstest.MapFS{}, nil)
	if _, ok := m.Measure(Image{Asset: "later.png"}, geometry.Size{}); ok {
		t.Error("missing asset should have no measurement")
	}
	if len(h.reported) != 0 {
		t.Errorf("missing asset should not be reported, got %d", len(h.reported))
	}
	if m.Cache().Len() != 0 {
		t.Error("missing asset should not be cached")
	}
}

func TestMeasurer_BrokenAssetReportedOnce(t *testing.T) {
	h := &countingHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	m := NewMeasurer(fstest.MapFS{"bad.png": {Data: []byte("not an image")}}, nil)
	for range 3 {
		if _, ok := m.Measure(Image{Asset: "bad.png"}, geometry.Size{}); ok {
			t.Fatal("broken asset should have no measurement")
		}
	}
	if len(h.reported) != 1 {
		t.Fatalf("reported %d times, want 1", len(h.reported))
	}
	if h.reported[0].Kind != errors.KindMeasure {
		t.Errorf("Kind = %v, want measure", h.reported[0].Kind)
	}
}

func TestMeasurer_NoIntrinsicSize(t *testing.T) {
	m := NewMeasurer(nil, nil)
	for _, c := range []Content{None{}, Quad{}, Custom{Name: "chart"}, nil, Image{Asset: "x.png"}} {
		if _, ok := m.Measure(c, geometry.Size{}); ok {
			t.Errorf("%v: expected no measurement", KindOf(c))
		}
	}
}

func TestMeasurer_TextUsesContainerWidth(t *testing.T) {
	m := NewMeasurer(nil, nil)
	got, ok := m.Measure(Text{Value: "hello world", WordWrap: true}, geometry.Size{Width: 50, Height: 10})
	if !ok {
		t.Fatal("expected text measurement")
	}
	if size := got.Measure(Known{}, geometry.Size{}); size != (geometry.Size{Width: 35, Height: 26}) {
		t.Errorf("size = %+v", size)
	}
}

func TestVectorSize(t *testing.T) {
	tests := []struct {
		name    string
		svg     string
		want    geometry.Size
		wantErr bool
	}{
		{"explicit", `<svg width="100px" height="50"/>`, geometry.Size{Width: 100, Height: 50}, false},
		{"width and viewBox", `<svg width="48" viewBox="0,0,24,12"/>`, geometry.Size{Width: 48, Height: 24}, false},
		{"height and viewBox", `<svg height="24" viewBox="0 0 24 12"/>`, geometry.Size{Width: 48, Height: 24}, false},
		{"percent falls back to viewBox", `<svg width="100%" height="100%" viewBox="0 0 10 20"/>`, geometry.Size{Width: 10, Height: 20}, false},
		{"no size", `<svg/>`, geometry.Size{}, true},
		{"not svg", `<html/>`, geometry.Size{}, true},
		{"empty", ``, geometry.Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VectorSize([]byte(tt.svg))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VectorSize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFixedMeasure_KnownWins(t *testing.T) {
	m := FixedMeasure{Size: geometry.Size{Width: 10, Height: 10}}
	got := m.Measure(Known{Height: 3, HasHeight: true}, geometry.Size{})
	if got != (geometry.Size{Width: 10, Height: 3}) {
		t.Errorf("Measure() = %+v", got)
	}
}
