package scene

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/errors"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/style"
	"github.com/go-drift/perch/pkg/ui"
)

const yamlScene = `
version: "1.0"
viewport: {width: 800, height: 600}
root:
  style:
    width: 100%
    height: 50%
    padding: [8]
    direction: column
    align: center
  children:
    - type: label
      key: title
      text: hello
      wrap: true
    - style:
        width: 120px
        height: "40"
        margin: [1, 2]
        position: fixed
    - type: logo
      image: logo.png
`

const tomlScene = `
version = "1.0"

[viewport]
width = 800.0
height = 600.0

[root.style]
width = "100%"
height = "50%"
padding = [8.0]
direction = "column"
align = "center"

[[root.children]]
type = "label"
key = "title"
text = "hello"
wrap = true

[[root.children]]
[root.children.style]
width = "120px"
height = "40"
margin = [1.0, 2.0]
position = "fixed"

[[root.children]]
type = "logo"
image = "logo.png"
`

const hclScene = `
version = "1.0"

viewport {
  width  = 800
  height = 600
}

root {
  style {
    width     = "100%"
    height    = "50%"
    padding   = [8]
    direction = "column"
    align     = "center"
  }

  node "label" {
    key  = "title"
    text = "hello"
    wrap = true
  }

  node "box" {
    style {
      width    = "120px"
      height   = 40
      margin   = [1, 2]
      position = "fixed"
    }
  }

  node "logo" {
    image = "logo.png"
  }
}
`

func wantWidget() ui.Widget {
	return ui.Widget{
		Type: "box",
		Style: style.Style{
			Width:      style.Percent(100),
			Height:     style.Percent(50),
			Padding:    geometry.EdgeAll(8),
			Direction:  style.Column,
			AlignItems: style.AlignCenter,
		},
		Children: []ui.Widget{
			{Type: "label", Key: "title", Style: style.Style{}, Content: content.Text{Value: "hello", WordWrap: true}},
			{Type: "box", Style: style.Style{
				Width:    style.Px(120),
				Height:   style.Px(40),
				Margin:   geometry.EdgeSymmetric(1, 2),
				Position: style.PositionFixed,
			}},
			{Type: "logo", Style: style.Style{}, Content: content.Image{Asset: "logo.png"}},
		},
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{YAML, yamlScene},
		{TOML, tomlScene},
		{HCL, hclScene},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			sc, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if want := (geometry.Size{Width: 800, Height: 600}); sc.ViewportSize() != want {
				t.Errorf("viewport = %v, want %v", sc.ViewportSize(), want)
			}
			got, err := sc.Widget()
			if err != nil {
				t.Fatalf("Widget: %v", err)
			}
			if diff := cmp.Diff(wantWidget(), got); diff != "" {
				t.Errorf("widget (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"1", true},
		{"1.0", true},
		{"v1.1.0", true},
		{"1.1.0", true},
		{"1.2", false},
		{"2.0", false},
		{"0.9", false},
		{"", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckVersion(tt.version)
			if tt.ok && err != nil {
				t.Errorf("CheckVersion(%q) = %v, want nil", tt.version, err)
			}
			if !tt.ok && !stderrors.Is(err, ErrUnsupportedVersion) {
				t.Errorf("CheckVersion(%q) = %v, want ErrUnsupportedVersion", tt.version, err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"future version", "version: '3'\nroot: {}", "unsupported scene version"},
		{"bad dimension", "version: '1'\nroot: {children: [{style: {width: wide}}]}", "root.children[0].style: width"},
		{"bad enum", "version: '1'\nroot: {style: {justify: sideways}}", "justify: unknown value"},
		{"bad edges", "version: '1'\nroot: {style: {margin: [1, 2, 3]}}", "margin: want 1, 2 or 4 values"},
		{"two contents", "version: '1'\nroot: {text: a, image: b.png}", "2 kinds of content"},
		{"bad marker", "version: '1'\nroot: {marker: ghost}", "unknown marker"},
		{"bad yaml", "version: [", "failed to parse yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), YAML)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			var perr *errors.PerchError
			if !stderrors.As(err, &perr) || perr.Kind != errors.KindScene {
				t.Errorf("error %v is not a KindScene PerchError", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{"a.yaml": yamlScene, "b.toml": tomlScene, "c.hcl": hclScene} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		sc, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if len(sc.Root.Children) != 3 {
			t.Errorf("%s: %d children, want 3", name, len(sc.Root.Children))
		}
	}

	if _, err := Load(filepath.Join(dir, "scene.json")); err == nil {
		t.Error("expected an error for an unknown extension")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestHCLViewportVariables(t *testing.T) {
	const data = `
version = "1.1"
viewport {
  width  = 800
  height = 600
}
root {
  node "box" {
    style {
      width  = viewport.width / 4
      height = "${viewport.height / 3}px"
    }
  }
}
`
	sc, err := Parse([]byte(data), HCL)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w, err := sc.Widget()
	if err != nil {
		t.Fatal(err)
	}
	got := w.Children[0].Style
	if got.Width != style.Px(200) || got.Height != style.Px(200) {
		t.Errorf("style = %+v, want 200x200 px", got)
	}
}

func TestHCLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `version = `},
		{"missing root", `version = "1.0"`},
		{"unknown attribute", "version = \"1.0\"\nroot {\n  colour = \"red\"\n}\n"},
		{"unlabelled child", "version = \"1.0\"\nroot {\n  node {\n  }\n}\n"},
		{"unknown variable", "version = \"1.0\"\nroot {\n  text = screen.width\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), HCL)
			if err == nil {
				t.Fatal("expected an error")
			}
			var perr *errors.PerchError
			if !stderrors.As(err, &perr) || perr.Kind != errors.KindScene {
				t.Errorf("err = %v, want a scene error", err)
			}
		})
	}
}

func TestSceneRunsThroughRuntime(t *testing.T) {
	sc, err := Parse([]byte(yamlScene), YAML)
	if err != nil {
		t.Fatal(err)
	}
	w, err := sc.Widget()
	if err != nil {
		t.Fatal(err)
	}
	rt := ui.NewRuntime(ui.Options{Viewport: sc.ViewportSize()})
	frame := rt.Tick(w)
	if want := (geometry.Size{Width: 800, Height: 300}); frame.Layout.RootSize != want {
		t.Errorf("RootSize = %v, want %v", frame.Layout.RootSize, want)
	}
	if frame.Created != 3 {
		t.Errorf("Created = %d, want 3", frame.Created)
	}
}
