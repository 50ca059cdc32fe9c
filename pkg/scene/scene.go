// Package scene reads declared UI trees from YAML, TOML, or HCL files.
//
// A scene is a static Widget tree plus the viewport it is laid out in:
//
//	version: "1.1"
//	viewport: {width: 800, height: 600}
//	root:
//	  style: {width: 100%, height: 100%, padding: [8]}
//	  children:
//	    - type: label
//	      text: hello
//	      wrap: true
package scene

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/perch/pkg/errors"
)

// SchemaVersion is the newest scene schema this package reads. Scenes with a
// lower version of the same major are accepted.
const SchemaVersion = "v1.1.0"

// Format selects the scene file syntax.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	HCL  Format = "hcl"
)

// ErrUnsupportedVersion is wrapped by errors for scenes newer than
// SchemaVersion or from another major version.
var ErrUnsupportedVersion = stderrors.New("unsupported scene version")

// Scene is the root of a scene file.
type Scene struct {
	Version  string   `yaml:"version" toml:"version"`
	Viewport Viewport `yaml:"viewport" toml:"viewport"`
	Root     Node     `yaml:"root" toml:"root"`
}

// Viewport is the space percentage sizes of the root resolve against.
type Viewport struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// Node is one declared widget.
type Node struct {
	Type     string  `yaml:"type,omitempty" toml:"type,omitempty"`
	Key      string  `yaml:"key,omitempty" toml:"key,omitempty"`
	Style    Style   `yaml:"style,omitempty" toml:"style,omitempty"`
	Marker   string  `yaml:"marker,omitempty" toml:"marker,omitempty"`
	Text     string  `yaml:"text,omitempty" toml:"text,omitempty"`
	Wrap     bool    `yaml:"wrap,omitempty" toml:"wrap,omitempty"`
	FontSize float64 `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	Image    string  `yaml:"image,omitempty" toml:"image,omitempty"`
	Vector   string  `yaml:"vector,omitempty" toml:"vector,omitempty"`
	Quad     bool    `yaml:"quad,omitempty" toml:"quad,omitempty"`
	Custom   string  `yaml:"custom,omitempty" toml:"custom,omitempty"`
	Children []Node  `yaml:"children,omitempty" toml:"children,omitempty"`
}

// Style mirrors style.Style with string dimensions ("auto", "120", "120px",
// "50%") and named enums. Edge lists take one, two or four values in CSS
// order.
type Style struct {
	Position  string    `yaml:"position,omitempty" toml:"position,omitempty"`
	Width     string    `yaml:"width,omitempty" toml:"width,omitempty"`
	Height    string    `yaml:"height,omitempty" toml:"height,omitempty"`
	MinWidth  string    `yaml:"min_width,omitempty" toml:"min_width,omitempty"`
	MinHeight string    `yaml:"min_height,omitempty" toml:"min_height,omitempty"`
	MaxWidth  string    `yaml:"max_width,omitempty" toml:"max_width,omitempty"`
	MaxHeight string    `yaml:"max_height,omitempty" toml:"max_height,omitempty"`
	Margin    []float64 `yaml:"margin,omitempty" toml:"margin,omitempty"`
	Padding   []float64 `yaml:"padding,omitempty" toml:"padding,omitempty"`
	Border    []float64 `yaml:"border,omitempty" toml:"border,omitempty"`
	Direction string    `yaml:"direction,omitempty" toml:"direction,omitempty"`
	Wrap      bool      `yaml:"wrap,omitempty" toml:"wrap,omitempty"`
	Justify   string    `yaml:"justify,omitempty" toml:"justify,omitempty"`
	Align     string    `yaml:"align,omitempty" toml:"align,omitempty"`
	Gap       float64   `yaml:"gap,omitempty" toml:"gap,omitempty"`
	Grow      float64   `yaml:"grow,omitempty" toml:"grow,omitempty"`
	Shrink    float64   `yaml:"shrink,omitempty" toml:"shrink,omitempty"`
	Overflow  string    `yaml:"overflow,omitempty" toml:"overflow,omitempty"`
	Scrollbar float64   `yaml:"scrollbar,omitempty" toml:"scrollbar,omitempty"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".hcl":
		return HCL, nil
	default:
		return "", fmt.Errorf("unknown scene extension %q", filepath.Ext(path))
	}
}

// Load reads and validates the scene at path.
func Load(path string) (*Scene, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, sceneError("scene.Load", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sceneError("scene.Load", fmt.Errorf("failed to read scene: %w", err))
	}
	return parse(data, format, filepath.Base(path))
}

// Parse decodes and validates a scene.
func Parse(data []byte, format Format) (*Scene, error) {
	return parse(data, format, "scene."+string(format))
}

func parse(data []byte, format Format, filename string) (*Scene, error) {
	var sc Scene
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, sceneError("scene.Parse", fmt.Errorf("failed to parse yaml: %w", err))
		}
	case TOML:
		if _, err := toml.Decode(string(data), &sc); err != nil {
			return nil, sceneError("scene.Parse", fmt.Errorf("failed to parse toml: %w", err))
		}
	case HCL:
		decoded, err := parseHCL(data, filename)
		if err != nil {
			return nil, sceneError("scene.Parse", fmt.Errorf("failed to parse hcl: %w", err))
		}
		sc = decoded
	default:
		return nil, sceneError("scene.Parse", fmt.Errorf("unknown scene format %q", format))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the schema version and every node's style.
func (sc *Scene) Validate() error {
	if err := CheckVersion(sc.Version); err != nil {
		return sceneError("scene.Validate", err)
	}
	if _, err := sc.Widget(); err != nil {
		return sceneError("scene.Validate", err)
	}
	return nil
}

// CheckVersion accepts versions like "1", "1.1" or "v1.1.0" that share
// SchemaVersion's major and are not newer than it.
func CheckVersion(version string) error {
	v := strings.TrimSpace(version)
	if v == "" {
		return fmt.Errorf("missing version: %w", ErrUnsupportedVersion)
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid version %q: %w", version, ErrUnsupportedVersion)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) || semver.Compare(v, SchemaVersion) > 0 {
		return fmt.Errorf("version %s is not readable by schema %s: %w", semver.Canonical(v), SchemaVersion, ErrUnsupportedVersion)
	}
	return nil
}

func sceneError(op string, err error) error {
	var perr *errors.PerchError
	if stderrors.As(err, &perr) {
		return err
	}
	return &errors.PerchError{Op: op, Kind: errors.KindScene, Err: err}
}
