package scene

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// HCL scenes use blocks instead of nested maps. Children are "node" blocks
// labelled with their widget type, and expressions may read the viewport:
//
//	version = "1.1"
//	viewport {
//	  width  = 800
//	  height = 600
//	}
//	root {
//	  style {
//	    width   = viewport.width / 2
//	    padding = [8]
//	  }
//	  node "label" {
//	    key  = "title"
//	    text = "hello"
//	  }
//	}

type hclFile struct {
	Version  string       `hcl:"version"`
	Viewport *hclViewport `hcl:"viewport,block"`
	Root     hclBlock     `hcl:"root,block"`
}

type hclViewport struct {
	Width  float64 `hcl:"width"`
	Height float64 `hcl:"height"`
}

// hclBlock defers decoding of a node body until the evaluation context is
// known.
type hclBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type hclChild struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclNode struct {
	Key      string     `hcl:"key,optional"`
	Marker   string     `hcl:"marker,optional"`
	Text     string     `hcl:"text,optional"`
	Wrap     bool       `hcl:"wrap,optional"`
	FontSize float64    `hcl:"font_size,optional"`
	Image    string     `hcl:"image,optional"`
	Vector   string     `hcl:"vector,optional"`
	Quad     bool       `hcl:"quad,optional"`
	Custom   string     `hcl:"custom,optional"`
	Style    *hclStyle  `hcl:"style,block"`
	Children []hclChild `hcl:"node,block"`
}

type hclStyle struct {
	Position  string    `hcl:"position,optional"`
	Width     string    `hcl:"width,optional"`
	Height    string    `hcl:"height,optional"`
	MinWidth  string    `hcl:"min_width,optional"`
	MinHeight string    `hcl:"min_height,optional"`
	MaxWidth  string    `hcl:"max_width,optional"`
	MaxHeight string    `hcl:"max_height,optional"`
	Margin    []float64 `hcl:"margin,optional"`
	Padding   []float64 `hcl:"padding,optional"`
	Border    []float64 `hcl:"border,optional"`
	Direction string    `hcl:"direction,optional"`
	Wrap      bool      `hcl:"wrap,optional"`
	Justify   string    `hcl:"justify,optional"`
	Align     string    `hcl:"align,optional"`
	Gap       float64   `hcl:"gap,optional"`
	Grow      float64   `hcl:"grow,optional"`
	Shrink    float64   `hcl:"shrink,optional"`
	Overflow  string    `hcl:"overflow,optional"`
	Scrollbar float64   `hcl:"scrollbar,optional"`
}

// parseHCL decodes the header first, then the node tree with the viewport
// in scope.
func parseHCL(data []byte, filename string) (Scene, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return Scene{}, diags
	}
	var doc hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return Scene{}, diags
	}

	sc := Scene{Version: doc.Version}
	if doc.Viewport != nil {
		sc.Viewport = Viewport(*doc.Viewport)
	}
	ctx := &hcl.EvalContext{Variables: map[string]cty.Value{
		"viewport": cty.ObjectVal(map[string]cty.Value{
			"width":  cty.NumberFloatVal(sc.Viewport.Width),
			"height": cty.NumberFloatVal(sc.Viewport.Height),
		}),
	}}
	root, err := decodeHCLNode(doc.Root.Body, "", ctx)
	if err != nil {
		return Scene{}, err
	}
	sc.Root = root
	return sc, nil
}

func decodeHCLNode(body hcl.Body, typeName string, ctx *hcl.EvalContext) (Node, error) {
	var n hclNode
	if diags := gohcl.DecodeBody(body, ctx, &n); diags.HasErrors() {
		return Node{}, diags
	}
	out := Node{
		Type:     typeName,
		Key:      n.Key,
		Marker:   n.Marker,
		Text:     n.Text,
		Wrap:     n.Wrap,
		FontSize: n.FontSize,
		Image:    n.Image,
		Vector:   n.Vector,
		Quad:     n.Quad,
		Custom:   n.Custom,
	}
	if n.Style != nil {
		out.Style = Style(*n.Style)
	}
	for _, c := range n.Children {
		child, err := decodeHCLNode(c.Body, c.Type, ctx)
		if err != nil {
			return Node{}, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}
