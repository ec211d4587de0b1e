package sink

import (
	"github.com/segmentio/encoding/json"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/quadtree"
)

type jsonOutput struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Threshold float64        `json:"threshold"`
	MaxDepth  int            `json:"max_depth"`
	Greyscale bool           `json:"greyscale,omitempty"`
	Stats     quadtree.Stats `json:"stats"`
	Root      *jsonNode      `json:"root"`
}

type jsonNode struct {
	Rect     [4]int      `json:"rect"` // x0, y0, x1, y1
	Color    string      `json:"color"`
	Shade    int         `json:"shade"`
	Depth    int         `json:"depth"`
	Children []*jsonNode `json:"children,omitempty"`
}

// RenderJSON exports the tree as a pretty-printed nested JSON document.
// Leaf colors follow the greyscale render option; fill, outline, and grid
// settings do not apply.
func RenderJSON(tree *quadtree.Tree, opts ...Option) ([]byte, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: empty tree")
	}
	c := newConfig(opts)
	out := jsonOutput{
		Width:     tree.Bounds.Dx(),
		Height:    tree.Bounds.Dy(),
		Threshold: tree.Params.Threshold,
		MaxDepth:  tree.Params.MaxDepth,
		Greyscale: c.render.Greyscale,
		Stats:     tree.Stats(),
		Root:      toJSONNode(tree.Root, c.render.Greyscale),
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONNode(n *quadtree.Node, grey bool) *jsonNode {
	col := n.Color
	if grey {
		col = n.Grey
	}
	jn := &jsonNode{
		Rect:  [4]int{n.Rect.Min.X, n.Rect.Min.Y, n.Rect.Max.X, n.Rect.Max.Y},
		Color: col.Hex(),
		Shade: n.Shade,
		Depth: n.Depth,
	}
	if n.Children != nil {
		jn.Children = make([]*jsonNode, 0, 4)
		for _, ch := range n.Children {
			jn.Children = append(jn.Children, toJSONNode(ch, grey))
		}
	}
	return jn
}
