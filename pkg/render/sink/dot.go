package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxypic/pkg/quadtree"
)

// DefaultDOTNodes caps diagrams produced through [Render]. Graphviz layout
// time grows quickly past a few thousand nodes.
const DefaultDOTNodes = 2000

// DOTOptions configures tree diagram generation.
type DOTOptions struct {
	// Detailed adds the region and shade to each node label.
	Detailed bool
	// MaxNodes caps the number of nodes drawn. A node whose four children
	// would exceed the cap is drawn dashed with its subtree elided. Zero
	// means no limit.
	MaxNodes int
}

var quadrantNames = [4]string{"TL", "TR", "BL", "BR"}

// ToDOT describes the tree as a Graphviz digraph. Nodes are filled with
// their quad color and edges are labeled with the quadrant they lead to.
func ToDOT(tree *quadtree.Tree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph quadtree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=10, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	if tree != nil && tree.Root != nil {
		count := 1
		writeDOTNode(&buf, tree.Root, "n", opts, &count)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeDOTNode emits n and, when they fit under MaxNodes, all four of its
// children. count holds the nodes emitted or reserved so far.
func writeDOTNode(buf *bytes.Buffer, n *quadtree.Node, id string, opts DOTOptions, count *int) {
	expand := !n.IsLeaf() && (opts.MaxNodes <= 0 || *count+4 <= opts.MaxNodes)
	if expand {
		*count += 4
	}

	label := n.Color.Hex()
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s\nshade %d", n.Color.Hex(), n.Rect, n.Shade)
	}
	style := "rounded,filled"
	if !n.IsLeaf() && !expand {
		label += "\n…"
		style += ",dashed"
	}
	fontColor := "black"
	if n.Shade < 128 {
		fontColor = "white"
	}
	fmt.Fprintf(buf, "  %q [label=%q, style=%q, fillcolor=%q, fontcolor=%s];\n", id, label, style, n.Color.Hex(), fontColor)

	if !expand {
		return
	}
	for i, c := range n.Children {
		cid := id + quadrantNames[i]
		writeDOTNode(buf, c, cid, opts, count)
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", id, cid, quadrantNames[i])
	}
}

// RenderTreeSVG renders DOT source to SVG using Graphviz.
func RenderTreeSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
