package quadtree

// Node is one block of the decomposition.
type Node struct {
	Quad
	Depth int
	// Children is nil for a leaf. Internal nodes own exactly four children in
	// top-left, top-right, bottom-left, bottom-right order.
	Children *[4]*Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Children == nil }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) || n.Children == nil {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Tree is the result of Build.
type Tree struct {
	Root   *Node
	Params Params
	Bounds Rect
	nodes  int
}

// Stats summarises a tree's shape.
type Stats struct {
	Nodes  int `json:"nodes"`
	Leaves int `json:"leaves"`
	// Depth is the deepest level reached by any leaf.
	Depth int `json:"depth"`
	// LeavesByDepth[d] counts leaves at depth d.
	LeavesByDepth []int `json:"leaves_by_depth"`
}

// Walk visits every node in pre-order.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t == nil {
		return
	}
	t.Root.Walk(fn)
}

// Leaves returns the quads of all leaves in depth-first quadrant order.
func (t *Tree) Leaves() []Quad {
	var out []Quad
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n.Quad)
		}
		return true
	})
	return out
}

// Stats counts nodes and leaves.
func (t *Tree) Stats() Stats {
	s := Stats{LeavesByDepth: make([]int, t.Params.MaxDepth+1)}
	t.Walk(func(n *Node) bool {
		s.Nodes++
		if n.IsLeaf() {
			s.Leaves++
			s.LeavesByDepth[n.Depth]++
			s.Depth = max(s.Depth, n.Depth)
		}
		return true
	})
	return s
}

// NodeCount returns the number of nodes allocated by Build.
func (t *Tree) NodeCount() int { return t.nodes }

// Leaf returns the leaf covering p, or nil when p lies outside the tree.
func (t *Tree) Leaf(p Point) *Node {
	if t == nil || t.Root == nil || !t.Bounds.Contains(p) {
		return nil
	}
	n := t.Root
	for !n.IsLeaf() {
		m := n.Rect.Mid()
		i := 0
		if p.X >= m.X {
			i |= 1
		}
		if p.Y >= m.Y {
			i |= 2
		}
		n = n.Children[i]
	}
	return n
}

// Destroy tears the tree down depth-first, detaching every subtree from its
// parent. The tree must not be used afterwards.
func (t *Tree) Destroy() {
	if t == nil {
		return
	}
	destroy(t.Root)
	t.Root = nil
	t.nodes = 0
}

func destroy(n *Node) {
	if n == nil || n.Children == nil {
		return
	}
	for i, c := range n.Children {
		destroy(c)
		n.Children[i] = nil
	}
	n.Children = nil
}
