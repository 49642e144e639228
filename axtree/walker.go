package axtree

// Walk traverses the tree depth-first in pre-order, carrying the clip
// rectangle inherited from ancestors, and returns every node that ends up
// with real screen presence.
//
// At each node the clip shrinks: a child's visible rectangle is its own
// bounds intersected with the parent's visible rectangle, never the
// original screen. Because clipping is monotonically non-increasing down
// the tree, a node that is fully clipped (or whose remaining area is below
// cfg.MinVisibleArea) prunes its whole subtree. Nodes with non-positive
// raw width or height are rejected the same way.
//
// Record order is the traversal order, which downstream stages read as
// back-to-front paint order.
func Walk(root *Node, screen Rect, cfg *Config) []VisibleRecord {
	if root == nil {
		return nil
	}
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()

	var out []VisibleRecord
	walkNode(root, screen, &c, &out)
	return out
}

func walkNode(n *Node, clip Rect, cfg *Config, out *[]VisibleRecord) {
	if n.Bounds.Width <= 0 || n.Bounds.Height <= 0 {
		return
	}

	raw := RectOf(n.Bounds)
	visible, ok := raw.Intersect(clip)
	if !ok || visible.Area() < cfg.MinVisibleArea {
		return
	}

	// Optional state-based pruning. The default policy is geometry-first:
	// a collapsed container is still traversed because its children may
	// render regardless of what the container's state claims.
	if cfg.StatePruning && (n.HasState(StateHidden) || n.HasState(StateCollapsed)) {
		return
	}

	*out = append(*out, VisibleRecord{
		Seq:     len(*out),
		ID:      n.ID,
		Role:    n.Role,
		Name:    n.Name,
		States:  n.States,
		Raw:     raw,
		Visible: visible,
		Area:    visible.Area(),
	})

	for _, child := range n.Children {
		walkNode(child, visible, cfg, out)
	}
}
