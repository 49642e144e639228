package axtree

import "fmt"

// Build reconstructs a canonical element tree from the flat, id-referenced
// node list of an accessibility snapshot.
//
// The root is the unique node that appears in nobody's child list; a
// malformed snapshot without one falls back to the first node. The
// converted tree is wrapped in a synthetic desktop root (node_0) sized to
// the screen, so callers always receive a single root. Output node ids
// are fresh and sequential in pre-order; the snapshot's own ids are not
// stable across captures and never leak into the result.
//
// Ignored nodes are spliced out: their children are reattached to the
// ignored node's parent at its former position, recursively, preserving
// relative order. Dangling child references are dropped, and a visited set
// guards against duplicate-parent input, so malformed snapshots degrade
// to a smaller tree instead of failing.
//
// Empty input returns nil.
func Build(nodes []RawNode, screen Bounds, diag *Diagnostics) *Node {
	if len(nodes) == 0 {
		return nil
	}

	byID := make(map[string]*RawNode, len(nodes))
	for i := range nodes {
		if nodes[i].ID != "" {
			byID[nodes[i].ID] = &nodes[i]
		}
	}

	isChild := make(map[string]bool)
	for i := range nodes {
		for _, id := range nodes[i].ChildIDs {
			isChild[id] = true
		}
	}

	root := &nodes[0]
	for i := range nodes {
		if nodes[i].ID != "" && !isChild[nodes[i].ID] {
			root = &nodes[i]
			break
		}
	}

	b := &treeBuilder{
		byID:    byID,
		diag:    diag,
		visited: make(map[string]bool, len(nodes)),
		next:    1,
	}

	desktop := &Node{
		ID:     "node_0",
		Role:   RoleDesktop,
		Bounds: screen,
	}
	if root.Ignored {
		// Even the root can be ignored; splice its children straight
		// under the desktop wrapper.
		b.visited[root.ID] = true
		desktop.Children = b.convertChildren(root.ChildIDs)
	} else if n := b.convert(root); n != nil {
		desktop.Children = []*Node{n}
	}
	return desktop
}

type treeBuilder struct {
	byID    map[string]*RawNode
	diag    *Diagnostics
	visited map[string]bool
	next    int
}

func (b *treeBuilder) convert(raw *RawNode) *Node {
	if b.visited[raw.ID] {
		return nil
	}
	b.visited[raw.ID] = true

	n := &Node{
		ID:     fmt.Sprintf("node_%d", b.next),
		Role:   normalizeRole(raw.Role, b.diag),
		Name:   raw.Name,
		States: extractStates(raw.Properties, raw.Ignored),
	}
	b.next++

	if raw.Bounds != nil {
		n.Bounds = *raw.Bounds
	}
	if len(n.States) == 0 {
		n.States = nil
	}

	n.Children = b.convertChildren(raw.ChildIDs)
	return n
}

// convertChildren resolves a child-id list, splicing out ignored nodes by
// hoisting their children into the current position. The splice recurses:
// an ignored child of an ignored node hoists two levels.
func (b *treeBuilder) convertChildren(ids []string) []*Node {
	var out []*Node
	for _, id := range ids {
		child, ok := b.byID[id]
		if !ok {
			continue // unresolvable reference
		}
		if child.Ignored {
			if b.visited[child.ID] {
				continue
			}
			b.visited[child.ID] = true
			out = append(out, b.convertChildren(child.ChildIDs)...)
			continue
		}
		if n := b.convert(child); n != nil {
			out = append(out, n)
		}
	}
	return out
}
