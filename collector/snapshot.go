package collector

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/axground/axtree"
)

// Snapshot is the raw accessibility state of a loaded page: the flat node
// list from Chrome plus the visual viewport it was laid out in.
type Snapshot struct {
	Nodes  []axtree.RawNode
	Screen axtree.Bounds
}

// TakeSnapshot reads the full accessibility tree of a page and resolves
// on-screen geometry for every node backed by a DOM element. Nodes whose
// box model cannot be read (detached, display:none) keep nil bounds.
func TakeSnapshot(ctx context.Context, page *rod.Page) (*Snapshot, error) {
	p := page.Context(ctx)

	metrics, err := proto.PageGetLayoutMetrics{}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("collector: layout metrics: %w", err)
	}
	if metrics.CSSVisualViewport == nil {
		return nil, fmt.Errorf("collector: no visual viewport")
	}
	screen := axtree.Bounds{
		Width:  metrics.CSSVisualViewport.ClientWidth,
		Height: metrics.CSSVisualViewport.ClientHeight,
	}

	tree, err := proto.AccessibilityGetFullAXTree{}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("collector: accessibility tree: %w", err)
	}

	boxFor := func(id proto.DOMBackendNodeID) *axtree.Bounds {
		if id == 0 {
			return nil
		}
		box, err := proto.DOMGetBoxModel{BackendNodeID: id}.Call(p)
		if err != nil || box.Model == nil {
			return nil
		}
		b := quadBounds(box.Model.Border)
		return &b
	}

	return &Snapshot{
		Nodes:  convertNodes(tree.Nodes, boxFor),
		Screen: screen,
	}, nil
}

// convertNodes maps Chrome AX nodes onto the pipeline's raw form. boxFor
// resolves the border-box geometry of a backend DOM node; it may return
// nil when geometry is unavailable.
func convertNodes(axNodes []*proto.AccessibilityAXNode, boxFor func(proto.DOMBackendNodeID) *axtree.Bounds) []axtree.RawNode {
	nodes := make([]axtree.RawNode, 0, len(axNodes))
	for _, n := range axNodes {
		if n == nil {
			continue
		}
		raw := axtree.RawNode{
			ID:      string(n.NodeID),
			Role:    axString(n.Role),
			Name:    axString(n.Name),
			Ignored: n.Ignored,
		}
		if boxFor != nil {
			raw.Bounds = boxFor(n.BackendDOMNodeID)
		}
		for _, p := range n.Properties {
			if p == nil || p.Value == nil {
				continue
			}
			raw.Properties = append(raw.Properties, axtree.Property{
				Name:  string(p.Name),
				Value: p.Value.Value.Val(),
			})
		}
		for _, child := range n.ChildIDs {
			raw.ChildIDs = append(raw.ChildIDs, string(child))
		}
		nodes = append(nodes, raw)
	}
	return nodes
}

func axString(v *proto.AccessibilityAXValue) string {
	if v == nil {
		return ""
	}
	return v.Value.Str()
}

// quadBounds collapses a CDP quad (four corner points) to its axis-aligned
// bounding box.
func quadBounds(q proto.DOMQuad) axtree.Bounds {
	if len(q) < 8 {
		return axtree.Bounds{}
	}
	minX, minY := q[0], q[1]
	maxX, maxY := q[0], q[1]
	for i := 2; i+1 < len(q); i += 2 {
		if q[i] < minX {
			minX = q[i]
		}
		if q[i] > maxX {
			maxX = q[i]
		}
		if q[i+1] < minY {
			minY = q[i+1]
		}
		if q[i+1] > maxY {
			maxY = q[i+1]
		}
	}
	return axtree.Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
