package collector

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/hazyhaar/axground/axtree"
)

func axValue(v any) *proto.AccessibilityAXValue {
	return &proto.AccessibilityAXValue{Value: gson.New(v)}
}

func TestConvertNodes(t *testing.T) {
	axNodes := []*proto.AccessibilityAXNode{
		{
			NodeID:           "1",
			Role:             axValue("RootWebArea"),
			Name:             axValue("Example"),
			ChildIDs:         []proto.AccessibilityAXNodeID{"2", "3"},
			BackendDOMNodeID: 10,
		},
		{
			NodeID:           "2",
			Role:             axValue("button"),
			Name:             axValue("Submit"),
			BackendDOMNodeID: 11,
			Properties: []*proto.AccessibilityAXProperty{
				{Name: "focusable", Value: axValue(true)},
				{Name: "disabled", Value: axValue(true)},
			},
		},
		{
			NodeID:  "3",
			Ignored: true,
			Role:    axValue("generic"),
		},
		nil, // tolerated
	}

	boxes := map[proto.DOMBackendNodeID]*axtree.Bounds{
		11: {X: 10, Y: 20, Width: 100, Height: 40},
	}
	boxFor := func(id proto.DOMBackendNodeID) *axtree.Bounds { return boxes[id] }

	nodes := convertNodes(axNodes, boxFor)
	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3", len(nodes))
	}

	root := nodes[0]
	if root.ID != "1" || root.Role != "RootWebArea" || root.Name != "Example" {
		t.Errorf("root = %+v", root)
	}
	if len(root.ChildIDs) != 2 || root.ChildIDs[0] != "2" {
		t.Errorf("root children = %v", root.ChildIDs)
	}
	if root.Bounds != nil {
		t.Errorf("root bounds = %+v, want nil (no box model)", root.Bounds)
	}

	button := nodes[1]
	if button.Bounds == nil || button.Bounds.Width != 100 {
		t.Errorf("button bounds = %+v", button.Bounds)
	}
	if len(button.Properties) != 2 {
		t.Fatalf("button properties = %+v", button.Properties)
	}
	if button.Properties[0].Name != "focusable" {
		t.Errorf("property name = %q", button.Properties[0].Name)
	}
	if v, ok := button.Properties[1].Value.(bool); !ok || !v {
		t.Errorf("disabled value = %#v", button.Properties[1].Value)
	}

	if !nodes[2].Ignored {
		t.Error("ignored flag not carried over")
	}
}

func TestConvertNodesFeedsPipeline(t *testing.T) {
	axNodes := []*proto.AccessibilityAXNode{
		{
			NodeID:           "1",
			Role:             axValue("RootWebArea"),
			ChildIDs:         []proto.AccessibilityAXNodeID{"2"},
			BackendDOMNodeID: 10,
		},
		{
			NodeID:           "2",
			Role:             axValue("button"),
			Name:             axValue("Buy now"),
			BackendDOMNodeID: 11,
		},
	}
	boxes := map[proto.DOMBackendNodeID]*axtree.Bounds{
		10: {Width: 1280, Height: 720},
		11: {X: 40, Y: 40, Width: 200, Height: 60},
	}
	nodes := convertNodes(axNodes, func(id proto.DOMBackendNodeID) *axtree.Bounds { return boxes[id] })

	pipe := axtree.New(axtree.Config{})
	res, err := pipe.Process(nodes, axtree.Bounds{Width: 1280, Height: 720})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Samples) != 1 || res.Samples[0].Name != "Buy now" {
		t.Fatalf("samples = %+v", res.Samples)
	}
}

func TestQuadBounds(t *testing.T) {
	// Clockwise rectangle corners.
	q := proto.DOMQuad{10, 20, 110, 20, 110, 70, 10, 70}
	b := quadBounds(q)
	if b != (axtree.Bounds{X: 10, Y: 20, Width: 100, Height: 50}) {
		t.Errorf("bounds = %+v", b)
	}
}

func TestQuadBoundsShort(t *testing.T) {
	if b := quadBounds(proto.DOMQuad{1, 2}); b != (axtree.Bounds{}) {
		t.Errorf("bounds = %+v, want zero", b)
	}
}
