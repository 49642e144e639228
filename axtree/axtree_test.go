package axtree

import (
	"encoding/json"
	"reflect"
	"testing"
)

func snapshotNodes() []RawNode {
	return []RawNode{
		{ID: "1", Role: "RootWebArea", Name: "Shop", Bounds: bounds(0, 0, 1920, 1080),
			ChildIDs: []string{"2", "3", "4", "5"}},
		{ID: "2", Role: "button", Name: "Add to cart", Bounds: bounds(100, 100, 200, 50)},
		{ID: "3", Role: "link", Name: "Help", Bounds: bounds(2000, 10, 10, 10)},
		{ID: "4", Role: "generic", Ignored: true, ChildIDs: []string{"6"}},
		{ID: "5", Role: "StaticText", Name: "Welcome", Bounds: bounds(0, 0, 300, 30)},
		{ID: "6", Role: "checkbox", Name: "Gift wrap", Bounds: bounds(100, 200, 150, 30),
			Properties: []Property{{"checked", "true"}}},
	}
}

func TestProcessEndToEnd(t *testing.T) {
	pipe := New(Config{})
	res, err := pipe.Process(snapshotNodes(), Bounds{Width: 1920, Height: 1080})
	if err != nil {
		t.Fatal(err)
	}

	// The off-screen link is pruned, the ignored container is spliced,
	// the static text is not interactive.
	if len(res.Samples) != 2 {
		t.Fatalf("got %d samples, want 2: %+v", len(res.Samples), res.Samples)
	}
	if res.Samples[0].Category != RoleButton || res.Samples[0].Name != "Add to cart" {
		t.Errorf("sample 0 = %+v", res.Samples[0])
	}
	if res.Samples[1].Category != RoleCheckbox || res.Samples[1].Name != "Gift wrap" {
		t.Errorf("sample 1 = %+v", res.Samples[1])
	}

	// Sample bboxes are visible rectangles from the walk, never raw ones.
	for _, s := range res.Samples {
		found := false
		for _, r := range res.Records {
			if r.ID == s.ID && s.BBox == [4]float64{r.Visible.X1, r.Visible.Y1, r.Visible.X2, r.Visible.Y2} {
				found = true
			}
		}
		if !found {
			t.Errorf("sample %s bbox %v matches no visible rect", s.ID, s.BBox)
		}
	}
}

func TestProcessIdempotent(t *testing.T) {
	pipe := New(Config{})
	screen := Bounds{Width: 1920, Height: 1080}

	first, err := pipe.Process(snapshotNodes(), screen)
	if err != nil {
		t.Fatal(err)
	}
	second, err := pipe.Process(snapshotNodes(), screen)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first.Samples)
	b, _ := json.Marshal(second.Samples)
	if string(a) != string(b) {
		t.Fatalf("pipeline is not idempotent:\n%s\n%s", a, b)
	}
	if !reflect.DeepEqual(first.Diagnostics.UnmappedRoles, second.Diagnostics.UnmappedRoles) {
		t.Fatal("diagnostics differ between runs")
	}
}

func TestProcessEmptyInput(t *testing.T) {
	pipe := New(Config{})
	res, err := pipe.Process(nil, Bounds{Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Samples) != 0 {
		t.Fatalf("empty snapshot produced %d samples", len(res.Samples))
	}
}

func TestProcessInvalidScreen(t *testing.T) {
	pipe := New(Config{})
	if _, err := pipe.Process(snapshotNodes(), Bounds{}); err == nil {
		t.Fatal("expected error for zero screen bounds")
	}
}

func TestGroundNestedTree(t *testing.T) {
	// Callers holding the nested form skip Build and still get the same
	// visibility and occlusion semantics.
	root := node("node_0", RoleDesktop, "", Bounds{Width: 800, Height: 600},
		node("node_1", RoleButton, "Nested", Bounds{X: 10, Y: 10, Width: 80, Height: 30}),
	)
	pipe := New(Config{})
	res, err := pipe.Ground(root, Bounds{Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Samples) != 1 || res.Samples[0].Name != "Nested" {
		t.Fatalf("got %+v", res.Samples)
	}
}

func TestGroundNilRoot(t *testing.T) {
	pipe := New(Config{})
	res, err := pipe.Ground(nil, Bounds{Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Samples) != 0 {
		t.Fatal("nil root must yield zero samples")
	}
}
