package axtree

import "testing"

// rec builds a VisibleRecord whose raw and visible rects coincide.
func rec(seq int, id string, role Role, name string, r Rect) VisibleRecord {
	return VisibleRecord{
		Seq: seq, ID: id, Role: role, Name: name,
		Raw: r, Visible: r, Area: r.Area(),
	}
}

func TestSelectFilters(t *testing.T) {
	records := []VisibleRecord{
		rec(0, "a", RoleButton, "Submit", Rect{0, 0, 100, 40}),
		rec(1, "b", RoleLabel, "Just text", Rect{0, 50, 100, 90}),    // not interactive
		rec(2, "c", RoleButton, "   ", Rect{0, 100, 100, 140}),       // blank name
		rec(3, "d", RoleLink, "tiny", Rect{0, 150, 4, 154}),          // under min area
		rec(4, "e", RoleCheckbox, "Opt in", Rect{0, 200, 20, 220}),
	}
	inv := rec(5, "f", RoleButton, "Ghost", Rect{0, 250, 100, 290})
	inv.States = []State{StateInvisible}
	soft := rec(6, "g", RoleButton, "Aria hidden", Rect{0, 300, 100, 340})
	soft.States = []State{StateHidden}
	records = append(records, inv, soft)

	got := Select(records, nil)

	wantIDs := []string{"a", "e", "g"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, r := range got {
		if r.ID != wantIDs[i] {
			t.Errorf("candidate %d = %s, want %s", i, r.ID, wantIDs[i])
		}
	}
}

func TestResolvePartialOverlapKept(t *testing.T) {
	// Scenario B: 25% coverage is below the 50% threshold; both survive.
	b1 := rec(0, "b1", RoleButton, "First", Rect{0, 0, 100, 100})
	b2 := rec(1, "b2", RoleButton, "Second", Rect{50, 50, 150, 150})
	records := []VisibleRecord{b1, b2}

	samples := Resolve(records, records, nil)
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
}

func TestResolveMajorityCoverageOccludes(t *testing.T) {
	// Scenario C: 81% coverage with the center inside the later element.
	b1 := rec(0, "b1", RoleButton, "Under", Rect{0, 0, 100, 100})
	b2 := rec(1, "b2", RoleButton, "Over", Rect{10, 10, 110, 110})
	records := []VisibleRecord{b1, b2}

	samples := Resolve(records, records, nil)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].ID != "b2" {
		t.Errorf("survivor = %s, want b2", samples[0].ID)
	}
}

func TestResolveNonOccludingRoleIgnored(t *testing.T) {
	// Scenario D: a label painted over a button never occludes it.
	btn := rec(0, "btn", RoleButton, "Click", Rect{0, 0, 200, 50})
	label := rec(1, "lbl", RoleLabel, "Click", Rect{0, 0, 200, 50})
	records := []VisibleRecord{btn, label}

	samples := Resolve([]VisibleRecord{btn}, records, nil)
	if len(samples) != 1 {
		t.Fatalf("label must not occlude, got %d samples", len(samples))
	}
}

func TestResolveOrderDependent(t *testing.T) {
	// Swapping document order flips which of two overlapping candidates
	// is removed: z-order comes from traversal order alone.
	a := Rect{0, 0, 100, 100}
	b := Rect{5, 5, 105, 105}

	forward := []VisibleRecord{
		rec(0, "a", RoleButton, "A", a),
		rec(1, "b", RoleButton, "B", b),
	}
	samples := Resolve(forward, forward, nil)
	if len(samples) != 1 || samples[0].ID != "b" {
		t.Fatalf("forward order: got %+v, want only b", samples)
	}

	reversed := []VisibleRecord{
		rec(0, "b", RoleButton, "B", b),
		rec(1, "a", RoleButton, "A", a),
	}
	samples = Resolve(reversed, reversed, nil)
	if len(samples) != 1 || samples[0].ID != "a" {
		t.Fatalf("reversed order: got %+v, want only a", samples)
	}
}

func TestResolveScansNonCandidates(t *testing.T) {
	// Occlusion is judged against all later-painted records, not only
	// other candidates: an unnamed image overlay still covers a button.
	btn := rec(0, "btn", RoleButton, "Covered", Rect{0, 0, 100, 100})
	overlay := rec(1, "img", RoleImage, "", Rect{0, 0, 100, 100})
	records := []VisibleRecord{btn, overlay}

	samples := Resolve([]VisibleRecord{btn}, records, nil)
	if len(samples) != 0 {
		t.Fatalf("image overlay must occlude, got %+v", samples)
	}
}

func TestResolveZeroAreaGuard(t *testing.T) {
	degenerate := VisibleRecord{Seq: 0, ID: "z", Role: RoleButton, Name: "Zero"}
	over := rec(1, "o", RoleButton, "Over", Rect{0, 0, 100, 100})
	records := []VisibleRecord{degenerate, over}

	samples := Resolve([]VisibleRecord{degenerate}, records, nil)
	if len(samples) != 1 {
		t.Fatalf("zero-area candidate must be kept, got %d samples", len(samples))
	}
}

func TestSampleShape(t *testing.T) {
	r := rec(3, "node_7", RoleLink, "  Docs  ", Rect{10, 20, 110, 60})
	samples := Resolve([]VisibleRecord{r}, []VisibleRecord{r}, nil)
	if len(samples) != 1 {
		t.Fatal("expected one sample")
	}
	s := samples[0]
	if s.Name != "Docs" {
		t.Errorf("name = %q, want trimmed", s.Name)
	}
	if s.BBox != [4]float64{10, 20, 110, 60} {
		t.Errorf("bbox = %v", s.BBox)
	}
	if s.Point != [2]float64{60, 40} {
		t.Errorf("point = %v", s.Point)
	}
	if s.Category != RoleLink {
		t.Errorf("category = %s", s.Category)
	}
}
