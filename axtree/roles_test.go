package axtree

import "testing"

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"button", RoleButton},
		{"Button", RoleButton},           // case-insensitive fallback
		{"RootWebArea", RoleWindow},
		{"rootwebarea", RoleWindow},
		{"StaticText", RoleLabel},
		{"GenericContainer", RolePanel},
		{"Switch", RoleCheckbox},
		{"TEXTBOX", RoleTextField},
		{"desktop", RoleDesktop},         // canonical passthrough
		{"taskbar", "taskbar"},           // canonical passthrough, no map entry
		{"Term", RoleLabel},              // exact match beats lowercase "term"
		{"term", RoleListItem},
		{"", RoleUnknown},
	}

	diag := NewDiagnostics()
	for _, tt := range tests {
		if got := normalizeRole(tt.raw, &diag); got != tt.want {
			t.Errorf("normalizeRole(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	if diag.UnmappedTotal() != 0 {
		t.Errorf("expected no unmapped roles, got %v", diag.UnmappedRoles)
	}
}

func TestNormalizeRoleUnmapped(t *testing.T) {
	diag := NewDiagnostics()

	for i := 0; i < 3; i++ {
		if got := normalizeRole("FancyWidget", &diag); got != RoleUnknown {
			t.Fatalf("unmapped role = %q, want unknown", got)
		}
	}
	if got := normalizeRole("AnotherThing", &diag); got != RoleUnknown {
		t.Fatalf("unmapped role = %q, want unknown", got)
	}

	if diag.UnmappedRoles["FancyWidget"] != 3 {
		t.Errorf("FancyWidget count = %d, want 3", diag.UnmappedRoles["FancyWidget"])
	}
	if diag.UnmappedTotal() != 4 {
		t.Errorf("total = %d, want 4", diag.UnmappedTotal())
	}
}

func TestNormalizeRoleNilDiag(t *testing.T) {
	// Diagnostics are advisory; a nil accumulator must not panic.
	if got := normalizeRole("NoSuchRole", nil); got != RoleUnknown {
		t.Fatalf("got %q, want unknown", got)
	}
}

func TestCanonicalRolesSorted(t *testing.T) {
	roles := CanonicalRoles()
	if len(roles) < 10 {
		t.Fatalf("suspiciously small vocabulary: %d roles", len(roles))
	}
	for i := 1; i < len(roles); i++ {
		if roles[i-1] >= roles[i] {
			t.Fatalf("vocabulary not sorted: %q before %q", roles[i-1], roles[i])
		}
	}
}
