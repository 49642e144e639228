package axtree

import "strings"

// Select filters the on-screen records down to click candidates: an
// interactive role, a non-blank name, adequate visible area (re-asserted
// even though the walker guarantees it), and no strict invisibility tag.
//
// A soft hidden tag does not disqualify: frameworks routinely mark
// rendered elements ARIA-hidden, and geometry is trusted over semantics
// here. Input order is preserved.
func Select(records []VisibleRecord, cfg *Config) []VisibleRecord {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()

	var out []VisibleRecord
	for _, r := range records {
		if !c.InteractiveRoles[r.Role] {
			continue
		}
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		if r.Area < c.MinVisibleArea {
			continue
		}
		if hasState(r.States, StateInvisible) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func hasState(states []State, s State) bool {
	for _, t := range states {
		if t == s {
			return true
		}
	}
	return false
}
