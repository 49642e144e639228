package axtree

// stateMap translates raw property flag names to canonical state tags.
// busy and modal both collapse into active.
var stateMap = map[string]State{
	"focused":   StateFocused,
	"selected":  StateSelected,
	"checked":   StateChecked,
	"disabled":  StateDisabled,
	"expanded":  StateExpanded,
	"collapsed": StateCollapsed,
	"hidden":    StateHidden,
	"invisible": StateInvisible,
	"editable":  StateEditable,
	"readonly":  StateReadonly,
	"pressed":   StatePressed,
	"busy":      StateActive,
	"modal":     StateActive,
}

// extractStates maps raw property flags to canonical state tags.
//
// Tristate properties (checked, pressed) arrive as the string "true";
// expanded=false means collapsed, not absent. An ignored node always
// carries hidden, whether or not the snapshot said so explicitly.
// The result is never nil.
func extractStates(props []Property, ignored bool) []State {
	states := make([]State, 0, len(props))

	add := func(s State) {
		for _, t := range states {
			if t == s {
				return
			}
		}
		states = append(states, s)
	}

	for _, p := range props {
		tag, known := stateMap[p.Name]
		if !known {
			continue
		}
		switch v := p.Value.(type) {
		case bool:
			if v {
				add(tag)
			} else if p.Name == "expanded" {
				add(StateCollapsed)
			}
		case string:
			if v == "true" {
				add(tag)
			}
		}
	}

	if ignored {
		add(StateHidden)
	}

	return states
}
