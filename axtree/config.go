package axtree

import "log/slog"

// DefaultMinVisibleArea is the smallest visible area (px²) a node may have
// and still be considered on screen; anything under it is a degenerate
// sliver left over from clipping.
const DefaultMinVisibleArea = 25.0

// DefaultOcclusionRatio is the fraction of a candidate's visible area that
// must be covered by a later-painted element before the candidate is
// considered occluded.
const DefaultOcclusionRatio = 0.5

// Config configures the grounding pipeline. The zero value is usable;
// defaults() fills in the standard vocabulary and thresholds.
type Config struct {
	// MinVisibleArea prunes nodes whose clipped area falls below it.
	MinVisibleArea float64 `json:"min_visible_area" yaml:"min_visible_area"`

	// OcclusionRatio is the coverage fraction above which a candidate
	// under a later-painted element is dropped.
	OcclusionRatio float64 `json:"occlusion_ratio" yaml:"occlusion_ratio"`

	// StatePruning cuts off traversal below hidden/collapsed nodes.
	// Off by default: container states are often stale relative to the
	// true renderability of their children, so geometry alone decides
	// what the walk visits and states only gate leaf candidacy.
	StatePruning bool `json:"state_pruning" yaml:"state_pruning"`

	// InteractiveRoles is the closed set of roles eligible as samples.
	InteractiveRoles map[Role]bool `json:"-" yaml:"-"`

	// NonOccludingRoles are roles assumed not to visually block
	// interaction even when geometrically on top: text, labels, and
	// containers used purely as layout groups.
	NonOccludingRoles map[Role]bool `json:"-" yaml:"-"`

	// Logger for per-snapshot diagnostics.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MinVisibleArea <= 0 {
		c.MinVisibleArea = DefaultMinVisibleArea
	}
	if c.OcclusionRatio <= 0 {
		c.OcclusionRatio = DefaultOcclusionRatio
	}
	if c.InteractiveRoles == nil {
		c.InteractiveRoles = DefaultInteractiveRoles()
	}
	if c.NonOccludingRoles == nil {
		c.NonOccludingRoles = DefaultNonOccludingRoles()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// DefaultInteractiveRoles returns the standard clickable-role set.
func DefaultInteractiveRoles() map[Role]bool {
	return map[Role]bool{
		RoleButton:      true,
		RoleLink:        true,
		RoleTextField:   true,
		RoleTextArea:    true,
		"entry":         true,
		RoleCheckbox:    true,
		RoleRadioButton: true,
		RoleMenuItem:    true,
		RoleTab:         true,
		RoleComboBox:    true,
		RoleListBox:     true,
		RoleSlider:      true,
	}
}

// DefaultNonOccludingRoles returns the roles that never count as covering
// a candidate. Dialogs are deliberately absent: a later-painted modal
// really does block clicks underneath it.
func DefaultNonOccludingRoles() map[Role]bool {
	return map[Role]bool{
		RoleDesktop:   true,
		RoleWindow:    true,
		RolePanel:     true,
		RoleLabel:     true,
		RoleListItem:  true,
		RoleSeparator: true,
	}
}
