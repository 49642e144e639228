package axtree

// Role is a canonical UI element category, independent of the source
// browser's accessibility vocabulary.
type Role string

// Canonical roles referenced by code. The full vocabulary lives in roles.go.
const (
	RoleUnknown     Role = "unknown"
	RoleDesktop     Role = "desktop"
	RoleWindow      Role = "window"
	RolePanel       Role = "panel"
	RoleLabel       Role = "label"
	RoleButton      Role = "button"
	RoleLink        Role = "link"
	RoleTextField   Role = "textfield"
	RoleTextArea    Role = "textarea"
	RoleCheckbox    Role = "checkbox"
	RoleRadioButton Role = "radiobutton"
	RoleMenuItem    Role = "menuitem"
	RoleTab         Role = "tab"
	RoleComboBox    Role = "combobox"
	RoleListBox     Role = "listbox"
	RoleListItem    Role = "listitem"
	RoleSlider      Role = "slider"
	RoleImage       Role = "image"
	RoleSeparator   Role = "separator"
)

// State is a canonical state tag attached to a node.
type State string

const (
	StateFocused   State = "focused"
	StateSelected  State = "selected"
	StateChecked   State = "checked"
	StateDisabled  State = "disabled"
	StateExpanded  State = "expanded"
	StateCollapsed State = "collapsed"
	StateHidden    State = "hidden"
	StateInvisible State = "invisible"
	StateEditable  State = "editable"
	StateReadonly  State = "readonly"
	StatePressed   State = "pressed"
	StateActive    State = "active"
)

// Bounds is a raw bounding rectangle in screen-space pixels, as reported
// by the accessibility snapshot.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Property is a raw state/property flag from the snapshot, e.g.
// {expanded, false} or {checked, "true"}.
type Property struct {
	Name  string
	Value any
}

// RawNode is one entry of the flat node list produced by the browser
// debugging protocol. Owned by the caller; Build never mutates it.
//
// Bounds is nil when the snapshot carried no geometry for the node; such
// nodes contribute zero area and are treated as not visible rather than
// failing the build.
type RawNode struct {
	ID         string
	Role       string
	Name       string
	Bounds     *Bounds
	Ignored    bool
	Properties []Property
	ChildIDs   []string
}

// Node is a node of the canonical element tree. Children are held in
// snapshot order, which downstream stages interpret as back-to-front
// paint order.
type Node struct {
	ID       string  `json:"id"`
	Role     Role    `json:"role"`
	Name     string  `json:"name"`
	Bounds   Bounds  `json:"bounds"`
	States   []State `json:"states,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// HasState reports whether s is among the node's state tags.
func (n *Node) HasState(s State) bool {
	for _, t := range n.States {
		if t == s {
			return true
		}
	}
	return false
}

// Rect is an axis-aligned rectangle in [x1,y1,x2,y2] form. Used for clip
// propagation and visible-area math; never mutated in place.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// RectOf converts width/height bounds to corner form.
func RectOf(b Bounds) Rect {
	return Rect{b.X, b.Y, b.X + b.Width, b.Y + b.Height}
}

// Intersect returns the overlap of r and o. ok is false when the two do
// not overlap with positive area.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	out := Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
	if out.X1 >= out.X2 || out.Y1 >= out.Y2 {
		return Rect{}, false
	}
	return out, true
}

// Area returns the rectangle area, 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.X2 <= r.X1 || r.Y2 <= r.Y1 {
		return 0
	}
	return (r.X2 - r.X1) * (r.Y2 - r.Y1)
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// Center returns the rectangle midpoint.
func (r Rect) Center() (float64, float64) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Within reports whether r lies entirely inside o.
func (r Rect) Within(o Rect) bool {
	return r.X1 >= o.X1 && r.Y1 >= o.Y1 && r.X2 <= o.X2 && r.Y2 <= o.Y2
}

// VisibleRecord is one on-screen node as resolved by the visibility walk.
// Seq is the pre-order traversal index across the whole walk; later Seq
// means painted on top.
type VisibleRecord struct {
	Seq     int
	ID      string
	Role    Role
	Name    string
	States  []State
	Raw     Rect
	Visible Rect
	Area    float64
}

// Sample is the externally consumed artifact: one clickable element with
// its visible bounding box and click point.
type Sample struct {
	ID       string     `json:"id"`
	Category Role       `json:"category"`
	Name     string     `json:"name"`
	BBox     [4]float64 `json:"bbox"`
	Point    [2]float64 `json:"point"`
}
