package axtree

import (
	"sort"
	"strings"
)

// Diagnostics accumulates data-quality observations during a build. It is
// threaded through calls rather than held in package state so concurrent
// snapshots never share anything.
type Diagnostics struct {
	// UnmappedRoles counts raw role strings that fell through to
	// RoleUnknown, keyed by the raw string.
	UnmappedRoles map[string]int
}

// NewDiagnostics returns an empty accumulator.
func NewDiagnostics() Diagnostics {
	return Diagnostics{UnmappedRoles: make(map[string]int)}
}

func (d *Diagnostics) recordUnmapped(raw string) {
	if d == nil {
		return
	}
	if d.UnmappedRoles == nil {
		d.UnmappedRoles = make(map[string]int)
	}
	d.UnmappedRoles[raw]++
}

// UnmappedTotal returns the number of nodes whose role could not be mapped.
func (d *Diagnostics) UnmappedTotal() int {
	n := 0
	for _, c := range d.UnmappedRoles {
		n += c
	}
	return n
}

// roleMap translates browser accessibility roles to canonical roles.
// Chromium mixes camelCase, PascalCase and lowercase across its AX tree;
// lookup is exact first, then case-insensitive, so only casings that
// change the mapping need a separate entry (Term/term, Definition/definition).
var roleMap = map[string]Role{
	// Generic containers.
	"generic":          RolePanel,
	"none":             RolePanel,
	"presentation":     RolePanel,
	"group":            RolePanel,
	"GenericContainer": RolePanel,

	// Document structure.
	"RootWebArea":   RoleWindow,
	"WebArea":       RolePanel,
	"document":      RolePanel,
	"article":       RolePanel,
	"section":       RolePanel,
	"region":        RolePanel,
	"main":          RolePanel,
	"header":        RolePanel,
	"footer":        RolePanel,
	"navigation":    RolePanel,
	"complementary": RolePanel,
	"banner":        RolePanel,
	"contentinfo":   RolePanel,
	"form":          RolePanel,
	"search":        RolePanel,
	"blockquote":    RolePanel,
	"figure":        RolePanel,
	"figcaption":    RoleLabel,
	"FigureCaption": RoleLabel,

	// Interactive elements.
	"button":             RoleButton,
	"link":               RoleLink,
	"TextField":          RoleTextField,
	"textbox":            RoleTextField,
	"SearchBox":          RoleTextField,
	"searchbox":          RoleTextField,
	"SpinButton":         RoleTextField,
	"spinbutton":         RoleTextField,
	"TextArea":           RoleTextArea,
	"textarea":           RoleTextArea,
	"ComboBox":           RoleComboBox,
	"combobox":           RoleComboBox,
	"ComboBoxGrouping":   RoleComboBox,
	"ComboBoxMenuButton": RoleComboBox,
	"ListBox":            RoleListBox,
	"listbox":            RoleListBox,
	"ListBoxOption":      RoleListItem,
	"option":             RoleListItem,
	"CheckBox":           RoleCheckbox,
	"checkbox":           RoleCheckbox,
	"RadioButton":        RoleRadioButton,
	"radio":              RoleRadioButton,
	"Switch":             RoleCheckbox,
	"switch":             RoleCheckbox,
	"Slider":             RoleSlider,
	"slider":             RoleSlider,
	"ScrollBar":          "scrollbar",
	"scrollbar":          "scrollbar",
	"ProgressIndicator":  "progressbar",
	"progressbar":        "progressbar",
	"Meter":              "progressbar",
	"meter":              "progressbar",

	// Menus.
	"menu":              "menu",
	"menubar":           "menubar",
	"menuitem":          RoleMenuItem,
	"MenuItemCheckBox":  RoleMenuItem,
	"menuitemcheckbox":  RoleMenuItem,
	"MenuItemRadio":     RoleMenuItem,
	"menuitemradio":     RoleMenuItem,
	"MenuButton":        RoleButton,
	"MenuListPopup":     "menu",

	// Lists.
	"list":                  RoleListBox,
	"listitem":              RoleListItem,
	"DescriptionList":       RoleListBox,
	"DescriptionListTerm":   RoleListItem,
	"DescriptionListDetail": RoleListItem,
	"term":                  RoleListItem,
	"definition":            RoleListItem,

	// Tables.
	"table":        "table",
	"grid":         "table",
	"treegrid":     "table",
	"row":          RoleListItem,
	"rowgroup":     RolePanel,
	"cell":         "tablecell",
	"gridcell":     "tablecell",
	"columnheader": "tablecell",
	"rowheader":    "tablecell",

	// Trees.
	"tree":     "treeview",
	"treeitem": "treeitem",

	// Tabs.
	"tablist":  RolePanel,
	"tab":      RoleTab,
	"tabpanel": "tabpanel",

	// Dialogs.
	"dialog":      "dialog",
	"alertdialog": "dialog",
	"alert":       "dialog",

	// Text.
	"StaticText":    RoleLabel,
	"InlineTextBox": RoleLabel,
	"heading":       RoleLabel,
	"paragraph":     RoleLabel,
	"LabelText":     RoleLabel,
	"legend":        RoleLabel,
	"caption":       RoleLabel,
	"text":          RoleLabel,

	// Media.
	"image":             RoleImage,
	"img":               RoleImage,
	"video":             RolePanel,
	"audio":             RolePanel,
	"canvas":            RoleImage,
	"SVGRoot":           RoleImage,
	"graphics-document": RoleImage,
	"graphics-object":   RoleImage,
	"graphics-symbol":   RoleImage,

	// Everything else Chromium is known to emit.
	"toolbar":              "toolbar",
	"status":               "statusbar",
	"tooltip":              "tooltip",
	"separator":            RoleSeparator,
	"Splitter":             RoleSeparator,
	"application":          RolePanel,
	"iframe":               RolePanel,
	"IframePresentational": RolePanel,
	"EmbeddedObject":       RolePanel,
	"PluginObject":         RolePanel,
	"Math":                 RolePanel,
	"Note":                 RolePanel,
	"Log":                  RolePanel,
	"Marquee":              RolePanel,
	"Timer":                RoleLabel,
	"Definition":           RoleLabel,
	"Term":                 RoleLabel,
	"Time":                 RoleLabel,
	"Abbr":                 RoleLabel,
	"Code":                 RoleLabel,
	"Pre":                  RolePanel,
	"Emphasis":             RoleLabel,
	"Strong":               RoleLabel,
	"Subscript":            RoleLabel,
	"Superscript":          RoleLabel,
	"Insertion":            RoleLabel,
	"Deletion":             RoleLabel,
	"Mark":                 RoleLabel,
	"LineBreak":            RoleSeparator,
	"WordBreak":            RoleSeparator,
	"Ruby":                 RoleLabel,
	"RubyAnnotation":       RoleLabel,
}

// roleMapLower is the case-insensitive index over roleMap, built once.
var roleMapLower = func() map[string]Role {
	m := make(map[string]Role, len(roleMap))
	for k, v := range roleMap {
		m[strings.ToLower(k)] = v
	}
	return m
}()

// canonicalRoles is the closed target vocabulary. A raw role whose
// lowercase form is already canonical passes through unchanged.
var canonicalRoles = map[Role]bool{
	RoleDesktop: true, RoleWindow: true, "dialog": true, RolePanel: true,
	"toolbar": true, "menubar": true, "menu": true, RoleMenuItem: true,
	RoleButton: true, RoleCheckbox: true, RoleRadioButton: true,
	RoleTextField: true, RoleTextArea: true, RoleComboBox: true,
	RoleListBox: true, RoleListItem: true, RoleTab: true, "tabpanel": true,
	"treeview": true, "treeitem": true, "table": true, "tablecell": true,
	"scrollbar": true, RoleSlider: true, "progressbar": true,
	RoleLabel: true, RoleLink: true, RoleImage: true, "icon": true,
	RoleSeparator: true, "tooltip": true, "statusbar": true, "taskbar": true,
	"entry": true,
}

// normalizeRole maps a vendor accessibility role to the canonical
// vocabulary. It never fails: empty input and unrecognized roles both map
// to RoleUnknown, the latter counted in diag for later inspection.
func normalizeRole(raw string, diag *Diagnostics) Role {
	if raw == "" {
		return RoleUnknown
	}
	if r, ok := roleMap[raw]; ok {
		return r
	}
	lower := strings.ToLower(raw)
	if r, ok := roleMapLower[lower]; ok {
		return r
	}
	if canonicalRoles[Role(lower)] {
		return Role(lower)
	}
	diag.recordUnmapped(raw)
	return RoleUnknown
}

// CanonicalRoles returns the closed role vocabulary, for diagnostics and
// tool listings.
func CanonicalRoles() []string {
	out := make([]string, 0, len(canonicalRoles)+1)
	for r := range canonicalRoles {
		out = append(out, string(r))
	}
	out = append(out, string(RoleUnknown))
	sort.Strings(out)
	return out
}
