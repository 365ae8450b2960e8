package model

// Role names a node's accessibility role. The vocabulary below covers the
// roles BrowserLens's own matching and filtering rules reason about
// explicitly; any other accessibility role string is accepted as-is (the
// "other" fallback from the design notes) so an unfamiliar future a11y role
// never breaks the matcher, it just never matches a named rule.
type Role string

const (
	RoleGeneric      Role = "generic"
	RoleNone         Role = "none"
	RolePresentation Role = "presentation"
	RoleDocument     Role = "document"

	RoleButton      Role = "button"
	RoleLink        Role = "link"
	RoleTextbox     Role = "textbox"
	RoleCheckbox    Role = "checkbox"
	RoleRadio       Role = "radio"
	RoleRadioGroup  Role = "radiogroup"
	RoleCombobox    Role = "combobox"
	RoleListItem    Role = "listitem"
	RoleMenuItem    Role = "menuitem"
	RoleTab         Role = "tab"
	RoleOption      Role = "option"
	RoleArticle     Role = "article"
	RoleRow         Role = "row"
	RoleList        Role = "list"
	RoleListbox     Role = "listbox"
	RoleTreeItem    Role = "treeitem"
	RoleCell        Role = "cell"
	RoleHeading     Role = "heading"
	RoleDialog      Role = "dialog"
	RoleMain        Role = "main"
	RoleNavigation  Role = "navigation"
	RoleHeader      Role = "header"
	RoleRegion      Role = "region"
	RoleFigure      Role = "figure"
	RoleApplication Role = "application"
	RoleForm        Role = "form"

	RoleStatus      Role = "status"
	RoleTimer       Role = "timer"
	RoleMarquee     Role = "marquee"
	RoleProgressbar Role = "progressbar"
	RoleCarousel    Role = "carousel"
	RoleTablist     Role = "tablist"
	RoleMenu        Role = "menu"
)

// reorderContainerRoles is the set of parent roles under which a same-parent
// position shift is reported as Moved (§4.6 "reparented" is narrowed to
// containers whose children are expected to reorder themselves, rather than
// every possible parent). A list/grid whose items get pushed down by an
// ordinary front-insertion isn't a reorder container: that insertion already
// shows up as Added, and reporting every pushed-down sibling as Moved too
// would just be noise the Semantic Filter has no rule for.
var reorderContainerRoles = map[Role]bool{
	RoleCarousel: true,
	RoleTablist:  true,
	RoleListbox:  true,
	RoleMenu:     true,
}

// IsReorderContainer reports whether role is a container whose children are
// expected to shuffle position under one stable parent (§4.6).
func IsReorderContainer(r Role) bool {
	return reorderContainerRoles[r]
}

// anchorRoles is the set of ancestor roles a vision-region leaf may be
// attached under directly (§4.3 of SPEC_FULL.md).
var anchorRoles = map[Role]bool{
	RoleRegion:      true,
	RoleMain:        true,
	RoleFigure:      true,
	RoleApplication: true,
}

// IsVisionAnchor reports whether role is a valid anchor for a vision-region leaf.
func IsVisionAnchor(r Role) bool {
	return anchorRoles[r]
}

// IsPruned reports whether a role is dropped by the A11Y extractor, with its
// children collapsed into the parent (§4.3).
func IsPruned(r Role) bool {
	return r == RoleNone || r == RolePresentation
}
