package model

// Field names one of the tracked mutable fields a Node can change in (§3).
type Field string

const (
	FieldName  Field = "name"
	FieldValue Field = "value"
	FieldState Field = "state"
	FieldLevel Field = "level"
)

// CauseHint is a best-effort guess at what triggered a step's changes (§3).
type CauseHint string

const (
	CauseNavigation CauseHint = "navigation"
	CauseMutation   CauseHint = "mutation"
	CauseFocus      CauseHint = "focus"
	CauseInput      CauseHint = "input"
	CauseUnknown    CauseHint = "unknown"
)

// Added describes one new subtree and the anchor it attached under.
type Added struct {
	Subtree      *Node
	ParentRef    string
	PositionHint int
}

// Changed describes one field's divergence on a node that persisted across
// the two trees.
type Changed struct {
	Ref   string
	Field Field
	Old   any
	New   any
}

// Moved describes a persisted node that changed parent, or that changed
// position under the same reorder-container parent (carousel, tablist,
// listbox, menu).
type Moved struct {
	Ref          string
	OldParentRef string
	NewParentRef string
}

// UnchangedSummary rolls stable nodes up by region role, plus a "noise"
// bucket the semantic filter tallies discarded changes into (§4.7).
type UnchangedSummary struct {
	ByRegion map[string]int
}

// Add increments the count for region (idempotent nil-map handling).
func (u *UnchangedSummary) Add(region string, n int) {
	if u.ByRegion == nil {
		u.ByRegion = map[string]int{}
	}
	u.ByRegion[region] += n
}

// Noise returns the current "noise" bucket count.
func (u UnchangedSummary) Noise() int {
	if u.ByRegion == nil {
		return 0
	}
	return u.ByRegion["noise"]
}

// Delta is the result of comparing two StateTrees (§3, §4.6).
type Delta struct {
	Added            []Added
	Removed          []string
	Changed          []Changed
	Moved            []Moved
	UnchangedSummary UnchangedSummary
	CauseHint        CauseHint
}

// IsEmpty reports whether the delta carries no reportable change at all.
func (d *Delta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && len(d.Moved) == 0
}
