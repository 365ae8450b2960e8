// Package filter implements the Semantic Filter (C7): a pluggable, ordered
// list of predicates that strip cosmetic noise out of a raw Delta before it
// reaches the agent (§4.7).
package filter

import (
	"bytes"

	"github.com/mkrivchun/browserlens/internal/model"
)

// Context gives a predicate the lookup context it needs: both trees'
// ref-indices (to resolve a Changed/Moved entry's Ref back to a Node) and
// each node's ancestor chain. No default predicate reads the ancestor
// chains; they are there for custom predicates added through
// AddChangedPredicate/AddMovedPredicate.
type Context struct {
	OldByRef map[string]*model.Node
	NewByRef map[string]*model.Node
	// AncestorsOld/AncestorsNew map a node to its chain of ancestors,
	// nearest first, built once per observation.
	AncestorsOld map[*model.Node][]*model.Node
	AncestorsNew map[*model.Node][]*model.Node
}

// NewContext builds a Context from both trees.
func NewContext(old, newTree *model.StateTree) Context {
	ctx := Context{
		OldByRef:     map[string]*model.Node{},
		NewByRef:     map[string]*model.Node{},
		AncestorsOld: map[*model.Node][]*model.Node{},
		AncestorsNew: map[*model.Node][]*model.Node{},
	}
	indexTree(old, ctx.OldByRef, ctx.AncestorsOld)
	indexTree(newTree, ctx.NewByRef, ctx.AncestorsNew)
	return ctx
}

func indexTree(t *model.StateTree, byRef map[string]*model.Node, ancestors map[*model.Node][]*model.Node) {
	if t == nil || t.Root == nil {
		return
	}
	var walk func(n *model.Node, chain []*model.Node)
	walk = func(n *model.Node, chain []*model.Node) {
		if n == nil {
			return
		}
		if n.Ref != "" {
			byRef[n.Ref] = n
		}
		ancestors[n] = chain
		nextChain := make([]*model.Node, 0, len(chain)+1)
		nextChain = append(nextChain, n)
		nextChain = append(nextChain, chain...)
		for _, c := range n.Children {
			walk(c, nextChain)
		}
	}
	walk(t.Root, nil)
}

// ChangedPredicate reports whether a Changed entry is cosmetic noise.
type ChangedPredicate func(c model.Changed, ctx Context) bool

// MovedPredicate reports whether a Moved entry is cosmetic noise.
type MovedPredicate func(m model.Moved, ctx Context) bool

// Filter is the ordered, short-circuit-OR predicate list (§4.7 "pluggable").
type Filter struct {
	changed []ChangedPredicate
	moved   []MovedPredicate
}

// New builds a Filter with the five default predicates from §4.7.
func New() *Filter {
	return &Filter{
		changed: []ChangedPredicate{
			isLiveWidgetNameOrValueOnly,
			isUnderLiveRegionNameOrValueOnly,
			isProgressbarStateToggle,
			isVisionBoundsOnlyIdenticalToken,
		},
		moved: []MovedPredicate{
			isCarouselOrTablistReorder,
		},
	}
}

// AddChangedPredicate appends a custom Changed predicate (pluggability).
func (f *Filter) AddChangedPredicate(p ChangedPredicate) {
	f.changed = append(f.changed, p)
}

// AddMovedPredicate appends a custom Moved predicate.
func (f *Filter) AddMovedPredicate(p MovedPredicate) {
	f.moved = append(f.moved, p)
}

// Apply returns a new Delta holding d's entries minus the noise, with
// discarded entries tallied into UnchangedSummary's "noise" bucket (§4.7).
func (f *Filter) Apply(d *model.Delta, ctx Context) *model.Delta {
	out := &model.Delta{
		Added:            d.Added,
		Removed:          d.Removed,
		UnchangedSummary: d.UnchangedSummary,
		CauseHint:        d.CauseHint,
	}

	for _, c := range d.Changed {
		if f.isChangedNoise(c, ctx) {
			out.UnchangedSummary.Add("noise", 1)
			continue
		}
		out.Changed = append(out.Changed, c)
	}

	for _, m := range d.Moved {
		if f.isMovedNoise(m, ctx) {
			out.UnchangedSummary.Add("noise", 1)
			continue
		}
		out.Moved = append(out.Moved, m)
	}

	return out
}

func (f *Filter) isChangedNoise(c model.Changed, ctx Context) bool {
	for _, p := range f.changed {
		if p(c, ctx) {
			return true
		}
	}
	return false
}

func (f *Filter) isMovedNoise(m model.Moved, ctx Context) bool {
	for _, p := range f.moved {
		if p(m, ctx) {
			return true
		}
	}
	return false
}

// isLiveWidgetNameOrValueOnly: "The node has role status/timer/marquee and
// only name or value changed" (§4.7 rule 1).
func isLiveWidgetNameOrValueOnly(c model.Changed, ctx Context) bool {
	if c.Field != model.FieldName && c.Field != model.FieldValue {
		return false
	}
	n := ctx.NewByRef[c.Ref]
	if n == nil {
		return false
	}
	switch n.Role {
	case model.RoleStatus, model.RoleTimer, model.RoleMarquee:
		return true
	}
	return false
}

// isUnderLiveRegionNameOrValueOnly: "The node is inside an ancestor marked
// aria-live=polite and the change is only to name/value" (§4.7 rule 2).
func isUnderLiveRegionNameOrValueOnly(c model.Changed, ctx Context) bool {
	if c.Field != model.FieldName && c.Field != model.FieldValue {
		return false
	}
	n := ctx.NewByRef[c.Ref]
	if n == nil {
		return false
	}
	return n.HasFlag(model.StateLivePolite)
}

// isProgressbarStateToggle: "The change is a state toggle on a node with
// role progressbar" (§4.7 rule 3).
func isProgressbarStateToggle(c model.Changed, ctx Context) bool {
	if c.Field != model.FieldState {
		return false
	}
	n := ctx.NewByRef[c.Ref]
	if n == nil {
		return false
	}
	return n.Role == model.RoleProgressbar
}

// isVisionBoundsOnlyIdenticalToken: "The change is a bounds-only change on a
// vision-region whose vision-token is byte-identical" (§4.7 rule 5). Bounds
// is not itself a tracked Field (§3), so this only ever needs to veto a
// name/value/state/level entry on a vision-region node whose token is
// unchanged — in practice a vision-region leaf carries no name/value/state,
// so this predicate guards against a future extractor starting to emit one.
func isVisionBoundsOnlyIdenticalToken(c model.Changed, ctx Context) bool {
	oldN := ctx.OldByRef[c.Ref]
	newN := ctx.NewByRef[c.Ref]
	if oldN == nil || newN == nil {
		return false
	}
	if newN.Origin != model.OriginVisionRegion {
		return false
	}
	return bytes.Equal(oldN.VisionToken, newN.VisionToken)
}

// isCarouselOrTablistReorder: "The change is a reorder inside a parent with
// role carousel or tablist where the set of child identities is unchanged"
// (§4.7 rule 4). A Moved entry with OldParentRef == NewParentRef is, by
// construction in internal/diff, exactly a same-parent position shift; this
// predicate confirms the shared parent's role and that the parent's set of
// child refs is the same in both trees.
func isCarouselOrTablistReorder(m model.Moved, ctx Context) bool {
	if m.OldParentRef != m.NewParentRef {
		return false
	}
	parent := ctx.NewByRef[m.NewParentRef]
	oldParent := ctx.OldByRef[m.OldParentRef]
	if parent == nil || oldParent == nil || len(oldParent.Children) != len(parent.Children) {
		return false
	}
	oldChildRefs := make(map[string]bool, len(oldParent.Children))
	for _, c := range oldParent.Children {
		oldChildRefs[c.Ref] = true
	}
	for _, c := range parent.Children {
		if !oldChildRefs[c.Ref] {
			return false
		}
	}
	switch parent.Role {
	case model.RoleCarousel, model.RoleTablist:
		return true
	}
	return false
}
