// Package diff implements the Tree Differ (C6): given two already-matched
// StateTrees (via internal/match), it produces the raw structural Delta
// before semantic filtering (§4.6-§4.7).
package diff

import (
	"strings"

	"github.com/mkrivchun/browserlens/internal/match"
	"github.com/mkrivchun/browserlens/internal/model"
)

// Diff compares old against new, using result (computed by match.Match over
// the same two trees) as the node correspondence.
func Diff(old, newTree *model.StateTree, result *match.Result) *model.Delta {
	d := &model.Delta{}

	_, oldFlat := old.Flatten()
	_, newFlat := newTree.Flatten()

	for _, pair := range result.Pairs {
		of, ok1 := oldFlat[pair.Old]
		nf, ok2 := newFlat[pair.New]
		if !ok1 || !ok2 {
			continue
		}

		changedAny := false
		if of.Node.Role == nf.Node.Role && model.NormalizeName(of.Node.Name, model.DefaultNameLengthCap) != model.NormalizeName(nf.Node.Name, model.DefaultNameLengthCap) {
			d.Changed = append(d.Changed, model.Changed{Ref: nf.Node.Ref, Field: model.FieldName, Old: of.Node.Name, New: nf.Node.Name})
			changedAny = true
		}
		if of.Node.Value != nf.Node.Value {
			d.Changed = append(d.Changed, model.Changed{Ref: nf.Node.Ref, Field: model.FieldValue, Old: of.Node.Value, New: nf.Node.Value})
			changedAny = true
		}
		if !model.StateEqual(of.Node.State, nf.Node.State) {
			d.Changed = append(d.Changed, model.Changed{Ref: nf.Node.Ref, Field: model.FieldState, Old: model.StateString(of.Node.State), New: model.StateString(nf.Node.State)})
			changedAny = true
		}
		if of.Node.Level != nf.Node.Level {
			d.Changed = append(d.Changed, model.Changed{Ref: nf.Node.Ref, Field: model.FieldLevel, Old: of.Node.Level, New: nf.Node.Level})
			changedAny = true
		}

		moved := false
		oldParentRef := ""
		if of.Parent != nil {
			oldParentRef = of.Parent.Ref
		}
		newParentRef := ""
		if nf.Parent != nil {
			newParentRef = nf.Parent.Ref
		}
		reorderParent := nf.Parent != nil && model.IsReorderContainer(nf.Parent.Role)
		switch {
		case oldParentRef != newParentRef:
			// True reparenting: the matched pair now sits under a
			// different persisted ancestor.
			d.Moved = append(d.Moved, model.Moved{Ref: nf.Node.Ref, OldParentRef: oldParentRef, NewParentRef: newParentRef})
			moved = true
		case oldParentRef == newParentRef && of.Position != nf.Position && reorderParent:
			// Pure reorder, but only under a parent whose children are
			// expected to shuffle position (carousel/tablist/menu/...).
			// An ordinary list pushed down by a front-insertion already
			// shows up as Added; reporting every displaced sibling as
			// Moved too would be noise no filter rule covers.
			d.Moved = append(d.Moved, model.Moved{Ref: nf.Node.Ref, OldParentRef: oldParentRef, NewParentRef: newParentRef})
			moved = true
		}

		if !changedAny && !moved {
			d.UnchangedSummary.Add(regionFor(nf), 1)
		}
	}

	d.Added = buildAdded(result, newFlat)
	d.Removed = buildRemoved(result)

	d.CauseHint = inferCauseHint(d)
	return d
}

// buildAdded groups result.UnmatchedNew into top-level subtree entries: a
// node is top-level if its parent is matched or absent, so descendants of an
// already-reported new subtree are absorbed rather than double-listed
// (added/removed are top-level-subtree-only).
func buildAdded(result *match.Result, newFlat map[*model.Node]*model.FlatNode) []model.Added {
	unmatchedSet := make(map[*model.Node]bool, len(result.UnmatchedNew))
	for _, n := range result.UnmatchedNew {
		unmatchedSet[n] = true
	}

	var out []model.Added
	for _, n := range result.UnmatchedNew {
		parent := result.NewParent[n]
		if parent != nil && unmatchedSet[parent] {
			continue // absorbed into an ancestor's reported subtree
		}
		parentRef := ""
		if parent != nil {
			parentRef = parent.Ref
		}
		posHint := 0
		if fn, ok := newFlat[n]; ok {
			posHint = fn.Position
		}
		out = append(out, model.Added{Subtree: n, ParentRef: parentRef, PositionHint: posHint})
	}
	return out
}

// buildRemoved reports top-level removed refs only, mirroring buildAdded.
func buildRemoved(result *match.Result) []string {
	unmatchedSet := make(map[*model.Node]bool, len(result.UnmatchedOld))
	for _, n := range result.UnmatchedOld {
		unmatchedSet[n] = true
	}

	var out []string
	for _, n := range result.UnmatchedOld {
		parent := result.OldParent[n]
		if parent != nil && unmatchedSet[parent] {
			continue
		}
		if n.Ref != "" {
			out = append(out, n.Ref)
		}
	}
	return out
}

// regionFor buckets a stable node under its own role if it's an anchor, or
// its immediate parent's role if that is, falling back to "document".
// FlatNode only carries the immediate parent; the Semantic Filter, which
// builds full ancestor chains, refines this further for its own rules.
func regionFor(fn *model.FlatNode) string {
	if model.IsVisionAnchor(fn.Node.Role) {
		return string(fn.Node.Role)
	}
	if fn.Parent != nil && model.IsVisionAnchor(fn.Parent.Role) {
		return string(fn.Parent.Role)
	}
	return "document"
}

// inferCauseHint applies best-effort heuristics over the delta alone: any
// addition or removal suggests a mutation; an isolated focus/value-only
// change suggests user input; a focus toggle otherwise suggests focus. It
// sees no URL, so it never returns CauseNavigation.
func inferCauseHint(d *model.Delta) model.CauseHint {
	switch {
	case len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0 && onlyFocusOrValue(d.Changed):
		return model.CauseInput
	case len(d.Added) > 0 || len(d.Removed) > 0:
		return model.CauseMutation
	case hasFocusChange(d.Changed):
		return model.CauseFocus
	case len(d.Changed) > 0:
		return model.CauseMutation
	default:
		return model.CauseUnknown
	}
}

func onlyFocusOrValue(changes []model.Changed) bool {
	if len(changes) == 0 {
		return false
	}
	for _, c := range changes {
		switch c.Field {
		case model.FieldValue:
			continue
		case model.FieldState:
			if s, ok := c.New.(string); ok && strings.Contains(s, "focused") {
				continue
			}
			return false
		default:
			return false
		}
	}
	return true
}

func hasFocusChange(changes []model.Changed) bool {
	for _, c := range changes {
		if c.Field != model.FieldState {
			continue
		}
		oldS, _ := c.Old.(string)
		newS, _ := c.New.(string)
		if strings.Contains(oldS, string(model.StateFocused)) != strings.Contains(newS, string(model.StateFocused)) {
			return true
		}
	}
	return false
}
