package model

import (
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"
)

// StateFlag is one boolean flag from a node's accessibility state set.
type StateFlag string

const (
	StateDisabled StateFlag = "disabled"
	StateFocused  StateFlag = "focused"
	StateChecked  StateFlag = "checked"
	StatePressed  StateFlag = "pressed"
	StateSelected StateFlag = "selected"
	StateExpanded StateFlag = "expanded"
	StateReadonly StateFlag = "readonly"
	StateRequired StateFlag = "required"
	StateInvalid  StateFlag = "invalid"
	StateHidden   StateFlag = "hidden"
	// StateLivePolite marks a node that is itself, or sits under, an
	// aria-live="polite" region — the Semantic Filter's live-region rule
	// keys off this flag (§4.7).
	StateLivePolite StateFlag = "live-polite"
)

// StateSet is the unordered set of flags on a Node (§3). Backed by
// golang-set so equality and membership checks never depend on flag order.
type StateSet = mapset.Set[StateFlag]

// NewStateSet builds a StateSet from a list of flags.
func NewStateSet(flags ...StateFlag) StateSet {
	return mapset.NewThreadUnsafeSet(flags...)
}

// StateEqual compares two state sets for equality, treating nil as empty.
func StateEqual(a, b StateSet) bool {
	if a == nil {
		a = NewStateSet()
	}
	if b == nil {
		b = NewStateSet()
	}
	return a.Equal(b)
}

// StateString renders a state set deterministically for diff/log output.
func StateString(s StateSet) string {
	if s == nil || s.Cardinality() == 0 {
		return "{}"
	}
	flags := s.ToSlice()
	// Deterministic order regardless of set iteration order.
	slices.Sort(flags)
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, string(f))
	}
	result := "{"
	for i, f := range out {
		if i > 0 {
			result += ","
		}
		result += f
	}
	return result + "}"
}
