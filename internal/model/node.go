package model

import (
	"strconv"
	"strings"
)

// Origin names which extractor produced a Node.
type Origin string

const (
	OriginA11y         Origin = "a11y"
	OriginDOM          Origin = "dom"
	OriginVisionRegion Origin = "vision-region"
)

// Bounds is an axis-aligned rectangle in page (CSS pixel) coordinates.
type Bounds struct {
	X, Y, W, H float64
}

// DefaultNameLengthCap matches Config.NameLengthCap's default (§6).
const DefaultNameLengthCap = 200

// Node is one element of a StateTree (§3).
type Node struct {
	Role     Role
	Name     string
	Value    string
	State    StateSet
	Level    int
	Children []*Node
	Origin   Origin
	Bounds   *Bounds
	Ref      string

	// VisionToken is the opaque visual artifact a vision-region leaf
	// carries in lieu of children (e.g. a PNG slice or an opaque handle).
	VisionToken []byte

	// fingerprint is computed lazily by StateTree.Flatten and cached here; it is
	// not part of the node's semantic identity by itself, only a derived
	// disambiguator (§4.6).
	fingerprint string
}

// NormalizeName whitespace-collapses and length-caps a name (invariant 4).
func NormalizeName(s string, cap int) string {
	if cap <= 0 {
		cap = DefaultNameLengthCap
	}
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	r := []rune(joined)
	if len(r) > cap {
		r = r[:cap]
	}
	return string(r)
}

// Fingerprint returns the node's cached (role, normalized-name, parent-role,
// sibling-index-class) fingerprint, computed by the owning StateTree's Flatten.
func (n *Node) Fingerprint() string {
	return n.fingerprint
}

// HasFlag reports whether the node's state set contains flag.
func (n *Node) HasFlag(flag StateFlag) bool {
	return n.State != nil && n.State.Contains(flag)
}

// IsHidden reports whether the node is marked hidden (excluded from diffing).
func (n *Node) IsHidden() bool {
	return n.HasFlag(StateHidden)
}

func fingerprintKey(role Role, normalizedName string, parentRole Role, siblingIndexClass int) string {
	var b strings.Builder
	b.WriteString(string(role))
	b.WriteByte('|')
	b.WriteString(normalizedName)
	b.WriteByte('|')
	b.WriteString(string(parentRole))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(siblingIndexClass))
	return b.String()
}
