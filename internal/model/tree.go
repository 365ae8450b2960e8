package model

// StateTree is a rooted, ordered tree of Nodes (§3). The root is always
// present (invariant 5), even if its single child is the entire document
// subtree.
type StateTree struct {
	Root *Node
}

// NewDocumentTree wraps body in a synthetic "document" root, as every
// extractor is required to do (§4.3).
func NewDocumentTree(body *Node) *StateTree {
	root := &Node{Role: RoleDocument, Origin: OriginDOM}
	if body != nil {
		root.Children = []*Node{body}
	}
	return &StateTree{Root: root}
}

// Identity is the (role, normalized_name, parent_role, level) tuple used by
// the matcher's anchor pass (§4.6) and reported in the wire-level refs map.
type Identity struct {
	Role           Role
	NormalizedName string
	ParentRole     Role
	Level          int
}

// FlatNode is one node plus the tree-walk context the matcher and differ
// need: its parent, its position among siblings, and its computed identity.
type FlatNode struct {
	Node         *Node
	Parent       *Node
	SiblingIndex int
	// Position is this node's raw index among its parent's visible
	// children, regardless of role/name — it backs reorder detection
	// (§4.7's carousel/tablist reorder rule), distinct from SiblingIndex's
	// same-(role,name) run counter.
	Position int
	Identity Identity
}

// Flatten walks the tree in document order (pre-order, invariant 1),
// excluding hidden nodes (§4.6 "invisible nodes are excluded from both
// trees before diffing"), and returns one FlatNode per visible node plus an
// index from Node to FlatNode for O(1) parent/identity lookups.
func (t *StateTree) Flatten() ([]*FlatNode, map[*Node]*FlatNode) {
	var flat []*FlatNode
	index := make(map[*Node]*FlatNode)
	if t == nil || t.Root == nil {
		return flat, index
	}

	var walk func(n, parent *Node, level, position int)
	// sameRoleName counts, per parent, how many same-(role,name) siblings
	// have been seen so far; it backs both the fingerprint's
	// sibling-index-class and FlatNode.SiblingIndex.
	sameRoleName := map[*Node]map[string]int{}

	walk = func(n, parent *Node, level, position int) {
		if n == nil || n.IsHidden() {
			return
		}
		parentRole := RoleGeneric
		if parent != nil {
			parentRole = parent.Role
		}
		normalized := NormalizeName(n.Name, DefaultNameLengthCap)

		counts := sameRoleName[parent]
		if counts == nil {
			counts = map[string]int{}
			sameRoleName[parent] = counts
		}
		key := string(n.Role) + "\x00" + normalized
		siblingIndexClass := counts[key]
		counts[key] = siblingIndexClass + 1

		n.fingerprint = fingerprintKey(n.Role, normalized, parentRole, siblingIndexClass)

		fn := &FlatNode{
			Node:         n,
			Parent:       parent,
			SiblingIndex: siblingIndexClass,
			Position:     position,
			Identity: Identity{
				Role:           n.Role,
				NormalizedName: normalized,
				ParentRole:     parentRole,
				Level:          n.Level,
			},
		}
		flat = append(flat, fn)
		index[n] = fn

		pos := 0
		for _, c := range n.Children {
			if c == nil || c.IsHidden() {
				continue
			}
			walk(c, n, level+1, pos)
			pos++
		}
	}
	walk(t.Root, nil, 0, 0)
	return flat, index
}

// RefMap returns the wire-level refs table: @eN -> identity tuple, for every
// ref-bearing node currently in the tree (§6).
func (t *StateTree) RefMap() map[string]Identity {
	flat, _ := t.Flatten()
	out := make(map[string]Identity, len(flat))
	for _, fn := range flat {
		if fn.Node.Ref == "" {
			continue
		}
		out[fn.Node.Ref] = fn.Identity
	}
	return out
}

// FindByRef returns the node carrying ref, if present and visible.
func (t *StateTree) FindByRef(ref string) *Node {
	flat, _ := t.Flatten()
	for _, fn := range flat {
		if fn.Node.Ref == ref {
			return fn.Node
		}
	}
	return nil
}
