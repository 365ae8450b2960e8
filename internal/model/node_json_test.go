package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// nodeShape is a go-cmp-friendly projection of a Node: StateSet wraps an
// unexported mapset.Set, so comparisons go through StateString instead of
// cmp.Diff-ing the Node directly.
type nodeShape struct {
	Role     Role
	Name     string
	Ref      string
	State    string
	Children int
}

func shapeOf(n *Node) nodeShape {
	return nodeShape{Role: n.Role, Name: n.Name, Ref: n.Ref, State: StateString(n.State), Children: len(n.Children)}
}

func TestNodeJSONRoundTrip(t *testing.T) {
	child := &Node{
		Role:  RoleButton,
		Name:  "Save",
		State: NewStateSet(StateFocused, StateLivePolite),
		Ref:   "@e2",
	}
	root := &Node{
		Role:     RoleMain,
		Children: []*Node{child},
		Origin:   OriginDOM,
	}
	tree := NewDocumentTree(root)
	_, _ = tree.Flatten() // populate fingerprints

	raw, err := json.Marshal(tree.Root)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Node
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Children) != 1 {
		t.Fatalf("expected document root with 1 child, got %d", len(out.Children))
	}
	main := out.Children[0]
	if len(main.Children) != 1 {
		t.Fatalf("expected main with 1 child, got %d", len(main.Children))
	}
	got := main.Children[0]
	want := nodeShape{Role: RoleButton, Name: "Save", Ref: "@e2", State: StateString(child.State), Children: 0}
	if diff := cmp.Diff(want, shapeOf(got)); diff != "" {
		t.Fatalf("round-tripped node mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeJSONOmitsEmptyState(t *testing.T) {
	n := &Node{Role: RoleGeneric, Origin: OriginDOM}
	raw, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal to map: %v", err)
	}
	if _, ok := m["state"]; ok {
		t.Fatalf("expected no state key for a node with no flags, got %v", m)
	}
}
