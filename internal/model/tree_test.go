package model

import "testing"

func leaf(role Role, name string) *Node {
	return &Node{Role: role, Name: name, Origin: OriginDOM}
}

func TestFlattenExcludesHiddenSubtrees(t *testing.T) {
	hidden := leaf(RoleButton, "ghost")
	hidden.State = NewStateSet(StateHidden)
	body := &Node{
		Role: RoleMain,
		Children: []*Node{
			leaf(RoleButton, "Save"),
			hidden,
			leaf(RoleButton, "Cancel"),
		},
	}
	tree := NewDocumentTree(body)

	flat, index := tree.Flatten()

	for _, fn := range flat {
		if fn.Node == hidden {
			t.Fatalf("hidden node must be excluded from Flatten output")
		}
	}
	if _, ok := index[hidden]; ok {
		t.Fatalf("hidden node must not appear in the flatten index")
	}
	// document + main + Save + Cancel
	if len(flat) != 4 {
		t.Fatalf("expected 4 visible nodes, got %d", len(flat))
	}
}

func TestFlattenPositionSkipsHiddenSiblings(t *testing.T) {
	hidden := leaf(RoleButton, "ghost")
	hidden.State = NewStateSet(StateHidden)
	save := leaf(RoleButton, "Save")
	cancel := leaf(RoleButton, "Cancel")
	body := &Node{Role: RoleMain, Children: []*Node{save, hidden, cancel}}
	tree := NewDocumentTree(body)

	_, index := tree.Flatten()

	if index[save].Position != 0 {
		t.Fatalf("Save should be position 0, got %d", index[save].Position)
	}
	if index[cancel].Position != 1 {
		t.Fatalf("Cancel should be position 1 (hidden sibling skipped), got %d", index[cancel].Position)
	}
}

func TestFlattenSiblingIndexClassGroupsByRoleAndName(t *testing.T) {
	a := leaf(RoleTab, "Tab")
	b := leaf(RoleTab, "Tab")
	c := leaf(RoleTab, "Other")
	body := &Node{Role: RoleTablist, Children: []*Node{a, b, c}}
	tree := NewDocumentTree(body)

	_, index := tree.Flatten()

	if index[a].SiblingIndex != 0 || index[b].SiblingIndex != 1 {
		t.Fatalf("expected sibling indices 0,1 for repeated (role,name), got %d,%d",
			index[a].SiblingIndex, index[b].SiblingIndex)
	}
	if index[c].SiblingIndex != 0 {
		t.Fatalf("distinct name should reset sibling index class, got %d", index[c].SiblingIndex)
	}
}

func TestRefMapOnlySurfacesRefBearingNodes(t *testing.T) {
	withRef := leaf(RoleButton, "Save")
	withRef.Ref = "@e1"
	withoutRef := leaf(RoleButton, "Cancel")
	body := &Node{Role: RoleMain, Children: []*Node{withRef, withoutRef}}
	tree := NewDocumentTree(body)

	refs := tree.RefMap()

	if len(refs) != 1 {
		t.Fatalf("expected exactly 1 ref entry, got %d", len(refs))
	}
	id, ok := refs["@e1"]
	if !ok {
		t.Fatalf("expected @e1 in refs map")
	}
	if id.Role != RoleButton || id.NormalizedName != "Save" {
		t.Fatalf("unexpected identity for @e1: %+v", id)
	}
}

func TestFindByRef(t *testing.T) {
	target := leaf(RoleButton, "Save")
	target.Ref = "@e7"
	body := &Node{Role: RoleMain, Children: []*Node{target}}
	tree := NewDocumentTree(body)

	if got := tree.FindByRef("@e7"); got != target {
		t.Fatalf("FindByRef did not return the expected node")
	}
	if got := tree.FindByRef("@e999"); got != nil {
		t.Fatalf("FindByRef should return nil for an absent ref, got %v", got)
	}
}

func TestNormalizeNameCollapsesWhitespaceAndCaps(t *testing.T) {
	got := NormalizeName("  hello    world  ", 200)
	if got != "hello world" {
		t.Fatalf("expected whitespace-collapsed name, got %q", got)
	}
	long := NormalizeName("abcdefghij", 5)
	if long != "abcde" {
		t.Fatalf("expected name capped to 5 runes, got %q", long)
	}
}
