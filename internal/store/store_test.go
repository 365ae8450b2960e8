package store

import (
	"testing"

	"github.com/mkrivchun/browserlens/internal/model"
)

func TestStoreGetEmptyReturnsNil(t *testing.T) {
	s := New()
	if got := s.Get(); got != nil {
		t.Fatalf("expected nil tree from an empty store, got %v", got)
	}
}

func TestStorePutThenGet(t *testing.T) {
	s := New()
	tree := model.NewDocumentTree(&model.Node{Role: model.RoleMain})
	s.Put(tree)
	if got := s.Get(); got != tree {
		t.Fatalf("expected Get to return the same tree passed to Put")
	}
}

func TestStoreClearEmptiesIt(t *testing.T) {
	s := New()
	tree := model.NewDocumentTree(&model.Node{Role: model.RoleMain})
	s.Put(tree)
	s.Clear()
	if got := s.Get(); got != nil {
		t.Fatalf("expected nil tree after Clear, got %v", got)
	}
}
