package extract

import (
	"context"
	"testing"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

type stubHandle struct {
	a11y page.A11yNode
}

func (s stubHandle) QuerySelectorAllCount(ctx context.Context, selector string) (int, error) {
	return 0, nil
}
func (s stubHandle) AccessibilitySnapshot(ctx context.Context, opts page.AccessibilitySnapshotOptions) (page.A11yNode, error) {
	return s.a11y, nil
}
func (s stubHandle) DOMWalk(ctx context.Context, opts page.DOMWalkOptions) (page.DOMNode, error) {
	return page.DOMNode{}, nil
}
func (s stubHandle) Screenshot(ctx context.Context, rect *page.CanvasRegion) ([]byte, error) {
	return nil, nil
}
func (s stubHandle) ObserveMutations(ctx context.Context, dur int) (page.MutationSummary, error) {
	return page.MutationSummary{}, nil
}
func (s stubHandle) CanvasRegions(ctx context.Context) ([]page.CanvasRegion, error) {
	return nil, nil
}
func (s stubHandle) URL(ctx context.Context) (string, error) { return "https://example.com", nil }

func TestA11yExtractorWrapsInDocumentRoot(t *testing.T) {
	h := stubHandle{a11y: page.A11yNode{Role: "main", Children: []page.A11yNode{{Role: "button", Name: "Go"}}}}
	tree, err := (A11yExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if tree.Root.Role != model.RoleDocument {
		t.Fatalf("expected a synthetic document root, got %v", tree.Root.Role)
	}
	if len(tree.Root.Children) != 1 || tree.Root.Children[0].Role != model.RoleMain {
		t.Fatalf("expected main as the document's single child, got %+v", tree.Root.Children)
	}
}

func TestA11yExtractorPrunesPresentationRole(t *testing.T) {
	h := stubHandle{a11y: page.A11yNode{
		Role: "main",
		Children: []page.A11yNode{
			{Role: "presentation", Children: []page.A11yNode{{Role: "button", Name: "Go"}}},
		},
	}}
	tree, err := (A11yExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	main := tree.Root.Children[0]
	if len(main.Children) != 1 || main.Children[0].Role != model.RoleButton {
		t.Fatalf("expected the presentation wrapper to vanish, leaving the button as main's direct child, got %+v", main.Children)
	}
}

func TestA11yExtractorPropagatesLiveRegionToDescendants(t *testing.T) {
	h := stubHandle{a11y: page.A11yNode{
		Role:       "status",
		LivePolite: true,
		Children:   []page.A11yNode{{Role: "generic", Name: "3 new messages"}},
	}}
	tree, err := (A11yExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	status := tree.Root.Children[0]
	if !status.HasFlag(model.StateLivePolite) {
		t.Fatalf("expected the live region itself to carry StateLivePolite")
	}
	if len(status.Children) != 1 || !status.Children[0].HasFlag(model.StateLivePolite) {
		t.Fatalf("expected the live region's descendant to inherit StateLivePolite")
	}
}

func TestA11yExtractorCapsNameLength(t *testing.T) {
	h := stubHandle{a11y: page.A11yNode{Role: "button", Name: "abcdefghij"}}
	cfg := DefaultConfig()
	cfg.NameLengthCap = 5
	tree, err := (A11yExtractor{}).Extract(context.Background(), h, signals.Signals{}, cfg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := tree.Root.Children[0].Name; got != "abcde" {
		t.Fatalf("expected name capped to 5 runes, got %q", got)
	}
}
