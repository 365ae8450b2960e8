package extract

import (
	"context"
	"testing"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

type stubDOMHandle struct {
	root page.DOMNode
}

func (s stubDOMHandle) QuerySelectorAllCount(ctx context.Context, selector string) (int, error) {
	return 0, nil
}
func (s stubDOMHandle) AccessibilitySnapshot(ctx context.Context, opts page.AccessibilitySnapshotOptions) (page.A11yNode, error) {
	return page.A11yNode{}, nil
}
func (s stubDOMHandle) DOMWalk(ctx context.Context, opts page.DOMWalkOptions) (page.DOMNode, error) {
	return s.root, nil
}
func (s stubDOMHandle) Screenshot(ctx context.Context, rect *page.CanvasRegion) ([]byte, error) {
	return nil, nil
}
func (s stubDOMHandle) ObserveMutations(ctx context.Context, dur int) (page.MutationSummary, error) {
	return page.MutationSummary{}, nil
}
func (s stubDOMHandle) CanvasRegions(ctx context.Context) ([]page.CanvasRegion, error) {
	return nil, nil
}
func (s stubDOMHandle) URL(ctx context.Context) (string, error) { return "https://example.com", nil }

func TestDOMExtractorDropsInvisibleNonInteractiveChildren(t *testing.T) {
	h := stubDOMHandle{root: page.DOMNode{
		Tag:     "body",
		Visible: true,
		Children: []page.DOMNode{
			{Tag: "div", Role: "generic", Visible: false},
			{Tag: "button", Role: "button", Visible: false, Name: "Go"},
		},
	}}
	tree, err := (DOMExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	body := tree.Root.Children[0]
	if len(body.Children) != 1 {
		t.Fatalf("expected the invisible non-interactive div to be dropped, kept %d children", len(body.Children))
	}
	if body.Children[0].Role != model.RoleButton {
		t.Fatalf("expected the invisible-but-interactive button to survive, got %v", body.Children[0].Role)
	}
}

func TestDOMExtractorFallsBackToTextWhenNameEmpty(t *testing.T) {
	h := stubDOMHandle{root: page.DOMNode{Tag: "p", Role: "generic", Visible: true, Text: "hello world"}}
	tree, err := (DOMExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := tree.Root.Children[0].Name; got != "hello world" {
		t.Fatalf("expected node text to fill the empty name, got %q", got)
	}
}

func TestDOMExtractorPropagatesLiveRegion(t *testing.T) {
	h := stubDOMHandle{root: page.DOMNode{
		Tag: "div", Role: "status", Visible: true, LivePolite: true,
		Children: []page.DOMNode{{Tag: "span", Role: "generic", Visible: true, Text: "3 unread"}},
	}}
	tree, err := (DOMExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	status := tree.Root.Children[0]
	if !status.HasFlag(model.StateLivePolite) || !status.Children[0].HasFlag(model.StateLivePolite) {
		t.Fatalf("expected both the live region and its child to carry StateLivePolite")
	}
}
