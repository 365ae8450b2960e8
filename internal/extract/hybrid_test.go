package extract

import (
	"context"
	"testing"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

type stubHybridHandle struct {
	a11y    page.A11yNode
	regions []page.CanvasRegion
}

func (s stubHybridHandle) QuerySelectorAllCount(ctx context.Context, selector string) (int, error) {
	return 0, nil
}
func (s stubHybridHandle) AccessibilitySnapshot(ctx context.Context, opts page.AccessibilitySnapshotOptions) (page.A11yNode, error) {
	return s.a11y, nil
}
func (s stubHybridHandle) DOMWalk(ctx context.Context, opts page.DOMWalkOptions) (page.DOMNode, error) {
	return page.DOMNode{}, nil
}
func (s stubHybridHandle) Screenshot(ctx context.Context, rect *page.CanvasRegion) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}
func (s stubHybridHandle) ObserveMutations(ctx context.Context, dur int) (page.MutationSummary, error) {
	return page.MutationSummary{}, nil
}
func (s stubHybridHandle) CanvasRegions(ctx context.Context) ([]page.CanvasRegion, error) {
	return s.regions, nil
}
func (s stubHybridHandle) URL(ctx context.Context) (string, error) { return "https://example.com", nil }

func TestHybridExtractorAnchorsVisionLeafUnderNearestRegion(t *testing.T) {
	h := stubHybridHandle{
		a11y: page.A11yNode{
			Role: "main",
			Children: []page.A11yNode{
				{Role: "region", Name: "Chart area"},
			},
		},
		regions: []page.CanvasRegion{{X: 10, Y: 10, W: 300, H: 200}},
	}
	tree, err := (HybridExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	region := tree.Root.Children[0].Children[0]
	if region.Role != model.RoleRegion {
		t.Fatalf("fixture invariant broken, got %v", region.Role)
	}
	if len(region.Children) != 1 || region.Children[0].Origin != model.OriginVisionRegion {
		t.Fatalf("expected one vision-region leaf under the region node, got %+v", region.Children)
	}
}

func TestHybridExtractorFallsBackToRootWhenNoAnchor(t *testing.T) {
	h := stubHybridHandle{
		a11y:    page.A11yNode{Role: "generic", Children: []page.A11yNode{{Role: "button", Name: "Go"}}},
		regions: []page.CanvasRegion{{X: 0, Y: 0, W: 100, H: 100}},
	}
	tree, err := (HybridExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	root := tree.Root
	found := false
	for _, c := range root.Children {
		if c.Origin == model.OriginVisionRegion {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the vision leaf to attach to the tree root when no anchor role exists, got %+v", root.Children)
	}
}

func TestHybridExtractorNoRegionsLeavesTreeUntouched(t *testing.T) {
	h := stubHybridHandle{a11y: page.A11yNode{Role: "main"}, regions: nil}
	tree, err := (HybridExtractor{}).Extract(context.Background(), h, signals.Signals{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(tree.Root.Children[0].Children) != 0 {
		t.Fatalf("expected no vision leaves when CanvasRegions returns none, got %+v", tree.Root.Children[0].Children)
	}
}
