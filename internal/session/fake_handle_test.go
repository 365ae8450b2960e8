package session

import (
	"context"
	"strings"

	"github.com/mkrivchun/browserlens/internal/page"
)

// fakeHandle is a minimal page.Handle whose accessibility tree is supplied
// directly by the test. interactiveDOMCount is set to match the tree's own
// interactive-node count so probeA11yCoverage reports 1.0 by default,
// keeping routing deterministically on A11Y for scenarios that don't care
// about routing; canvasCount lets a test opt into the HasCanvas signal
// independently (S5).
type fakeHandle struct {
	url                 string
	tree                page.A11yNode
	interactiveDOMCount int
	canvasCount         int
	domNodeCount        int
	hybridRegions       []page.CanvasRegion
}

var _ page.Handle = (*fakeHandle)(nil)

func (f *fakeHandle) QuerySelectorAllCount(ctx context.Context, selector string) (int, error) {
	if strings.Contains(selector, "canvas") {
		return f.canvasCount, nil
	}
	if f.interactiveDOMCount > 0 {
		return f.interactiveDOMCount, nil
	}
	return 1, nil
}

func (f *fakeHandle) AccessibilitySnapshot(ctx context.Context, opts page.AccessibilitySnapshotOptions) (page.A11yNode, error) {
	return f.tree, nil
}

func (f *fakeHandle) DOMWalk(ctx context.Context, opts page.DOMWalkOptions) (page.DOMNode, error) {
	children := make([]page.DOMNode, 0, f.domNodeCount)
	for i := 0; i < f.domNodeCount; i++ {
		children = append(children, page.DOMNode{Tag: "div", Visible: true})
	}
	return page.DOMNode{Tag: "body", Visible: true, Children: children}, nil
}

func (f *fakeHandle) Screenshot(ctx context.Context, rect *page.CanvasRegion) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (f *fakeHandle) ObserveMutations(ctx context.Context, dur int) (page.MutationSummary, error) {
	return page.MutationSummary{}, nil
}

func (f *fakeHandle) CanvasRegions(ctx context.Context) ([]page.CanvasRegion, error) {
	return f.hybridRegions, nil
}

func (f *fakeHandle) URL(ctx context.Context) (string, error) {
	return f.url, nil
}
