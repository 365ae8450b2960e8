// Package page defines the external page-handle surface BrowserLens's core
// consumes (§6 of SPEC_FULL.md). The browser driver itself is out of scope
// for the core; this package only pins down the interface and the raw wire
// shapes the extractors translate into model.StateTree.
package page

import "context"

// A11yNode is one raw node from an accessibility-tree dump.
type A11yNode struct {
	Role       string
	Name       string
	Value      string
	Disabled   bool
	Focused    bool
	Checked    bool
	Pressed    bool
	Selected   bool
	Expanded   bool
	Readonly   bool
	Required   bool
	Invalid    bool
	Hidden     bool
	LivePolite bool
	Level      int
	Children   []A11yNode
}

// DOMNode is one raw node from a distilled DOM walk.
type DOMNode struct {
	Tag        string
	Role       string // computed role, "" if none
	Name       string // computed accessible name
	Value      string
	Text       string // text content for leaves
	Visible    bool
	Disabled   bool
	Focused    bool
	Checked    bool
	Pressed    bool
	Selected   bool
	Expanded   bool
	Readonly   bool
	Required   bool
	Invalid    bool
	Hidden     bool
	LivePolite bool
	Bounds     *struct{ X, Y, W, H float64 }
	// DataAttrs carries a bounded attribute subset: data-testid, name,
	// type.
	DataAttrs map[string]string
	Children  []DOMNode
}

// CanvasRegion is one canvas/WebGL element's bounding box, used by the
// Hybrid extractor to place vision-region leaves (§4.3).
type CanvasRegion struct {
	X, Y, W, H float64
}

// MutationSummary is the outcome of a short mutation-observer sample (§4.1).
type MutationSummary struct {
	TotalMutations             int
	InteractiveSubtreeMutations int
}

// AccessibilitySnapshotOptions narrows the a11y dump (e.g. interesting-only).
type AccessibilitySnapshotOptions struct {
	InterestingOnly bool
}

// DOMWalkOptions narrows the DOM walk.
type DOMWalkOptions struct {
	MaxTextLength int
}

// Handle is the minimal page surface the core requires (§6). A real
// implementation wraps a browser automation driver (see
// internal/page/playwright.go); tests use a fake.
type Handle interface {
	// QuerySelectorAllCount returns the number of elements matching selector.
	QuerySelectorAllCount(ctx context.Context, selector string) (int, error)
	// AccessibilitySnapshot returns the full accessibility tree.
	AccessibilitySnapshot(ctx context.Context, opts AccessibilitySnapshotOptions) (A11yNode, error)
	// DOMWalk returns the distilled DOM described in §4.3.
	DOMWalk(ctx context.Context, opts DOMWalkOptions) (DOMNode, error)
	// Screenshot captures the page, or a region of it when rect is non-nil.
	Screenshot(ctx context.Context, rect *CanvasRegion) ([]byte, error)
	// ObserveMutations samples DOM mutations for the given duration.
	ObserveMutations(ctx context.Context, dur int) (MutationSummary, error)
	// CanvasRegions returns the bounding boxes of canvas/WebGL elements.
	CanvasRegions(ctx context.Context) ([]CanvasRegion, error)
	// URL returns the page's current URL.
	URL(ctx context.Context) (string, error)
}
