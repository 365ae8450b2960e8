// Package signals implements the Signal Probe (C1): a fast, side-effect-free
// collector of cheap structural signals from a page handle (§4.1).
package signals

import (
	"context"
	"math"
	"net/url"
	"time"

	"go.uber.org/multierr"

	"github.com/mkrivchun/browserlens/internal/page"
)

// PageKind classifies the kind of page being observed (§3).
type PageKind string

const (
	PageKindForm      PageKind = "form"
	PageKindDashboard PageKind = "dashboard"
	PageKindDocument  PageKind = "document"
	PageKindListing   PageKind = "listing"
	PageKindUnknown   PageKind = "unknown"
)

// Signals is the flat record produced by a probe (§3).
type Signals struct {
	HasCanvas     bool
	A11yCoverage  float64
	DomNodeCount  int
	DomMaxDepth   int
	DynamicRatio  *float64
	PageKind      PageKind
	URLOrigin     string
}

// Options configures one probe call.
type Options struct {
	DynamicProbe bool
	// SampleMillis overrides the dynamic-mutation sample duration (default 500ms).
	SampleMillis int
	Cache        *Cache
}

// interactiveDOMSelector mirrors the interactive-element definition the DOM
// extractor itself uses (§4.3): form controls, links, buttons, role=*.
const interactiveDOMSelector = "a,button,input,select,textarea,[role]"

// conservativeDefault is substituted for any single sub-probe failure,
// biasing the router toward richer representations (§4.1).
var conservativeDefault = Signals{
	HasCanvas:    true,
	A11yCoverage: 0.0,
	DomNodeCount: math.MaxInt32,
	PageKind:     PageKindUnknown,
}

// Probe collects Signals from h without mutating page state. Any single
// sub-probe error is caught, replaced by its conservative default, and
// aggregated (via multierr) into the returned non-fatal error for logging —
// Probe itself never fails outright.
func Probe(ctx context.Context, h page.Handle, opts Options) (Signals, error) {
	budget := 100 * time.Millisecond
	if opts.DynamicProbe {
		budget = 600 * time.Millisecond
	}
	probeCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	urlStr, err := h.URL(probeCtx)
	var errs error
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	origin := urlOrigin(urlStr)

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(origin); ok {
			return cached, nil
		}
	}

	sig := Signals{URLOrigin: origin}

	hasCanvas, err := probeCanvas(probeCtx, h)
	if err != nil {
		errs = multierr.Append(errs, err)
		sig.HasCanvas = conservativeDefault.HasCanvas
	} else {
		sig.HasCanvas = hasCanvas
	}

	coverage, err := probeA11yCoverage(probeCtx, h)
	if err != nil {
		errs = multierr.Append(errs, err)
		sig.A11yCoverage = conservativeDefault.A11yCoverage
	} else {
		sig.A11yCoverage = coverage
	}

	count, depth, err := probeDOMShape(probeCtx, h)
	if err != nil {
		errs = multierr.Append(errs, err)
		sig.DomNodeCount = conservativeDefault.DomNodeCount
	} else {
		sig.DomNodeCount = count
		sig.DomMaxDepth = depth
	}

	if opts.DynamicProbe {
		sample := opts.SampleMillis
		if sample <= 0 {
			sample = 500
		}
		ratio, err := probeDynamicRatio(probeCtx, h, sample)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			sig.DynamicRatio = &ratio
		}
	}

	sig.PageKind = ClassifyPageKind(urlStr)

	if opts.Cache != nil {
		opts.Cache.Put(origin, sig)
	}

	return sig, errs
}

func probeCanvas(ctx context.Context, h page.Handle) (bool, error) {
	count, err := h.QuerySelectorAllCount(ctx, "canvas,svg[data-webgl],[data-webgl]")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func probeA11yCoverage(ctx context.Context, h page.Handle) (float64, error) {
	tree, err := h.AccessibilitySnapshot(ctx, page.AccessibilitySnapshotOptions{InterestingOnly: true})
	if err != nil {
		return 0, err
	}
	a11yInteractive := countInteractiveA11y(tree)

	domInteractive, err := h.QuerySelectorAllCount(ctx, interactiveDOMSelector)
	if err != nil {
		return 0, err
	}
	if domInteractive < 1 {
		domInteractive = 1
	}
	coverage := float64(a11yInteractive) / float64(domInteractive)
	if coverage > 1 {
		coverage = 1
	}
	if coverage < 0 {
		coverage = 0
	}
	return coverage, nil
}

var interactiveA11yRoles = map[string]bool{
	"button": true, "link": true, "textbox": true, "checkbox": true,
	"radio": true, "radiogroup": true, "combobox": true, "menuitem": true,
	"tab": true, "option": true, "listbox": true, "treeitem": true,
}

func countInteractiveA11y(n page.A11yNode) int {
	count := 0
	if interactiveA11yRoles[n.Role] {
		count++
	}
	for _, c := range n.Children {
		count += countInteractiveA11y(c)
	}
	return count
}

// probeDOMShape reuses the distilled DOM walk to derive node count and max
// depth. A dedicated full-DOM scripted walk would be more exact; the
// distilled walk is a conservative proxy that stays within the probe's time
// budget and avoids a second distinct page-handle operation.
func probeDOMShape(ctx context.Context, h page.Handle) (count, depth int, err error) {
	root, err := h.DOMWalk(ctx, page.DOMWalkOptions{})
	if err != nil {
		return 0, 0, err
	}
	count, depth = measureDOM(root, 0)
	return count, depth, nil
}

func measureDOM(n page.DOMNode, level int) (count, maxDepth int) {
	count = 1
	maxDepth = level
	for _, c := range n.Children {
		cCount, cDepth := measureDOM(c, level+1)
		count += cCount
		if cDepth > maxDepth {
			maxDepth = cDepth
		}
	}
	return count, maxDepth
}

func probeDynamicRatio(ctx context.Context, h page.Handle, sampleMillis int) (float64, error) {
	summary, err := h.ObserveMutations(ctx, sampleMillis)
	if err != nil {
		return 0, err
	}
	if summary.TotalMutations == 0 {
		return 0, nil
	}
	ratio := float64(summary.InteractiveSubtreeMutations) / float64(summary.TotalMutations)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio, nil
}

func urlOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
