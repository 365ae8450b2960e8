package extract

import (
	"context"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

// HybridExtractor runs the A11Y extractor for chrome, then injects a
// vision-region leaf per canvas/WebGL bounding box, anchored under the
// nearest ancestor with a region-like role (§4.3).
type HybridExtractor struct{}

var _ Extractor = HybridExtractor{}

func (HybridExtractor) Extract(ctx context.Context, h page.Handle, sig signals.Signals, cfg Config) (*model.StateTree, error) {
	tree, err := (A11yExtractor{}).Extract(ctx, h, sig, cfg)
	if err != nil {
		return nil, err
	}
	regions, err := h.CanvasRegions(ctx)
	if err != nil || len(regions) == 0 {
		// A canvas-probe failure here shouldn't abort an otherwise valid
		// a11y-chrome tree; the router only routed here believing a canvas
		// exists, so an empty/failed region list just yields no leaves.
		return tree, nil
	}
	for _, region := range regions {
		token, shotErr := h.Screenshot(ctx, &region)
		if shotErr != nil {
			token = nil
		}
		leaf := &model.Node{
			Role:        model.RoleGeneric,
			Origin:      model.OriginVisionRegion,
			Bounds:      &model.Bounds{X: region.X, Y: region.Y, W: region.W, H: region.H},
			VisionToken: token,
		}
		anchor := findVisionAnchor(tree.Root)
		anchor.Children = append(anchor.Children, leaf)
	}
	return tree, nil
}

// findVisionAnchor returns the deepest node whose role is a valid vision
// anchor (the first in pre-order among equally deep ones), falling back to
// the tree root when none exists. The canvas region's position is not
// consulted: a11y-derived nodes carry no bounds to compare it against.
func findVisionAnchor(root *model.Node) *model.Node {
	var found *model.Node
	foundDepth := -1
	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		if n == nil {
			return
		}
		if model.IsVisionAnchor(n.Role) && depth > foundDepth {
			found = n
			foundDepth = depth
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	if found != nil {
		return found
	}
	return root
}
