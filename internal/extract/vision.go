package extract

import (
	"bytes"
	"context"
	"image"
	_ "image/png"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

// VisionExtractor produces a tree with a single vision-region child
// carrying the full-page screenshot and no semantic children (§4.3).
type VisionExtractor struct{}

var _ Extractor = VisionExtractor{}

func (VisionExtractor) Extract(ctx context.Context, h page.Handle, sig signals.Signals, cfg Config) (*model.StateTree, error) {
	shot, err := h.Screenshot(ctx, nil)
	if err != nil {
		return nil, err
	}
	// image.DecodeConfig reads only the PNG header, not the full image, to
	// recover the page's pixel bounds without a dedicated viewport query
	// (no pack library exposes "decode just the header"; this is stdlib,
	// justified in DESIGN.md).
	bounds := &model.Bounds{}
	if cfg2, _, derr := image.DecodeConfig(bytes.NewReader(shot)); derr == nil {
		bounds.W = float64(cfg2.Width)
		bounds.H = float64(cfg2.Height)
	}
	leaf := &model.Node{
		Role:        model.RoleGeneric,
		Origin:      model.OriginVisionRegion,
		Bounds:      bounds,
		VisionToken: shot,
	}
	return model.NewDocumentTree(leaf), nil
}
