package extract

import (
	"context"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

// A11yExtractor walks the full accessibility tree, dropping none/
// presentation roles and collapsing their children into the parent (§4.3).
type A11yExtractor struct{}

var _ Extractor = A11yExtractor{}

func (A11yExtractor) Extract(ctx context.Context, h page.Handle, sig signals.Signals, cfg Config) (*model.StateTree, error) {
	raw, err := h.AccessibilitySnapshot(ctx, page.AccessibilitySnapshotOptions{})
	if err != nil {
		return nil, err
	}
	body := convertA11y(raw, cfg)
	return model.NewDocumentTree(body), nil
}

// convertA11y converts one a11y wire node (plus its subtree) into model
// Nodes, collapsing pruned roles' children into the nearest kept ancestor.
func convertA11y(n page.A11yNode, cfg Config) *model.Node {
	nodes := convertA11yChildren([]page.A11yNode{n}, cfg, false)
	if len(nodes) == 0 {
		return &model.Node{Role: model.RoleGeneric, Origin: model.OriginA11y}
	}
	return nodes[0]
}

// convertA11yChildren converts children's subtrees, pruning none/
// presentation roles and threading ancestorLive down so every descendant of
// an aria-live="polite" region carries StateLivePolite, not just the region
// root (§4.7's live-region rule applies to the whole subtree).
func convertA11yChildren(children []page.A11yNode, cfg Config, ancestorLive bool) []*model.Node {
	var out []*model.Node
	for _, c := range children {
		role := model.Role(c.Role)
		if role == "" {
			role = model.RoleGeneric
		}
		live := ancestorLive || c.LivePolite
		kids := convertA11yChildren(c.Children, cfg, live)
		if model.IsPruned(role) {
			// Presentation/none roles vanish; their children attach to
			// this node's parent instead (invariant-preserving prune).
			out = append(out, kids...)
			continue
		}
		node := &model.Node{
			Role:     role,
			Name:     model.NormalizeName(c.Name, capLen(cfg)),
			Value:    c.Value,
			State:    stateFromFlags(c.Disabled, c.Focused, c.Checked, c.Pressed, c.Selected, c.Expanded, c.Readonly, c.Required, c.Invalid, c.Hidden, live),
			Level:    c.Level,
			Origin:   model.OriginA11y,
			Children: kids,
		}
		out = append(out, node)
	}
	return out
}
