package extract

import (
	"context"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/signals"
)

// DOMExtractor walks the distilled DOM, keeping only visible or interactive
// elements with a fixed attribute set (§4.3).
type DOMExtractor struct{}

var _ Extractor = DOMExtractor{}

func (DOMExtractor) Extract(ctx context.Context, h page.Handle, sig signals.Signals, cfg Config) (*model.StateTree, error) {
	root, err := h.DOMWalk(ctx, page.DOMWalkOptions{MaxTextLength: textCap(cfg)})
	if err != nil {
		return nil, err
	}
	body := convertDOM(root, cfg, false)
	return model.NewDocumentTree(body), nil
}

// convertDOM threads ancestorLive down the walk so every descendant of an
// aria-live="polite" container carries StateLivePolite (§4.7).
func convertDOM(n page.DOMNode, cfg Config, ancestorLive bool) *model.Node {
	role := model.Role(n.Role)
	if role == "" {
		role = model.RoleGeneric
	}
	name := model.NormalizeName(n.Name, capLen(cfg))
	if name == "" && n.Text != "" {
		name = model.NormalizeName(n.Text, textCap(cfg))
	}
	live := ancestorLive || n.LivePolite
	node := &model.Node{
		Role:   role,
		Name:   name,
		Value:  n.Value,
		State:  stateFromFlags(n.Disabled, n.Focused, n.Checked, n.Pressed, n.Selected, n.Expanded, n.Readonly, n.Required, n.Invalid, n.Hidden, live),
		Origin: model.OriginDOM,
	}
	if n.Bounds != nil {
		node.Bounds = &model.Bounds{X: n.Bounds.X, Y: n.Bounds.Y, W: n.Bounds.W, H: n.Bounds.H}
	}
	for _, c := range n.Children {
		if !c.Visible && !isInteractiveDOMRole(model.Role(c.Role), c.Tag) {
			continue
		}
		node.Children = append(node.Children, convertDOM(c, cfg, live))
	}
	return node
}

var interactiveDOMTags = map[string]bool{
	"a": true, "button": true, "input": true, "select": true, "textarea": true,
}

func isInteractiveDOMRole(role model.Role, tag string) bool {
	if interactiveDOMTags[tag] {
		return true
	}
	switch role {
	case model.RoleButton, model.RoleLink, model.RoleTextbox, model.RoleCheckbox,
		model.RoleRadio, model.RoleCombobox, model.RoleOption, model.RoleMenuItem, model.RoleTab:
		return true
	}
	return false
}
