package page

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightHandle adapts a playwright-go page into a page.Handle. It is
// the BrowserLens analogue of the teacher's internal/browser.controller and
// internal/snapshot.Collect: same CDP accessibility-tree dump, same
// page.Evaluate-based DOM walk, retargeted at the extractor contracts in
// SPEC_FULL.md §4.3 instead of a flat element list for an LLM prompt.
type PlaywrightHandle struct {
	Page playwright.Page
}

// NewPlaywrightHandle wraps an already-navigated playwright page.
func NewPlaywrightHandle(p playwright.Page) *PlaywrightHandle {
	return &PlaywrightHandle{Page: p}
}

func (h *PlaywrightHandle) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return h.Page.URL(), nil
}

func (h *PlaywrightHandle) QuerySelectorAllCount(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	locator := h.Page.Locator(selector)
	count, err := locator.Count()
	if err != nil {
		return 0, fmt.Errorf("playwright: count %q: %w", selector, err)
	}
	return count, nil
}

func (h *PlaywrightHandle) CanvasRegions(ctx context.Context) ([]CanvasRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, err := h.Page.Evaluate(canvasRegionsScript)
	if err != nil {
		return nil, fmt.Errorf("playwright: canvas regions: %w", err)
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	var regions []CanvasRegion
	if err := json.Unmarshal(raw, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

func (h *PlaywrightHandle) Screenshot(ctx context.Context, rect *CanvasRegion) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := playwright.PageScreenshotOptions{}
	if rect != nil {
		opts.Clip = &playwright.Rect{
			X:      rect.X,
			Y:      rect.Y,
			Width:  rect.W,
			Height: rect.H,
		}
	}
	bytes, err := h.Page.Screenshot(opts)
	if err != nil {
		return nil, fmt.Errorf("playwright: screenshot: %w", err)
	}
	return bytes, nil
}

func (h *PlaywrightHandle) ObserveMutations(ctx context.Context, ms int) (MutationSummary, error) {
	if err := ctx.Err(); err != nil {
		return MutationSummary{}, err
	}
	val, err := h.Page.Evaluate(mutationSampleScript, ms)
	if err != nil {
		return MutationSummary{}, fmt.Errorf("playwright: observe mutations: %w", err)
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return MutationSummary{}, err
	}
	var summary MutationSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return MutationSummary{}, err
	}
	return summary, nil
}

// AccessibilitySnapshot uses the CDP Accessibility domain, the same
// approach as the teacher's collectInteractive: it sees virtualized content
// a plain querySelectorAll walk would miss.
func (h *PlaywrightHandle) AccessibilitySnapshot(ctx context.Context, opts AccessibilitySnapshotOptions) (A11yNode, error) {
	if err := ctx.Err(); err != nil {
		return A11yNode{}, err
	}
	pwCtx := h.Page.Context()
	session, err := pwCtx.NewCDPSession(h.Page)
	if err != nil {
		return A11yNode{}, fmt.Errorf("playwright: cdp session: %w", err)
	}
	defer session.Detach()

	result, err := session.Send("Accessibility.getFullAXTree", map[string]interface{}{})
	if err != nil {
		return A11yNode{}, fmt.Errorf("playwright: getFullAXTree: %w", err)
	}
	return buildA11yTree(result)
}

// DOMWalk distills the DOM in-page, keeping only visible or interactive
// elements and a bounded attribute subset, per SPEC_FULL.md §4.3.
func (h *PlaywrightHandle) DOMWalk(ctx context.Context, opts DOMWalkOptions) (DOMNode, error) {
	if err := ctx.Err(); err != nil {
		return DOMNode{}, err
	}
	maxText := opts.MaxTextLength
	if maxText <= 0 {
		maxText = 240
	}
	val, err := h.Page.Evaluate(domWalkScript, maxText)
	if err != nil {
		return DOMNode{}, fmt.Errorf("playwright: dom walk: %w", err)
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return DOMNode{}, err
	}
	var root DOMNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return DOMNode{}, err
	}
	return root, nil
}

const canvasRegionsScript = `() => {
	const out = [];
	document.querySelectorAll("canvas,svg[data-webgl],[data-webgl]").forEach(el => {
		const r = el.getBoundingClientRect();
		if (r.width > 0 && r.height > 0) {
			out.push({X: r.x, Y: r.y, W: r.width, H: r.height});
		}
	});
	return out;
}`

const mutationSampleScript = `(ms) => new Promise(resolve => {
	let total = 0;
	let interactive = 0;
	const interactiveSelector = "a,button,input,select,textarea,[role]";
	const obs = new MutationObserver(records => {
		for (const rec of records) {
			total++;
			if (rec.target && rec.target.closest && rec.target.closest(interactiveSelector)) {
				interactive++;
			}
			rec.addedNodes && rec.addedNodes.forEach(n => {
				if (n.nodeType === 1 && (n.matches && n.matches(interactiveSelector) || (n.querySelector && n.querySelector(interactiveSelector)))) {
					interactive++;
				}
			});
		}
	});
	obs.observe(document.body, {childList: true, subtree: true, attributes: true});
	setTimeout(() => {
		obs.disconnect();
		resolve({TotalMutations: total, InteractiveSubtreeMutations: interactive});
	}, ms);
})`

const domWalkScript = `(maxText) => {
	const dataAttrNames = ["data-testid", "name", "type"];
	function isVisible(el) {
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 && rect.height === 0) return false;
		const style = window.getComputedStyle(el);
		if (style.display === "none" || style.visibility === "hidden") return false;
		if (el.getAttribute("aria-hidden") === "true") return false;
		return true;
	}
	function isInteractive(el) {
		const tag = el.tagName.toLowerCase();
		if (["a", "button", "input", "select", "textarea"].includes(tag)) return true;
		if (el.hasAttribute("role")) return true;
		return false;
	}
	function computedRole(el) {
		const explicit = el.getAttribute("role");
		if (explicit) return explicit;
		const tag = el.tagName.toLowerCase();
		const map = {a: "link", button: "button", input: "textbox", textarea: "textbox", select: "combobox", li: "listitem", nav: "navigation", main: "main", header: "header", form: "form", article: "article"};
		return map[tag] || "generic";
	}
	function accessibleName(el) {
		const label = el.getAttribute("aria-label");
		if (label) return label;
		const labelledBy = el.getAttribute("aria-labelledby");
		if (labelledBy) {
			const ref = document.getElementById(labelledBy);
			if (ref) return ref.textContent.trim();
		}
		if (el.tagName === "INPUT" && el.placeholder) return el.placeholder;
		return (el.innerText || el.textContent || "").trim().slice(0, 200);
	}
	function walk(el) {
		const visible = isVisible(el);
		const interactive = isInteractive(el);
		if (!visible && !interactive) return null;
		const rect = el.getBoundingClientRect();
		const attrs = {};
		for (const a of dataAttrNames) {
			const v = el.getAttribute(a);
			if (v) attrs[a] = v;
		}
		const children = [];
		for (const child of el.children) {
			const c = walk(child);
			if (c) children.push(c);
		}
		let text = "";
		if (children.length === 0) {
			text = (el.innerText || el.textContent || "").trim().slice(0, maxText);
		}
		return {
			Tag: el.tagName.toLowerCase(),
			Role: computedRole(el),
			Name: accessibleName(el),
			Value: el.value || "",
			Text: text,
			Visible: visible,
			Disabled: !!el.disabled,
			Focused: document.activeElement === el,
			Checked: !!el.checked,
			Pressed: el.getAttribute("aria-pressed") === "true",
			Selected: el.getAttribute("aria-selected") === "true",
			Expanded: el.getAttribute("aria-expanded") === "true",
			Readonly: !!el.readOnly,
			Required: !!el.required,
			Invalid: el.getAttribute("aria-invalid") === "true",
			Hidden: !visible,
			LivePolite: el.getAttribute("aria-live") === "polite",
			Bounds: {X: rect.x, Y: rect.y, W: rect.width, H: rect.height},
			DataAttrs: attrs,
			Children: children,
		};
	}
	return walk(document.body) || {Tag: "body", Role: "generic", Children: []};
}`

// buildA11yTree converts CDP's flat Accessibility.getFullAXTree response
// into a rooted A11yNode tree, mirroring the node/parent/child bookkeeping
// in the teacher's parseAccessibilityTree.
func buildA11yTree(cdpResult interface{}) (A11yNode, error) {
	resultMap, ok := cdpResult.(map[string]interface{})
	if !ok {
		return A11yNode{}, fmt.Errorf("invalid CDP accessibility result")
	}
	rawNodes, ok := resultMap["nodes"].([]interface{})
	if !ok {
		return A11yNode{}, fmt.Errorf("no nodes in accessibility tree")
	}

	type rawNode struct {
		id       string
		parent   string
		children []string
		node     A11yNode
	}
	byID := map[string]*rawNode{}
	var order []string

	for _, ni := range rawNodes {
		n, ok := ni.(map[string]interface{})
		if !ok {
			continue
		}
		id := stringID(n["nodeId"])
		if id == "" {
			continue
		}
		rn := &rawNode{id: id, node: a11yNodeFromCDP(n)}
		if childIDs, ok := n["childIds"].([]interface{}); ok {
			for _, c := range childIDs {
				cid := stringID(c)
				if cid != "" {
					rn.children = append(rn.children, cid)
				}
			}
		}
		byID[id] = rn
		order = append(order, id)
	}
	for _, rn := range byID {
		for _, cid := range rn.children {
			if c, ok := byID[cid]; ok {
				c.parent = rn.id
			}
		}
	}

	var roots []string
	for _, id := range order {
		if byID[id].parent == "" {
			roots = append(roots, id)
		}
	}

	var assemble func(id string, depth int) A11yNode
	assemble = func(id string, depth int) A11yNode {
		rn := byID[id]
		n := rn.node
		n.Level = depth
		for _, cid := range rn.children {
			if _, ok := byID[cid]; ok {
				n.Children = append(n.Children, assemble(cid, depth+1))
			}
		}
		return n
	}

	if len(roots) == 0 {
		return A11yNode{Role: "generic"}, nil
	}
	root := assemble(roots[0], 0)
	for _, id := range roots[1:] {
		root.Children = append(root.Children, assemble(id, 1))
	}
	return root, nil
}

func a11yNodeFromCDP(n map[string]interface{}) A11yNode {
	var out A11yNode
	out.Role = cdpStringField(n["role"])
	out.Name = cdpStringField(n["name"])
	out.Value = cdpStringField(n["value"])
	if props, ok := n["properties"].([]interface{}); ok {
		for _, p := range props {
			pm, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := pm["name"].(string)
			switch strings.ToLower(name) {
			case "disabled":
				out.Disabled = cdpBoolField(pm["value"])
			case "focused":
				out.Focused = cdpBoolField(pm["value"])
			case "checked":
				out.Checked = cdpBoolField(pm["value"])
			case "pressed":
				out.Pressed = cdpBoolField(pm["value"])
			case "selected":
				out.Selected = cdpBoolField(pm["value"])
			case "expanded":
				out.Expanded = cdpBoolField(pm["value"])
			case "readonly":
				out.Readonly = cdpBoolField(pm["value"])
			case "required":
				out.Required = cdpBoolField(pm["value"])
			case "invalid":
				out.Invalid = cdpBoolField(pm["value"])
			case "hidden":
				out.Hidden = cdpBoolField(pm["value"])
			case "live":
				out.LivePolite = cdpStringField(pm["value"]) == "polite"
			}
		}
	}
	return out
}

func cdpStringField(v interface{}) string {
	m, ok := v.(map[string]interface{})
	if !ok {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}
	if s, ok := m["value"].(string); ok {
		return s
	}
	return ""
}

func cdpBoolField(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		if b, ok := v.(bool); ok {
			return b
		}
		return false
	}
	b, _ := m["value"].(bool)
	return b
}

func stringID(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}
