package page

import "testing"

func TestStringIDHandlesStringAndFloat(t *testing.T) {
	if got := stringID("42"); got != "42" {
		t.Fatalf("expected string passthrough, got %q", got)
	}
	if got := stringID(float64(42)); got != "42" {
		t.Fatalf("expected float64 node id formatted without a decimal point, got %q", got)
	}
	if got := stringID(nil); got != "" {
		t.Fatalf("expected empty string for an unrecognized type, got %q", got)
	}
}

func TestCdpStringFieldUnwrapsValueMap(t *testing.T) {
	if got := cdpStringField(map[string]interface{}{"value": "button"}); got != "button" {
		t.Fatalf("expected unwrapped value, got %q", got)
	}
	if got := cdpStringField("bare"); got != "bare" {
		t.Fatalf("expected a bare string to pass through, got %q", got)
	}
	if got := cdpStringField(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}
}

func TestCdpBoolFieldUnwrapsValueMap(t *testing.T) {
	if got := cdpBoolField(map[string]interface{}{"value": true}); !got {
		t.Fatalf("expected true from an unwrapped value map")
	}
	if got := cdpBoolField(false); got {
		t.Fatalf("expected a bare bool to pass through unchanged")
	}
	if got := cdpBoolField("not a bool"); got {
		t.Fatalf("expected false for an unrecognized type")
	}
}

func TestA11yNodeFromCDPReadsRoleNameAndProperties(t *testing.T) {
	n := map[string]interface{}{
		"role":  map[string]interface{}{"value": "button"},
		"name":  map[string]interface{}{"value": "Submit"},
		"value": map[string]interface{}{"value": ""},
		"properties": []interface{}{
			map[string]interface{}{"name": "disabled", "value": map[string]interface{}{"value": true}},
			map[string]interface{}{"name": "live", "value": map[string]interface{}{"value": "polite"}},
		},
	}
	got := a11yNodeFromCDP(n)
	if got.Role != "button" || got.Name != "Submit" {
		t.Fatalf("expected role/name to be unwrapped, got %+v", got)
	}
	if !got.Disabled {
		t.Fatalf("expected the disabled property to be parsed as true")
	}
	if !got.LivePolite {
		t.Fatalf("expected live=polite to set LivePolite")
	}
}

func TestA11yNodeFromCDPLiveAssertiveIsNotPolite(t *testing.T) {
	n := map[string]interface{}{
		"role": map[string]interface{}{"value": "alert"},
		"properties": []interface{}{
			map[string]interface{}{"name": "live", "value": map[string]interface{}{"value": "assertive"}},
		},
	}
	got := a11yNodeFromCDP(n)
	if got.LivePolite {
		t.Fatalf("expected live=assertive to leave LivePolite false")
	}
}

func TestBuildA11yTreeAssemblesParentChildLinks(t *testing.T) {
	cdp := map[string]interface{}{
		"nodes": []interface{}{
			map[string]interface{}{
				"nodeId":   "1",
				"role":     map[string]interface{}{"value": "main"},
				"childIds": []interface{}{"2"},
			},
			map[string]interface{}{
				"nodeId": "2",
				"role":   map[string]interface{}{"value": "button"},
				"name":   map[string]interface{}{"value": "Go"},
			},
		},
	}
	root, err := buildA11yTree(cdp)
	if err != nil {
		t.Fatalf("buildA11yTree: %v", err)
	}
	if root.Role != "main" {
		t.Fatalf("expected the parentless node to become the root, got %v", root.Role)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "Go" {
		t.Fatalf("expected the child keyed by childIds to attach under the root, got %+v", root.Children)
	}
	if root.Children[0].Level != 1 {
		t.Fatalf("expected the child's depth to be 1, got %d", root.Children[0].Level)
	}
}

func TestBuildA11yTreeRejectsMalformedResult(t *testing.T) {
	if _, err := buildA11yTree("not a map"); err == nil {
		t.Fatalf("expected an error for a non-map CDP result")
	}
	if _, err := buildA11yTree(map[string]interface{}{}); err == nil {
		t.Fatalf("expected an error when the result has no nodes field")
	}
}

func TestBuildA11yTreeEmptyNodesReturnsGenericRoot(t *testing.T) {
	root, err := buildA11yTree(map[string]interface{}{"nodes": []interface{}{}})
	if err != nil {
		t.Fatalf("buildA11yTree: %v", err)
	}
	if root.Role != "generic" {
		t.Fatalf("expected a generic fallback root for an empty node set, got %v", root.Role)
	}
}
