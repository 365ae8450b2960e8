package signals

import (
	"net/url"
	"strings"
)

// pageKindRule is one entry of the fixed classification table (§4.1). Rules
// are evaluated in order; the first whose any pattern matches the URL path
// wins.
type pageKindRule struct {
	kind     PageKind
	patterns []string
}

// pageKindRules extends the distilled spec's bare mention of "a fixed rule
// table" with the concrete patterns an original browser-automation agent
// would need (SPEC_FULL.md §4.1).
var pageKindRules = []pageKindRule{
	{PageKindForm, []string{"/checkout", "/signup", "/register", "/login", "/sign-in", "/sign-up", "/form"}},
	{PageKindDashboard, []string{"/dashboard", "/admin", "/console", "/analytics", "/overview"}},
	{PageKindListing, []string{"/search", "/products", "/listing", "/results", "/catalog", "/browse"}},
	{PageKindDocument, []string{"/docs", "/article", "/blog", "/wiki", "/help"}},
}

// ClassifyPageKind classifies a page kind from its URL's path segments
// (§4.1). Returns PageKindUnknown on no match.
func ClassifyPageKind(rawURL string) PageKind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PageKindUnknown
	}
	path := strings.ToLower(u.Path)
	for _, rule := range pageKindRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(path, pattern) {
				return rule.kind
			}
		}
	}
	return PageKindUnknown
}
