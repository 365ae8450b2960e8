// Package router implements the Representation Router (C2): a pure function
// from cheap signals to a representation kind (§4.2).
package router

import "github.com/mkrivchun/browserlens/internal/signals"

// Kind is one of the representations the extractors can produce (§3).
type Kind string

const (
	A11Y          Kind = "A11Y"
	DistilledDOM  Kind = "DISTILLED_DOM"
	Hybrid        Kind = "HYBRID"
	Vision        Kind = "VISION"
)

// Thresholds are the configurable decision points of §4.2, surfaced as
// Config fields (§6).
type Thresholds struct {
	A11yFullThreshold  float64
	DomNodeCap         int
	HybridMinCoverage  float64
}

// DefaultThresholds matches the configuration defaults table (§6).
func DefaultThresholds() Thresholds {
	return Thresholds{
		A11yFullThreshold: 0.8,
		DomNodeCap:        2000,
		HybridMinCoverage: 0.5,
	}
}

// Func is the router's capability signature: pure, side-effect-free,
// pluggable (§4.2, Design Notes §9 "capability object rather than
// inheritance").
type Func func(sig signals.Signals, th Thresholds) Kind

// Default implements the five ordered rules of §4.2, first match wins.
func Default(sig signals.Signals, th Thresholds) Kind {
	switch {
	case sig.HasCanvas && sig.A11yCoverage < th.HybridMinCoverage:
		return Hybrid
	case sig.A11yCoverage >= th.A11yFullThreshold:
		return A11Y
	case sig.DomNodeCount < th.DomNodeCap && sig.A11yCoverage >= th.HybridMinCoverage:
		return DistilledDOM
	case sig.A11yCoverage < 0.2 && sig.DomNodeCount >= th.DomNodeCap:
		return Vision
	default:
		return Hybrid
	}
}
