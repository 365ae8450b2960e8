package router

import (
	"testing"

	"github.com/mkrivchun/browserlens/internal/signals"
)

func TestDefaultRoutesCanvasLowCoverageToHybrid(t *testing.T) {
	th := DefaultThresholds()
	sig := signals.Signals{HasCanvas: true, A11yCoverage: 0.1}
	if got := Default(sig, th); got != Hybrid {
		t.Fatalf("expected Hybrid for canvas + low a11y coverage, got %v", got)
	}
}

func TestDefaultRoutesHighCoverageToA11y(t *testing.T) {
	th := DefaultThresholds()
	sig := signals.Signals{HasCanvas: false, A11yCoverage: 0.95}
	if got := Default(sig, th); got != A11Y {
		t.Fatalf("expected A11Y for high a11y coverage, got %v", got)
	}
}

func TestDefaultRoutesSmallDomModerateCoverageToDistilledDOM(t *testing.T) {
	th := DefaultThresholds()
	sig := signals.Signals{A11yCoverage: 0.6, DomNodeCount: 500}
	if got := Default(sig, th); got != DistilledDOM {
		t.Fatalf("expected DISTILLED_DOM, got %v", got)
	}
}

func TestDefaultRoutesLargeDomLowCoverageToVision(t *testing.T) {
	th := DefaultThresholds()
	sig := signals.Signals{A11yCoverage: 0.05, DomNodeCount: 5000}
	if got := Default(sig, th); got != Vision {
		t.Fatalf("expected VISION for a huge low-coverage DOM, got %v", got)
	}
}

func TestDefaultFallsBackToHybrid(t *testing.T) {
	th := DefaultThresholds()
	// Fails every named rule: no canvas, moderate coverage below the a11y
	// full threshold, DOM too big for distilled-dom but coverage too high
	// for the vision rule's < 0.2 cutoff.
	sig := signals.Signals{A11yCoverage: 0.3, DomNodeCount: 5000}
	if got := Default(sig, th); got != Hybrid {
		t.Fatalf("expected the catch-all Hybrid fallback, got %v", got)
	}
}

func TestDefaultRulesAreOrderedCanvasFirst(t *testing.T) {
	th := DefaultThresholds()
	// High a11y coverage would otherwise route to A11Y, but HasCanvas's
	// rule only fires under HybridMinCoverage - confirm canvas at high
	// coverage does NOT force Hybrid (first rule genuinely not matched).
	sig := signals.Signals{HasCanvas: true, A11yCoverage: 0.95}
	if got := Default(sig, th); got != A11Y {
		t.Fatalf("expected high coverage to win over a non-triggering canvas rule, got %v", got)
	}
}
