// Package extract implements the four extractors (C3): A11Y, distilled
// DOM, Hybrid, and Vision, each producing a normalized model.StateTree
// rooted at a synthetic "document" node (§4.3).
package extract

import (
	"context"
	"fmt"

	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/router"
	"github.com/mkrivchun/browserlens/internal/signals"
)

// Config carries the extractor-tunable options from session.Config (§6).
type Config struct {
	NameLengthCap int
	// DOMTextCap is the per-node text cap for the distilled DOM extractor
	// (default 240, per §4.3 — distinct from NameLengthCap's default 200).
	DOMTextCap int
}

// DefaultConfig matches the configuration defaults table (§6) plus §4.3's
// DOM text cap.
func DefaultConfig() Config {
	return Config{NameLengthCap: model.DefaultNameLengthCap, DOMTextCap: 240}
}

// Extractor produces a StateTree for one representation kind.
type Extractor interface {
	Extract(ctx context.Context, h page.Handle, sig signals.Signals, cfg Config) (*model.StateTree, error)
}

// Dispatch returns the Extractor for kind (§2 "C3 dispatches to one
// extractor").
func Dispatch(kind router.Kind) (Extractor, error) {
	switch kind {
	case router.A11Y:
		return A11yExtractor{}, nil
	case router.DistilledDOM:
		return DOMExtractor{}, nil
	case router.Hybrid:
		return HybridExtractor{}, nil
	case router.Vision:
		return VisionExtractor{}, nil
	default:
		return nil, fmt.Errorf("extract: unknown representation kind %q", kind)
	}
}

func capLen(cfg Config) int {
	if cfg.NameLengthCap > 0 {
		return cfg.NameLengthCap
	}
	return model.DefaultNameLengthCap
}

func textCap(cfg Config) int {
	if cfg.DOMTextCap > 0 {
		return cfg.DOMTextCap
	}
	return 240
}

func stateFromFlags(disabled, focused, checked, pressed, selected, expanded, readonly, required, invalid, hidden, livePolite bool) model.StateSet {
	var flags []model.StateFlag
	add := func(v bool, f model.StateFlag) {
		if v {
			flags = append(flags, f)
		}
	}
	add(disabled, model.StateDisabled)
	add(focused, model.StateFocused)
	add(checked, model.StateChecked)
	add(pressed, model.StatePressed)
	add(selected, model.StateSelected)
	add(expanded, model.StateExpanded)
	add(readonly, model.StateReadonly)
	add(required, model.StateRequired)
	add(invalid, model.StateInvalid)
	add(hidden, model.StateHidden)
	add(livePolite, model.StateLivePolite)
	return model.NewStateSet(flags...)
}
