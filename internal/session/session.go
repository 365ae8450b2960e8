// Package session implements the Orchestrator (C8): the single public entry
// point that strings signals, routing, extraction, ref assignment, diffing,
// and filtering into one observe() call per §4.8, with the FRESH/DIFFING/
// RECOVERING state machine of §5.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkrivchun/browserlens/internal/diff"
	"github.com/mkrivchun/browserlens/internal/extract"
	"github.com/mkrivchun/browserlens/internal/filter"
	"github.com/mkrivchun/browserlens/internal/match"
	"github.com/mkrivchun/browserlens/internal/model"
	"github.com/mkrivchun/browserlens/internal/page"
	"github.com/mkrivchun/browserlens/internal/refs"
	"github.com/mkrivchun/browserlens/internal/router"
	"github.com/mkrivchun/browserlens/internal/signals"
	"github.com/mkrivchun/browserlens/internal/store"
)

// State is the session's place in the FRESH/DIFFING/RECOVERING machine (§5).
type State string

const (
	StateFresh      State = "FRESH"
	StateDiffing    State = "DIFFING"
	StateRecovering State = "RECOVERING"
)

// Per-phase timeout defaults (§5 "Timeouts are per-phase ... 600 ms / 2000
// ms / 200 ms").
const (
	DefaultSignalTimeout  = 600 * time.Millisecond
	DefaultExtractTimeout = 2000 * time.Millisecond
	DefaultDiffTimeout    = 200 * time.Millisecond
)

// Config holds every tunable named in §6's configuration table.
type Config struct {
	A11yFullThreshold float64
	DomNodeCap        int
	HybridMinCoverage float64
	NameLengthCap     int
	RefSessionCap     int
	SnapshotTTL       time.Duration
	DynamicProbe      bool
	Router            router.Func
	Filter            *filter.Filter

	SignalTimeout  time.Duration
	ExtractTimeout time.Duration
	DiffTimeout    time.Duration

	Logger zerolog.Logger
}

// DefaultConfig matches the defaults table in §6.
func DefaultConfig() Config {
	return Config{
		A11yFullThreshold: router.DefaultThresholds().A11yFullThreshold,
		DomNodeCap:        router.DefaultThresholds().DomNodeCap,
		HybridMinCoverage: router.DefaultThresholds().HybridMinCoverage,
		NameLengthCap:     model.DefaultNameLengthCap,
		RefSessionCap:     refs.DefaultSessionCap,
		SnapshotTTL:       signals.DefaultTTL,
		DynamicProbe:      false,
		Router:            router.Default,
		Filter:            filter.New(),
		SignalTimeout:     DefaultSignalTimeout,
		ExtractTimeout:    DefaultExtractTimeout,
		DiffTimeout:       DefaultDiffTimeout,
		Logger:            zerolog.Nop(),
	}
}

func (c Config) validate() error {
	switch {
	case c.A11yFullThreshold < 0 || c.A11yFullThreshold > 1:
		return newErr(KindConfigurationError, "a11y_full_threshold must be in [0,1]")
	case c.HybridMinCoverage < 0 || c.HybridMinCoverage > 1:
		return newErr(KindConfigurationError, "hybrid_min_coverage must be in [0,1]")
	case c.DomNodeCap <= 0:
		return newErr(KindConfigurationError, "dom_node_cap must be positive")
	case c.RefSessionCap <= 0:
		return newErr(KindConfigurationError, "ref_session_cap must be positive")
	}
	return nil
}

func (c Config) thresholds() router.Thresholds {
	return router.Thresholds{
		A11yFullThreshold: c.A11yFullThreshold,
		DomNodeCap:        c.DomNodeCap,
		HybridMinCoverage: c.HybridMinCoverage,
	}
}

// ObserveOptions narrows one observe() call (§6).
type ObserveOptions struct {
	ForceFull    bool
	Router       router.Func
	Filter       *filter.Filter
	DynamicProbe *bool
}

// Session is one agent loop's page-observation state: a signal cache, a
// ref manager, a snapshot store, and the FRESH/DIFFING/RECOVERING state
// (§5 "one session serves one agent loop").
type Session struct {
	cfg Config

	mu       sync.Mutex
	busy     bool
	state    State
	cache    *signals.Cache
	refMgr   *refs.Manager
	snapshot *store.Store
	logger   zerolog.Logger
}

// New creates a Session, validating cfg (§7 ConfigurationError).
func New(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Router == nil {
		cfg.Router = router.Default
	}
	if cfg.Filter == nil {
		cfg.Filter = filter.New()
	}
	if cfg.SignalTimeout <= 0 {
		cfg.SignalTimeout = DefaultSignalTimeout
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = DefaultExtractTimeout
	}
	if cfg.DiffTimeout <= 0 {
		cfg.DiffTimeout = DefaultDiffTimeout
	}
	return &Session{
		cfg:      cfg,
		state:    StateFresh,
		cache:    signals.NewCache(signals.DefaultCacheSize, cfg.SnapshotTTL),
		refMgr:   refs.NewManager(cfg.RefSessionCap),
		snapshot: store.New(),
		logger:   cfg.Logger,
	}, nil
}

// State reports the session's current place in the state machine.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset clears the snapshot and refs, returning the session to FRESH (§6
// "Session.reset() clears snapshot and refs").
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Clear()
	s.refMgr.Reset()
	s.cache.Clear()
	s.state = StateFresh
}

// Observe runs the five-step protocol of §4.8 against h.
func (s *Session) Observe(ctx context.Context, h page.Handle, opts ObserveOptions) (model.Observation, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return model.Observation{}, newErr(KindConcurrentObservation, "observe already in flight for this session")
	}
	s.busy = true
	state := s.state
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	routeFn := s.cfg.Router
	if opts.Router != nil {
		routeFn = opts.Router
	}
	filt := s.cfg.Filter
	if opts.Filter != nil {
		filt = opts.Filter
	}
	dynamicProbe := s.cfg.DynamicProbe
	if opts.DynamicProbe != nil {
		dynamicProbe = *opts.DynamicProbe
	}

	// Step 1: signals + routing. signals.Probe never fails outright — a
	// sub-probe error is already absorbed into a conservative default and
	// only surfaced here for logging.
	sigCtx, cancel := context.WithTimeout(ctx, s.cfg.SignalTimeout)
	sig, probeErr := signals.Probe(sigCtx, h, signals.Options{DynamicProbe: dynamicProbe, Cache: s.cache})
	cancel()
	if probeErr != nil {
		s.logger.Debug().Err(probeErr).Msg("signal probe: one or more sub-probes fell back to conservative defaults")
	}
	kind := routeFn(sig, s.cfg.thresholds())
	s.logger.Debug().Str("route", string(kind)).Float64("a11y_coverage", sig.A11yCoverage).Msg("routed representation")

	// Step 2: extraction.
	extractor, err := extract.Dispatch(kind)
	if err != nil {
		return model.Observation{}, wrapErr(KindConfigurationError, err)
	}
	extractCtx, cancel := context.WithTimeout(ctx, s.cfg.ExtractTimeout)
	extractCfg := extract.DefaultConfig()
	extractCfg.NameLengthCap = s.cfg.NameLengthCap
	newTree, err := extractor.Extract(extractCtx, h, sig, extractCfg)
	timedOut := extractCtx.Err() == context.DeadlineExceeded
	cancel()
	if err != nil {
		if timedOut {
			s.transitionRecovering()
			return model.Observation{}, wrapErr(KindExtractionTimeout, err)
		}
		return model.Observation{}, wrapErr(KindPageUnavailable, err)
	}

	prevTree := s.snapshot.Get()
	forceFull := opts.ForceFull || state != StateDiffing || prevTree == nil

	var result *match.Result
	if !forceFull {
		result = match.Match(prevTree, newTree)
	} else {
		result = &match.Result{}
		flat, _ := newTree.Flatten()
		for _, fn := range flat {
			result.UnmatchedNew = append(result.UnmatchedNew, fn.Node)
		}
	}

	// Step 3: ref assignment, consulting the previous tree via result.
	overflowed := s.refMgr.Resolve(result, newTree)
	if overflowed {
		forceFull = true
		s.logger.Warn().Msg("ref session cap exceeded, compacted and forcing full emission")
	}

	obs := model.Observation{Refs: newTree.RefMap()}

	if forceFull {
		obs.Kind = model.KindFull
		obs.Tree = newTree
	} else {
		diffCtx, cancel := context.WithTimeout(ctx, s.cfg.DiffTimeout)
		d, derr := s.runDiff(diffCtx, prevTree, newTree, result, filt)
		cancel()
		if derr != nil {
			s.transitionRecovering()
			if derr == context.DeadlineExceeded {
				return model.Observation{}, wrapErr(KindExtractionTimeout, derr)
			}
			return model.Observation{}, wrapErr(KindDiffFailure, derr)
		}
		obs.Kind = model.KindDelta
		obs.Delta = d
		obs.UnchangedSummary = &d.UnchangedSummary
		obs.CauseHint = d.CauseHint
	}

	// Step 5: commit only once everything above succeeded.
	s.snapshot.Put(newTree)
	s.mu.Lock()
	s.state = StateDiffing
	s.mu.Unlock()

	return obs, nil
}

// runDiff computes and filters the delta; isolated so diffCtx's deadline can
// guard against a pathological matcher/filter taking too long (§5 per-phase
// timeouts include "diff"). A recovered panic is treated as the matcher's
// internal invariant violation (§7 DiffFailure); a deadline is a plain
// timeout, translated back to ExtractionTimeout by the caller.
func (s *Session) runDiff(ctx context.Context, prev, newTree *model.StateTree, result *match.Result, filt *filter.Filter) (d *model.Delta, err error) {
	done := make(chan *model.Delta, 1)
	errc := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errc <- errorsFromPanic(r)
			}
		}()
		dd := diff.Diff(prev, newTree, result)
		fctx := filter.NewContext(prev, newTree)
		done <- filt.Apply(dd, fctx)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case e := <-errc:
		return nil, e
	case d := <-done:
		return d, nil
	}
}

func (s *Session) transitionRecovering() {
	s.mu.Lock()
	s.state = StateRecovering
	s.mu.Unlock()
}
