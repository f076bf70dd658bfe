// Package pipeline runs height computations with caching and history.
//
// This package is the single entry point used by the CLI and the API server.
// By centralizing validation, cache lookups and run recording here, both
// surfaces behave identically.
//
// # Architecture
//
// A run goes through four steps:
//
//  1. Validate: apply defaults and reject bad options
//  2. Lookup: return a cached height unless a refresh was requested
//  3. Simulate: drop rocks exactly, or until a cycle is confirmed
//  4. Record: store the height in the cache and the run in the history
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Pattern: ">>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>",
//	    Rocks:   1_000_000_000_000,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Height)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rocktower/pkg/cache"
	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/sim"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Simulation modes.
const (
	// ModeExact drops every rock.
	ModeExact = "exact"

	// ModeExtrapolate simulates until a cycle is confirmed and projects the rest.
	ModeExtrapolate = "extrapolate"
)

const (
	// DefaultRocks is the rock count used when none is given.
	DefaultRocks = 2022

	// DefaultMode is the simulation mode used when none is given.
	DefaultMode = ModeExtrapolate

	// DefaultSurfaceDepth caps the silhouette depth used for cycle detection.
	DefaultSurfaceDepth = sim.DefaultSurfaceDepth

	// MaxExactRocks bounds exact runs. Exact mode keeps every row of the
	// tower, about 1.5 rows per rock, so larger counts must extrapolate.
	MaxExactRocks = 10_000_000
)

// ValidModes lists the supported simulation modes.
var ValidModes = []string{ModeExact, ModeExtrapolate}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for one run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Pattern      string `json:"pattern"`
	Rocks        int64  `json:"rocks,omitempty"`
	Mode         string `json:"mode,omitempty"`
	SurfaceDepth int    `json:"surface_depth,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"` // ignore cached heights

	// Runtime options (not serialized)
	Source string      `json:"-"` // where the pattern came from, kept in the history
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	PatternHash   string     `json:"pattern_hash"`
	PatternLength int        `json:"pattern_length"`
	Rocks         int64      `json:"rocks"`
	Mode          string     `json:"mode"`
	SurfaceDepth  int        `json:"surface_depth,omitempty"`
	Height        int64      `json:"height"`
	Simulated     int64      `json:"simulated"`
	Cycle         *sim.Cycle `json:"cycle,omitempty"`
	RunID         string     `json:"run_id,omitempty"`
	Stats         Stats      `json:"stats"`
	CacheInfo     CacheInfo  `json:"cache"`
}

// Stats contains run timing information.
type Stats struct {
	Duration time.Duration `json:"duration_ns"`
}

// CacheInfo tracks whether the height came from the cache.
type CacheInfo struct {
	Hit bool `json:"hit"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Pattern == "" {
		return errors.New(errors.ErrCodeEmptyPattern, "pattern is required")
	}

	if o.Rocks == 0 {
		o.Rocks = DefaultRocks
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateRockCount(o.Rocks); err != nil {
		return err
	}
	if err := errors.ValidateMode(o.Mode, ValidModes...); err != nil {
		return err
	}
	if o.Mode == ModeExact && o.Rocks > MaxExactRocks {
		return errors.New(errors.ErrCodeInvalidRockCount,
			"exact mode supports at most %d rocks, got %d (use %s)", MaxExactRocks, o.Rocks, ModeExtrapolate)
	}
	if o.Mode == ModeExtrapolate {
		if o.SurfaceDepth == 0 {
			o.SurfaceDepth = DefaultSurfaceDepth
		}
		if err := errors.ValidateSurfaceDepth(o.SurfaceDepth); err != nil {
			return err
		}
	} else {
		o.SurfaceDepth = 0
	}

	o.validated = true
	return nil
}

// HeightKeyOpts returns cache key options for the run.
func (o *Options) HeightKeyOpts() cache.HeightKeyOpts {
	return cache.HeightKeyOpts{
		Rocks:        o.Rocks,
		Mode:         o.Mode,
		SurfaceDepth: o.SurfaceDepth,
	}
}
