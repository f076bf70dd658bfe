package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rocktower/pkg/cache"
	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/history"
	"github.com/matzehuels/rocktower/pkg/jet"
	"github.com/matzehuels/rocktower/pkg/observability"
	"github.com/matzehuels/rocktower/pkg/sim"
)

// cacheKeyType labels height entries in cache hooks.
const cacheKeyType = "height"

// Runner encapsulates run execution with caching and history.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends and logger. Every call
// to Execute owns its own tower and simulator, so multiple goroutines can
// safely share one Runner.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger

	// TTL is the lifetime of cached heights. Zero means cache.TTLHeight.
	TTL time.Duration
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If store is nil, a NullStore is used (history disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, store history.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = history.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		History: store,
		Logger:  logger,
		TTL:     cache.TTLHeight,
	}
}

// outcome is the cached part of a result.
type outcome struct {
	Height    int64      `json:"height"`
	Simulated int64      `json:"simulated"`
	Cycle     *sim.Cycle `json:"cycle,omitempty"`
}

// Execute validates opts, computes the height (from the cache when
// possible) and records the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	jets, err := jet.Parse(opts.Pattern)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{
		PatternHash:   cache.Hash([]byte(jets.String())),
		PatternLength: jets.Len(),
		Rocks:         opts.Rocks,
		Mode:          opts.Mode,
		SurfaceDepth:  opts.SurfaceDepth,
	}
	key := r.Keyer.HeightKey(result.PatternHash, opts.HeightKeyOpts())

	out, hit := outcome{}, false
	if !opts.Refresh {
		out, hit = r.lookup(ctx, key)
	}
	if hit {
		opts.Logger.Debug("cache hit", "rocks", opts.Rocks, "mode", opts.Mode)
	} else {
		out, err = r.simulate(ctx, jets, opts)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, out, opts.Logger)
	}

	result.Height = out.Height
	result.Simulated = out.Simulated
	result.Cycle = out.Cycle
	result.CacheInfo.Hit = hit
	result.Stats.Duration = time.Since(start)

	r.record(ctx, result, opts)

	opts.Logger.Info("computed height",
		"rocks", result.Rocks,
		"height", result.Height,
		"mode", result.Mode,
		"cached", hit,
		"duration", result.Stats.Duration)
	return result, nil
}

// simulate runs the requested mode. Invariant violations inside the
// simulation surface here as errors instead of crashing the caller.
func (r *Runner) simulate(ctx context.Context, jets *jet.Pattern, opts Options) (out outcome, err error) {
	hooks := observability.Simulation()
	hooks.OnSimulationStart(ctx, opts.Mode, opts.Rocks)
	opts.Logger.Debug("simulating", "rocks", opts.Rocks, "mode", opts.Mode, "jets", jets.Len())

	start := time.Now()
	defer func() {
		err = errors.Recover(recover(), err)
		if err != nil {
			opts.Logger.Error("simulation failed", "err", err)
		}
		hooks.OnSimulationComplete(ctx, opts.Mode, opts.Rocks, out.Height, time.Since(start), err)
	}()

	switch opts.Mode {
	case ModeExact:
		h, err := sim.Exact(ctx, jets, opts.Rocks)
		if err != nil {
			return outcome{}, err
		}
		return outcome{Height: h, Simulated: opts.Rocks}, nil

	case ModeExtrapolate:
		res, err := sim.Extrapolate(ctx, jets, opts.Rocks, opts.SurfaceDepth)
		if err != nil {
			return outcome{}, err
		}
		if c := res.Cycle; c != nil {
			hooks.OnCycleDetected(ctx, c.Start, c.Period, c.Gain, res.Simulated)
			opts.Logger.Info("cycle detected",
				"start", c.Start,
				"period", c.Period,
				"gain", c.Gain,
				"simulated", res.Simulated)
		} else {
			opts.Logger.Debug("no cycle confirmed, height is exact", "simulated", res.Simulated)
		}
		return outcome{Height: res.Height, Simulated: res.Simulated, Cycle: res.Cycle}, nil
	}
	return outcome{}, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", opts.Mode)
}

// lookup returns the cached outcome for key. Backend failures and corrupt
// entries are treated as misses.
func (r *Runner) lookup(ctx context.Context, key string) (outcome, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return outcome{}, false
	}
	var out outcome
	if err := json.Unmarshal(data, &out); err != nil {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return outcome{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return out, true
}

// store writes the outcome to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, key string, out outcome, logger *log.Logger) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLHeight
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// record appends the run to the history and sets result.RunID.
func (r *Runner) record(ctx context.Context, result *Result, opts Options) {
	if _, ok := r.History.(*history.NullStore); ok {
		return
	}
	run := history.NewRun(result.PatternHash, result.PatternLength, result.Rocks, result.Mode)
	run.Source = opts.Source
	run.SurfaceDepth = result.SurfaceDepth
	run.Height = result.Height
	run.Simulated = result.Simulated
	run.Cycle = result.Cycle
	run.Cached = result.CacheInfo.Hit
	run.Duration = result.Stats.Duration

	if err := r.History.Add(ctx, run); err != nil {
		opts.Logger.Warn("record run failed", "err", err)
		return
	}
	result.RunID = run.ID
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.History != nil {
		if err := r.History.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
