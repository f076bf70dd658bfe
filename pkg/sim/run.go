package sim

import (
	"context"

	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/jet"
)

// checkEvery is the number of rocks between context checks.
const checkEvery = 1024

// Result is the outcome of an extrapolated run.
type Result struct {
	Rocks     int64  `json:"rocks"`           // requested rock count
	Height    int64  `json:"height"`          // tower height after Rocks rocks
	Simulated int64  `json:"simulated"`       // rocks actually dropped
	Cycle     *Cycle `json:"cycle,omitempty"` // nil when the run finished without one
}

// Exact drops n rocks one by one and returns the final height.
func Exact(ctx context.Context, jets *jet.Pattern, n int64) (int64, error) {
	if err := errors.ValidateRockCount(n); err != nil {
		return 0, err
	}
	s := New(jets)
	for s.Rocks() < n {
		if s.Rocks()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, errors.Wrap(errors.ErrCodeTimeout, err, "simulation stopped after %d rocks", s.Rocks())
			}
		}
		s.Step()
	}
	return int64(s.Height()), nil
}

// Extrapolate returns the height after n rocks, simulating only until a
// cycle is confirmed and projecting the rest. Fingerprints cap the surface
// silhouette at depth. Without a confirmed cycle the result is exact.
func Extrapolate(ctx context.Context, jets *jet.Pattern, n int64, depth int) (Result, error) {
	if err := errors.ValidateRockCount(n); err != nil {
		return Result{}, err
	}
	if err := errors.ValidateSurfaceDepth(depth); err != nil {
		return Result{}, err
	}

	s := New(jets)
	d := NewDetector()
	d.Observe(s.Fingerprint(depth), 0, 0)

	for s.Rocks() < n {
		if s.Rocks()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, errors.Wrap(errors.ErrCodeTimeout, err, "simulation stopped after %d rocks", s.Rocks())
			}
		}
		s.Step()

		c, ok := d.Observe(s.Fingerprint(depth), s.Rocks(), int64(s.Height()))
		if !ok {
			continue
		}
		h, err := d.Project(c, n)
		if err != nil {
			return Result{}, err
		}
		return Result{Rocks: n, Height: h, Simulated: s.Rocks(), Cycle: &c}, nil
	}

	return Result{Rocks: n, Height: int64(s.Height()), Simulated: s.Rocks()}, nil
}
