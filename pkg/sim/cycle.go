package sim

import (
	"math"

	"github.com/kamstrup/intmap"

	"github.com/matzehuels/rocktower/pkg/errors"
)

// Cycle describes a confirmed period of the simulation: starting at Start
// rocks, every further Period rocks add exactly Gain rows.
type Cycle struct {
	Start  int64 `json:"start"`
	Period int64 `json:"period"`
	Gain   int64 `json:"gain"`
}

// visit records the last rock count at which a fingerprint was seen.
type visit struct {
	fp    Fingerprint
	rocks int64
}

// candidate is a repeat that has not been verified yet.
type candidate struct {
	Cycle
	fp        Fingerprint
	confirmAt int64
}

// Detector watches the fingerprints produced after every settle and reports
// a cycle once it is confirmed.
//
// A repeated fingerprint only opens a candidate. The candidate is confirmed
// after one more full period in which every rock reproduces the height
// increase of the rock one period earlier and the period ends on the same
// fingerprint. The detector keeps the complete height trajectory so that
// extrapolation never relies on missing data.
type Detector struct {
	seen    *intmap.Map[uint64, []visit]
	heights []int64
	cand    *candidate
}

// NewDetector returns an empty detector. The first observation must be the
// initial state at zero rocks.
func NewDetector() *Detector {
	return &Detector{
		seen:    intmap.New[uint64, []visit](1024),
		heights: make([]int64, 0, 4096),
	}
}

// Observe records the state after rocks rocks have settled at the given
// height, and returns a cycle once one has been confirmed.
func (d *Detector) Observe(fp Fingerprint, rocks, height int64) (Cycle, bool) {
	if rocks != int64(len(d.heights)) {
		errors.Invariant("observed rock %d out of order (expected %d)", rocks, len(d.heights))
	}
	d.heights = append(d.heights, height)

	if c := d.cand; c != nil {
		switch {
		case height-d.heights[rocks-c.Period] != c.Gain:
			d.cand = nil
		case rocks == c.confirmAt:
			if fp == c.fp {
				return c.Cycle, true
			}
			d.cand = nil
		}
	}

	key := fp.Sum64()
	bucket, _ := d.seen.Get(key)
	for i := range bucket {
		if bucket[i].fp != fp {
			continue
		}
		prev := bucket[i].rocks
		bucket[i].rocks = rocks
		if d.cand == nil {
			period := rocks - prev
			d.cand = &candidate{
				Cycle:     Cycle{Start: prev, Period: period, Gain: height - d.heights[prev]},
				fp:        fp,
				confirmAt: rocks + period,
			}
		}
		return Cycle{}, false
	}
	d.seen.Put(key, append(bucket, visit{fp: fp, rocks: rocks}))
	return Cycle{}, false
}

// Distinct returns the number of distinct fingerprints seen.
func (d *Detector) Distinct() int {
	n := 0
	d.seen.ForEach(func(_ uint64, bucket []visit) bool {
		n += len(bucket)
		return true
	})
	return n
}

// HeightAt returns the recorded height after rocks rocks.
func (d *Detector) HeightAt(rocks int64) (int64, bool) {
	if rocks < 0 || rocks >= int64(len(d.heights)) {
		return 0, false
	}
	return d.heights[rocks], true
}

// Project returns the height after n rocks, assuming c holds from the last
// observation onward. The last full period of the trajectory must be
// recorded; otherwise, or if the height would overflow, an error is
// returned instead of a guess.
func (d *Detector) Project(c Cycle, n int64) (int64, error) {
	last := int64(len(d.heights)) - 1
	if c.Period <= 0 || last-c.Period < c.Start || c.Start < 0 {
		return 0, errors.New(errors.ErrCodeInternal,
			"incomplete trajectory: %d rocks recorded for cycle start=%d period=%d", last+1, c.Start, c.Period)
	}
	if n <= last {
		return d.heights[n], nil
	}

	remaining := n - last
	full := remaining / c.Period
	leftover := remaining % c.Period
	base := d.heights[last]
	tail := d.heights[last-c.Period+leftover] - d.heights[last-c.Period]

	if c.Gain > 0 && full > (math.MaxInt64-base-tail)/c.Gain {
		return 0, errors.New(errors.ErrCodeOverflow, "height after %d rocks overflows int64", n)
	}
	return base + full*c.Gain + tail, nil
}
