// Package sim drives rocks through a tower and computes stack heights.
//
// # Overview
//
// A [Simulator] draws shapes and jets with plain counters, drops one rock
// per [Simulator.Step] and keeps the tower's clearance ready for the next
// shape. [Exact] runs it for a given number of rocks.
//
// # Extrapolation
//
// For very large rock counts [Extrapolate] watches a [Fingerprint] after
// every settle: the next shape, the next jet and the surface silhouette
// capped at a fixed depth. Because every fingerprint component is bounded
// the state space is finite and some fingerprint must repeat. The
// [Detector] treats a repeat as a candidate only; it confirms the cycle
// after a further full period that reproduces the same per-rock height
// gains and ends on the same fingerprint. The remaining rocks are then
// projected from the recorded height trajectory:
//
//	res, err := sim.Extrapolate(ctx, jets, 1_000_000_000_000, sim.DefaultSurfaceDepth)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Height, res.Simulated)
//
// When no cycle is confirmed before the requested count is reached the
// result is the exact height and [Result.Cycle] is nil.
//
// # Cancellation
//
// Both entry points check the context every 1024 rocks and return an
// errors.ErrCodeTimeout error once it is done.
package sim
