// Package tower models the 7-wide shaft that rocks fall into.
//
// # Overview
//
// Each horizontal slice of the shaft is a [Row]: a 9-bit mask holding the
// seven playable columns between two permanently set wall bits. Shapes from
// the fixed five-entry catalog ([Line], [Cross], [Angle], [Stick], [Square])
// are stored as rows of the same mask, so every collision test, against a
// wall or against settled material, is a single bitwise AND.
//
// # Basic Usage
//
// A [Tower] starts with a solid floor. Spawn a rock, push it with jets and
// let it fall until it rests, then settle it:
//
//	t := tower.New()
//	t.EnsureClearance(tower.Line.Height())
//	r := t.Spawn(tower.Line)
//	for {
//	    t.TryShift(&r, tower.Right)
//	    if !t.TryFall(&r) {
//	        break
//	    }
//	}
//	t.Settle(&r)
//
// [Tower.TryShift] and [Tower.TryFall] never modify a rock whose move is
// rejected. [Tower.Settle] is the only way material is committed.
//
// # Invariants
//
// Misuse of the tower, such as settling a rock that can still fall or
// querying rows above the arena, is a programming error. These conditions
// panic with an *errors.Error carrying errors.ErrCodeInvariant instead of
// producing a silently wrong height.
package tower
