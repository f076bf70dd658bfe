package tower

import (
	"github.com/matzehuels/rocktower/pkg/errors"
)

// Tower is the shaft and the material settled in it.
//
// Rows are indexed from the floor upward. Row 0 is the floor and is never
// modified; every other row keeps its wall bits and only ever gains
// playable bits. The arena grows by appending rows and never shrinks.
//
// A Tower is not safe for concurrent use.
type Tower struct {
	rows   []Row
	height int
}

// New returns an empty tower holding only the floor row.
func New() *Tower {
	rows := make([]Row, 1, 64)
	rows[0] = FloorRow
	return &Tower{rows: rows}
}

// Height returns the index of the highest occupied row, which equals the
// stack height because the floor counts as zero.
func (t *Tower) Height() int {
	return t.height
}

// Len returns the number of rows in the arena, including the floor.
func (t *Tower) Len() int {
	return len(t.rows)
}

// Row returns row y.
func (t *Tower) Row(y int) Row {
	return t.rows[y]
}

// Spawn places a new rock of shape s at the spawn position above the stack.
// The arena must already hold enough clearance; see [Tower.EnsureClearance].
func (t *Tower) Spawn(s Shape) Rock {
	r := Rock{Shape: s, X: SpawnOffset, Y: t.height + SpawnGap + 1}
	t.checkBounds(r, r.Y)
	return r
}

// TryShift pushes the rock one column in direction d. The move is rejected,
// leaving the rock untouched, when any of its rows would hit a wall or
// settled material.
func (t *Tower) TryShift(r *Rock, d Direction) bool {
	x := r.X + int(d)
	if t.collides(r.Shape, x, r.Y) {
		return false
	}
	r.X = x
	return true
}

// TryFall moves the rock down one row. It returns false, leaving the rock
// untouched, when the rock has come to rest.
func (t *Tower) TryFall(r *Rock) bool {
	if r.Y <= 0 {
		errors.Invariant("rock %s below the floor at row %d", r.Shape, r.Y)
	}
	if t.collides(r.Shape, r.X, r.Y-1) {
		return false
	}
	r.Y--
	return true
}

// Settle merges a resting rock into the tower.
//
// The rock must not overlap settled material and must be unable to fall.
// Breaking either condition (settling a rock twice included) is a bug and
// panics with an [errors.ErrCodeInvariant] error.
func (t *Tower) Settle(r *Rock) {
	if t.collides(r.Shape, r.X, r.Y) {
		errors.Invariant("rock %s at (%d,%d) overlaps settled material", r.Shape, r.X, r.Y)
	}
	if !t.collides(r.Shape, r.X, r.Y-1) {
		errors.Invariant("rock %s at (%d,%d) settled while it can still fall", r.Shape, r.X, r.Y)
	}
	for i := range r.Shape.Rows() {
		t.rows[r.Y+i] |= r.RowAt(i)
	}
	if top := r.Top(); top > t.height {
		t.height = top
	}
}

// EnsureClearance grows the arena so that the next rock, of the given
// height, fits at its spawn position.
func (t *Tower) EnsureClearance(shapeHeight int) {
	need := t.height + SpawnGap + shapeHeight + 1
	for len(t.rows) < need {
		t.rows = append(t.rows, EmptyRow)
	}
}

// Surface returns, for every column, the distance from the top of the stack
// down to the first occupied cell, capped at depth. The cap itself is
// clamped to 0..[errors.MaxSurfaceDepth] so that every distance fits a uint8.
func (t *Tower) Surface(depth int) [Width]uint8 {
	depth = max(0, min(depth, errors.MaxSurfaceDepth))
	var s [Width]uint8
	for col := 0; col < Width; col++ {
		d := 0
		for d < depth && d <= t.height && !t.rows[t.height-d].Occupied(col) {
			d++
		}
		s[col] = uint8(min(d, depth))
	}
	return s
}

// collides reports whether shape s at offset (x, y) overlaps a wall or
// settled material. Every shape row is checked.
func (t *Tower) collides(s Shape, x, y int) bool {
	t.checkBounds(Rock{Shape: s, X: x, Y: y}, y)
	for i, row := range s.Rows() {
		if t.rows[y+i]&shift(row, x) != 0 {
			return true
		}
	}
	return false
}

func (t *Tower) checkBounds(r Rock, y int) {
	if y < 0 || y+r.Shape.Height() > len(t.rows) {
		errors.Invariant("rock %s at row %d outside arena of %d rows (missing clearance)", r.Shape, y, len(t.rows))
	}
}
