package tower

// Direction is a horizontal jet push.
type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "<"
	case Right:
		return ">"
	}
	return "?"
}

// SpawnOffset is the horizontal offset of a fresh rock: its left edge sits
// two columns away from the left wall.
const SpawnOffset = 2

// SpawnGap is the number of empty rows between the top of the stack and the
// bottom edge of a fresh rock.
const SpawnGap = 3

// Rock is a falling piece.
type Rock struct {
	Shape Shape
	X     int // right shift applied to every shape row
	Y     int // shaft row of the rock's bottom row
}

// RowAt returns the i-th rock row (bottom first) at the rock's current
// horizontal offset.
func (r Rock) RowAt(i int) Row {
	return shift(r.Shape.Rows()[i], r.X)
}

// Top returns the shaft row of the rock's highest row.
func (r Rock) Top() int {
	return r.Y + r.Shape.Height() - 1
}

// shift moves a shape row x columns to the right (negative x moves left).
func shift(row Row, x int) Row {
	if x >= 0 {
		return row >> x
	}
	return row << -x
}
