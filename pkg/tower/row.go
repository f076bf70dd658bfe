package tower

import "strings"

// Width is the number of playable columns in the shaft.
const Width = 7

// Row is one horizontal slice of the shaft.
//
// Bit 8 is the left wall, bit 0 the right wall, and bits 7..1 hold the
// playable columns 0..6 from left to right. Wall bits are always set, so a
// shape row that is shifted into a wall collides with a plain AND.
type Row uint16

const (
	// WallLeft is the permanently set left wall bit.
	WallLeft Row = 1 << (Width + 1)

	// WallRight is the permanently set right wall bit.
	WallRight Row = 1

	// Walls holds both wall bits.
	Walls = WallLeft | WallRight

	// EmptyRow is a row with no settled material.
	EmptyRow = Walls

	// FloorRow is the solid ground at index 0.
	FloorRow Row = 1<<(Width+2) - 1
)

// columnBit returns the bit for playable column col (0 = leftmost).
func columnBit(col int) Row {
	return 1 << (Width - col)
}

// Occupied reports whether playable column col is filled.
func (r Row) Occupied(col int) bool {
	if col < 0 || col >= Width {
		return false
	}
	return r&columnBit(col) != 0
}

// Playable returns the row with its wall bits cleared.
func (r Row) Playable() Row {
	return r &^ Walls
}

// Empty reports whether no playable column is filled.
func (r Row) Empty() bool {
	return r.Playable() == 0
}

// String renders the row as "|..##...|", which keeps test failures readable.
func (r Row) String() string {
	var b strings.Builder
	b.Grow(Width + 2)
	b.WriteByte('|')
	for col := 0; col < Width; col++ {
		if r.Occupied(col) {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	b.WriteByte('|')
	return b.String()
}
