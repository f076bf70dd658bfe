package tower

import "fmt"

// Shape identifies one of the five rock shapes. Rocks fall in catalog order
// and the order repeats indefinitely.
type Shape uint8

// The rock catalog, in drop order.
const (
	Line   Shape = iota // ####
	Cross               // .#. / ### / .#.
	Angle               // ..# / ..# / ###
	Stick               // # x4
	Square              // ## / ##

	// NumShapes is the size of the catalog.
	NumShapes = 5
)

// MaxShapeHeight is the tallest shape in the catalog.
const MaxShapeHeight = 4

// catalog stores every shape bottom row first, aligned so that a horizontal
// offset of zero touches the left wall.
var catalog = [NumShapes]struct {
	name   string
	rows   []Row
	height int
}{
	Line: {"line", []Row{
		0b0_1111000_0,
	}, 1},
	Cross: {"cross", []Row{
		0b0_0100000_0,
		0b0_1110000_0,
		0b0_0100000_0,
	}, 3},
	Angle: {"angle", []Row{
		0b0_1110000_0,
		0b0_0010000_0,
		0b0_0010000_0,
	}, 3},
	Stick: {"stick", []Row{
		0b0_1000000_0,
		0b0_1000000_0,
		0b0_1000000_0,
		0b0_1000000_0,
	}, 4},
	Square: {"square", []Row{
		0b0_1100000_0,
		0b0_1100000_0,
	}, 2},
}

// ShapeAt returns the shape dropped as rock number i (zero based).
func ShapeAt(i int64) Shape {
	return Shape(i % NumShapes)
}

// Rows returns the unshifted shape rows, bottom first. The returned slice is
// shared and must not be modified.
func (s Shape) Rows() []Row {
	return catalog[s].rows
}

// Height returns the number of rows the shape occupies.
func (s Shape) Height() int {
	return catalog[s].height
}

func (s Shape) String() string {
	if int(s) >= NumShapes {
		return fmt.Sprintf("Shape(%d)", s)
	}
	return catalog[s].name
}
