package tower

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rocktower/pkg/errors"
)

// requireInvariant asserts that fn panics with an invariant violation.
func requireInvariant(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an invariant panic")
		err, ok := r.(*errors.Error)
		require.True(t, ok, "panic value %T is not *errors.Error", r)
		assert.Equal(t, errors.ErrCodeInvariant, err.Code)
	}()
	fn()
}

// drop runs one rock to rest using jets from pattern, starting at *jet.
func drop(t *testing.T, tw *Tower, s Shape, pattern string, jet *int) Rock {
	t.Helper()
	tw.EnsureClearance(s.Height())
	r := tw.Spawn(s)
	for {
		d := Right
		if pattern[*jet%len(pattern)] == '<' {
			d = Left
		}
		*jet++
		tw.TryShift(&r, d)
		if !tw.TryFall(&r) {
			break
		}
	}
	tw.Settle(&r)
	return r
}

func TestNewTower(t *testing.T) {
	tw := New()
	assert.Equal(t, 0, tw.Height())
	assert.Equal(t, 1, tw.Len())
	assert.Equal(t, FloorRow, tw.Row(0))
}

func TestEnsureClearance(t *testing.T) {
	tw := New()
	tw.EnsureClearance(Line.Height())
	assert.Equal(t, 5, tw.Len())
	for y := 1; y < tw.Len(); y++ {
		assert.Equal(t, EmptyRow, tw.Row(y), "row %d", y)
	}

	// Growing is idempotent and never shrinks the arena.
	tw.EnsureClearance(Stick.Height())
	assert.Equal(t, 8, tw.Len())
	tw.EnsureClearance(Line.Height())
	assert.Equal(t, 8, tw.Len())
}

func TestSpawnPosition(t *testing.T) {
	tw := New()
	tw.EnsureClearance(Cross.Height())
	r := tw.Spawn(Cross)
	assert.Equal(t, SpawnOffset, r.X)
	assert.Equal(t, 4, r.Y)
	assert.Equal(t, 6, r.Top())
}

func TestSpawnWithoutClearance(t *testing.T) {
	tw := New()
	requireInvariant(t, func() { tw.Spawn(Line) })
}

func TestLinePushedRightInEmptyShaft(t *testing.T) {
	tw := New()
	tw.EnsureClearance(Line.Height())
	r := tw.Spawn(Line)
	require.Equal(t, Row(0b0_0011110_0), r.RowAt(0))

	assert.True(t, tw.TryShift(&r, Right))
	assert.Equal(t, 3, r.X)
	assert.Equal(t, Row(0b0_0001111_0), r.RowAt(0))
	assert.Equal(t, "|...####|", (r.RowAt(0) | Walls).String())
}

func TestLineOnFloorCannotFall(t *testing.T) {
	tw := New()
	tw.EnsureClearance(Line.Height())
	r := Rock{Shape: Line, X: SpawnOffset, Y: 1}

	assert.False(t, tw.TryFall(&r))
	assert.Equal(t, 1, r.Y)
	assert.False(t, tw.TryFall(&r))
	assert.Equal(t, Rock{Shape: Line, X: SpawnOffset, Y: 1}, r)
}

func TestShiftStopsAtWalls(t *testing.T) {
	tests := []struct {
		shape Shape
		width int
	}{
		{Line, 4},
		{Cross, 3},
		{Angle, 3},
		{Stick, 1},
		{Square, 2},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			tw := New()
			tw.EnsureClearance(tt.shape.Height())
			r := tw.Spawn(tt.shape)

			for tw.TryShift(&r, Left) {
			}
			assert.Equal(t, 0, r.X, "left wall")
			before := r
			assert.False(t, tw.TryShift(&r, Left))
			assert.Equal(t, before, r, "rejected shift must not move the rock")

			for tw.TryShift(&r, Right) {
			}
			assert.Equal(t, Width-tt.width, r.X, "right wall")
			before = r
			assert.False(t, tw.TryShift(&r, Right))
			assert.Equal(t, before, r)

			for i := range tt.shape.Rows() {
				assert.Zero(t, r.RowAt(i)&Walls, "row %d overlaps a wall", i)
			}
		})
	}
}

func TestShiftBlockedBySettledMaterial(t *testing.T) {
	tw := New()
	tw.EnsureClearance(Stick.Height())
	// A stick against the right wall.
	stick := Rock{Shape: Stick, X: 6, Y: 1}
	require.False(t, tw.TryFall(&stick))
	tw.Settle(&stick)

	tw.EnsureClearance(Square.Height())
	sq := Rock{Shape: Square, X: 4, Y: 2}
	assert.False(t, tw.TryShift(&sq, Right), "square should bump into the stick")
	assert.Equal(t, 4, sq.X)
	assert.True(t, tw.TryShift(&sq, Left))
	assert.Equal(t, 3, sq.X)
}

func TestFallChecksEveryRow(t *testing.T) {
	t.Run("cross slides past a line", func(t *testing.T) {
		tw := New()
		tw.EnsureClearance(Line.Height())
		line := Rock{Shape: Line, X: 3, Y: 1}
		tw.Settle(&line)
		require.Equal(t, "|...####|", tw.Row(1).String())

		tw.EnsureClearance(Cross.Height())
		cross := Rock{Shape: Cross, X: 1, Y: 3}
		assert.True(t, tw.TryFall(&cross))
		assert.True(t, tw.TryFall(&cross))
		assert.False(t, tw.TryFall(&cross))
		assert.Equal(t, 1, cross.Y)
		tw.Settle(&cross)

		assert.Equal(t, "|..#####|", tw.Row(1).String())
		assert.Equal(t, "|.###...|", tw.Row(2).String())
		assert.Equal(t, "|..#....|", tw.Row(3).String())
		assert.Equal(t, 3, tw.Height())
	})

	t.Run("middle row rests on a square", func(t *testing.T) {
		tw := New()
		tw.EnsureClearance(Square.Height())
		sq := Rock{Shape: Square, X: 0, Y: 1}
		tw.Settle(&sq)

		tw.EnsureClearance(Cross.Height())
		cross := Rock{Shape: Cross, X: 1, Y: 3}
		assert.True(t, tw.TryFall(&cross))
		// The bottom cell has free space below, the left arm does not.
		assert.False(t, tw.TryFall(&cross))
		assert.Equal(t, 2, cross.Y)
		tw.Settle(&cross)

		assert.Equal(t, "|##.....|", tw.Row(1).String())
		assert.Equal(t, "|###....|", tw.Row(2).String())
		assert.Equal(t, "|.###...|", tw.Row(3).String())
		assert.Equal(t, "|..#....|", tw.Row(4).String())
		assert.Equal(t, 4, tw.Height())
	})
}

func TestFirstRocksOfExamplePattern(t *testing.T) {
	const pattern = ">>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>"
	tw := New()
	jet := 0

	r := drop(t, tw, Line, pattern, &jet)
	assert.Equal(t, Rock{Shape: Line, X: 2, Y: 1}, r)
	assert.Equal(t, 4, jet)
	assert.Equal(t, 1, tw.Height())

	drop(t, tw, Cross, pattern, &jet)
	assert.Equal(t, 4, tw.Height())

	drop(t, tw, Angle, pattern, &jet)
	assert.Equal(t, 6, tw.Height())

	want := []string{
		"|..####.|",
		"|...#...|",
		"|..###..|",
		"|####...|",
		"|..#....|",
		"|..#....|",
	}
	for i, row := range want {
		assert.Equal(t, row, tw.Row(i+1).String(), "row %d", i+1)
	}

	assert.Equal(t, [Width]uint8{2, 2, 0, 2, 3, 5, 6}, tw.Surface(64))
	assert.Equal(t, [Width]uint8{2, 2, 0, 2, 3, 4, 4}, tw.Surface(4))
}

func TestSettleInvariants(t *testing.T) {
	t.Run("rock that can still fall", func(t *testing.T) {
		tw := New()
		tw.EnsureClearance(Line.Height())
		r := tw.Spawn(Line)
		requireInvariant(t, func() { tw.Settle(&r) })
	})

	t.Run("settled twice", func(t *testing.T) {
		tw := New()
		tw.EnsureClearance(Square.Height())
		r := Rock{Shape: Square, X: 0, Y: 1}
		tw.Settle(&r)
		requireInvariant(t, func() { tw.Settle(&r) })
	})

	t.Run("query above arena", func(t *testing.T) {
		tw := New()
		r := Rock{Shape: Stick, X: 2, Y: 1}
		requireInvariant(t, func() { tw.TryShift(&r, Left) })
	})
}

func TestSurfaceOfEmptyTower(t *testing.T) {
	tw := New()
	assert.Equal(t, [Width]uint8{}, tw.Surface(64))

	tw.EnsureClearance(Line.Height())
	r := Rock{Shape: Line, X: SpawnOffset, Y: 1}
	tw.Settle(&r)
	assert.Equal(t, [Width]uint8{1, 1, 0, 0, 0, 0, 1}, tw.Surface(64))
}

func TestSurfaceClampsDepth(t *testing.T) {
	tw := New()
	for i := 0; i < 150; i++ {
		tw.EnsureClearance(Square.Height())
		r := Rock{Shape: Square, X: 0, Y: tw.Height() + 1}
		tw.Settle(&r)
	}
	require.Equal(t, 300, tw.Height())

	assert.Equal(t, [Width]uint8{0, 0, 255, 255, 255, 255, 255}, tw.Surface(1000))
	assert.Equal(t, [Width]uint8{}, tw.Surface(-3))
}

func TestRowEmpty(t *testing.T) {
	assert.True(t, EmptyRow.Empty())
	assert.False(t, FloorRow.Empty())
	assert.False(t, (EmptyRow | columnBit(3)).Empty())
}

func TestRandomDropsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 2022))
	tw := New()

	for n := int64(0); n < 300; n++ {
		s := ShapeAt(n)
		before := tw.Height()
		tw.EnsureClearance(s.Height())
		r := tw.Spawn(s)

		for {
			d := Left
			if rng.IntN(2) == 1 {
				d = Right
			}
			prev := r
			if tw.TryShift(&r, d) {
				require.Equal(t, prev.X+int(d), r.X)
			} else {
				require.Equal(t, prev, r)
			}
			require.False(t, tw.collides(r.Shape, r.X, r.Y), "rock overlaps after shift")

			y := r.Y
			if !tw.TryFall(&r) {
				require.Equal(t, y, r.Y)
				require.False(t, tw.TryFall(&r), "rested rock moved")
				break
			}
			require.Equal(t, y-1, r.Y)
		}
		tw.Settle(&r)

		after := tw.Height()
		require.GreaterOrEqual(t, after, before)
		require.LessOrEqual(t, after-before, MaxShapeHeight)
	}

	assert.Equal(t, FloorRow, tw.Row(0))
	for y := 1; y < tw.Len(); y++ {
		assert.Equal(t, Walls, tw.Row(y)&Walls, "row %d lost a wall bit", y)
	}
}
