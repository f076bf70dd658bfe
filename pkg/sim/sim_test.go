package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/jet"
	"github.com/matzehuels/rocktower/pkg/tower"
)

const examplePattern = ">>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>"

func TestExactExamplePattern(t *testing.T) {
	h, err := Exact(context.Background(), jet.MustParse(examplePattern), 2022)
	require.NoError(t, err)
	assert.Equal(t, int64(3068), h)
}

func TestExtrapolateExamplePattern(t *testing.T) {
	res, err := Extrapolate(context.Background(), jet.MustParse(examplePattern), 1_000_000_000_000, DefaultSurfaceDepth)
	require.NoError(t, err)

	assert.Equal(t, int64(1_000_000_000_000), res.Rocks)
	assert.Equal(t, int64(1514285714288), res.Height)
	require.NotNil(t, res.Cycle)
	assert.Less(t, res.Simulated, int64(10_000))

	// The example settles into 53 rows every 35 rocks.
	assert.Zero(t, res.Cycle.Period%35, "period %d", res.Cycle.Period)
	assert.Equal(t, 53*res.Cycle.Period, 35*res.Cycle.Gain)
}

func TestExtrapolateMatchesExact(t *testing.T) {
	patterns := map[string]string{
		"example":    examplePattern,
		"right only": ">",
		"left only":  "<",
	}
	counts := []int64{1, 10, 2022, 5000, 10_000}

	for name, pattern := range patterns {
		jets := jet.MustParse(pattern)
		for _, n := range counts {
			want, err := Exact(context.Background(), jets, n)
			require.NoError(t, err)

			res, err := Extrapolate(context.Background(), jets, n, DefaultSurfaceDepth)
			require.NoError(t, err)
			assert.Equal(t, want, res.Height, "%s: n=%d", name, n)
			assert.LessOrEqual(t, res.Simulated, n)
		}
	}
}

func TestExtrapolateWithoutCycle(t *testing.T) {
	res, err := Extrapolate(context.Background(), jet.MustParse(examplePattern), 1, DefaultSurfaceDepth)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Height)
	assert.Equal(t, int64(1), res.Simulated)
	assert.Nil(t, res.Cycle)
}

func TestHeightGrowth(t *testing.T) {
	s := New(jet.MustParse(examplePattern))
	prev := s.Height()
	for i := 0; i < 5000; i++ {
		s.Step()
		delta := s.Height() - prev
		require.GreaterOrEqual(t, delta, 0, "rock %d", s.Rocks())
		require.LessOrEqual(t, delta, tower.MaxShapeHeight, "rock %d", s.Rocks())
		prev = s.Height()

		// The next rock always has room above an empty gap.
		tw := s.Tower()
		require.Equal(t, s.Height(), tw.Height())
		require.GreaterOrEqual(t, tw.Len(), tw.Height()+tower.SpawnGap+tower.ShapeAt(s.Rocks()).Height()+1)
		for y := tw.Height() + 1; y < tw.Len(); y++ {
			require.True(t, tw.Row(y).Empty(), "rock %d row %d", s.Rocks(), y)
		}
	}
	assert.Equal(t, int64(5000), s.Rocks())
	assert.Greater(t, s.Pushes(), s.Rocks())
}

func TestDeterministic(t *testing.T) {
	jets := jet.MustParse(examplePattern)

	a, err := Exact(context.Background(), jets, 3000)
	require.NoError(t, err)
	b, err := Exact(context.Background(), jets, 3000)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	ra, err := Extrapolate(context.Background(), jets, 1e9, DefaultSurfaceDepth)
	require.NoError(t, err)
	rb, err := Extrapolate(context.Background(), jets, 1e9, DefaultSurfaceDepth)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)
}

func TestCycleProperty(t *testing.T) {
	jets := jet.MustParse(examplePattern)
	res, err := Extrapolate(context.Background(), jets, 1e12, DefaultSurfaceDepth)
	require.NoError(t, err)
	require.NotNil(t, res.Cycle)
	c := *res.Cycle

	// Simulate well past the confirmation point and check that every rock
	// after the cycle start repeats the gain of the rock one period earlier.
	end := c.Start + 4*c.Period
	heights := make([]int64, 0, end+1)
	s := New(jets)
	heights = append(heights, 0)
	for s.Rocks() < end {
		s.Step()
		heights = append(heights, int64(s.Height()))
	}
	for r := c.Start + c.Period; r <= end; r++ {
		require.Equal(t, c.Gain, heights[r]-heights[r-c.Period], "rock %d", r)
	}
}

func TestFingerprintTracksCounters(t *testing.T) {
	jets := jet.MustParse(examplePattern)
	s := New(jets)

	fp := s.Fingerprint(DefaultSurfaceDepth)
	assert.Equal(t, tower.Line, fp.Shape)
	assert.Equal(t, 0, fp.Jet)
	assert.Equal(t, [tower.Width]uint8{}, fp.Surface)

	s.Step()
	fp = s.Fingerprint(DefaultSurfaceDepth)
	assert.Equal(t, tower.Cross, fp.Shape)
	assert.Equal(t, jets.Index(s.Pushes()), fp.Jet)
	assert.Equal(t, [tower.Width]uint8{1, 1, 0, 0, 0, 0, 1}, fp.Surface)
	assert.Equal(t, s.Fingerprint(errors.MaxSurfaceDepth), s.Fingerprint(1000))
}

func TestValidation(t *testing.T) {
	jets := jet.MustParse(examplePattern)
	ctx := context.Background()

	_, err := Exact(ctx, jets, -1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRockCount), "got %v", err)

	_, err = Extrapolate(ctx, jets, -5, DefaultSurfaceDepth)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRockCount), "got %v", err)

	_, err = Extrapolate(ctx, jets, 10, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSurfaceDepth), "got %v", err)
}

func TestZeroRocksLeavesTheFloor(t *testing.T) {
	jets := jet.MustParse(examplePattern)
	ctx := context.Background()

	h, err := Exact(ctx, jets, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), h)

	res, err := Extrapolate(ctx, jets, 0, DefaultSurfaceDepth)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Height)
	assert.Equal(t, int64(0), res.Simulated)
	assert.Nil(t, res.Cycle)
}

func TestCancelled(t *testing.T) {
	jets := jet.MustParse(examplePattern)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Exact(ctx, jets, 2022)
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout), "got %v", err)

	_, err = Extrapolate(ctx, jets, 2022, DefaultSurfaceDepth)
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout), "got %v", err)
}
