package sim

import (
	"github.com/matzehuels/rocktower/pkg/jet"
	"github.com/matzehuels/rocktower/pkg/tower"
)

// Simulator drops rocks into a tower one at a time.
//
// Shapes and jets are drawn with monotonically increasing counters taken
// modulo the catalog and pattern lengths. A Simulator is not safe for
// concurrent use; every run owns its own instance.
type Simulator struct {
	tower  *tower.Tower
	jets   *jet.Pattern
	rocks  int64
	pushes int64
}

// New returns a simulator with an empty tower, ready to drop the first rock.
func New(jets *jet.Pattern) *Simulator {
	t := tower.New()
	t.EnsureClearance(tower.ShapeAt(0).Height())
	return &Simulator{tower: t, jets: jets}
}

// Step drops the next rock until it rests and settles it.
//
// Every iteration pushes the rock with exactly one jet and then tries to
// move it down; the first failed fall ends the rock's journey.
func (s *Simulator) Step() {
	r := s.tower.Spawn(tower.ShapeAt(s.rocks))
	for {
		s.tower.TryShift(&r, s.jets.At(s.pushes))
		s.pushes++
		if !s.tower.TryFall(&r) {
			break
		}
	}
	s.tower.Settle(&r)
	s.rocks++
	s.tower.EnsureClearance(tower.ShapeAt(s.rocks).Height())
}

// Rocks returns the number of rocks settled so far.
func (s *Simulator) Rocks() int64 { return s.rocks }

// Pushes returns the number of jets consumed so far.
func (s *Simulator) Pushes() int64 { return s.pushes }

// Height returns the current stack height.
func (s *Simulator) Height() int { return s.tower.Height() }

// Tower exposes the underlying tower for inspection.
func (s *Simulator) Tower() *tower.Tower { return s.tower }

// Fingerprint summarizes the state that determines every future rock: the
// next shape, the next jet and the surface silhouette capped at depth.
// Depths above 255 are clamped by [tower.Tower.Surface].
func (s *Simulator) Fingerprint(depth int) Fingerprint {
	return Fingerprint{
		Shape:   tower.ShapeAt(s.rocks),
		Jet:     s.jets.Index(s.pushes),
		Surface: s.tower.Surface(depth),
	}
}
