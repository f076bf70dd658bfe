package sim

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/rocktower/pkg/tower"
)

// DefaultSurfaceDepth caps the per-column silhouette depth stored in a
// fingerprint. Deeper holes are indistinguishable, which keeps the state
// space finite and guarantees a repeat.
const DefaultSurfaceDepth = 64

// Fingerprint is a bounded summary of the simulation state after a rock
// settles. Fingerprint values are comparable and can be used as map keys.
type Fingerprint struct {
	Shape   tower.Shape        // next shape to drop
	Jet     int                // next jet index within the pattern
	Surface [tower.Width]uint8 // per-column depth below the top
}

// Sum64 returns the xxhash of the fingerprint's packed form.
func (f Fingerprint) Sum64() uint64 {
	var buf [1 + 8 + tower.Width]byte
	buf[0] = byte(f.Shape)
	binary.LittleEndian.PutUint64(buf[1:9], uint64(f.Jet))
	copy(buf[9:], f.Surface[:])
	return xxhash.Sum64(buf[:])
}
