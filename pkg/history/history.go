// Package history records completed simulation runs.
//
// Every run executed through the pipeline produces a [Run] record holding the
// parameters, the resulting height and the cycle that was used, if any. The
// CLI lists them with "rocktower history", the API serves them under
// /v1/runs.
//
// Backends implement [Store]:
//   - [FileStore]: one JSON file per run, for CLI usage
//   - [MongoStore]: a MongoDB collection shared by API instances
//   - [NullStore]: history disabled
//
// # Usage
//
//	store, err := history.NewFileStore(dir, 100)
//	if err != nil {
//	    return err
//	}
//	run := history.NewRun(patternHash, len(pattern), 2022, "exact")
//	run.Height = 3068
//	err = store.Add(ctx, run)
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/sim"
)

// Run is one completed simulation.
type Run struct {
	ID            string        `json:"id" bson:"_id"`
	PatternHash   string        `json:"pattern_hash" bson:"pattern_hash"`
	PatternLength int           `json:"pattern_length" bson:"pattern_length"`
	Source        string        `json:"source,omitempty" bson:"source,omitempty"`
	Rocks         int64         `json:"rocks" bson:"rocks"`
	Mode          string        `json:"mode" bson:"mode"`
	SurfaceDepth  int           `json:"surface_depth,omitempty" bson:"surface_depth,omitempty"`
	Height        int64         `json:"height" bson:"height"`
	Simulated     int64         `json:"simulated" bson:"simulated"`
	Cycle         *sim.Cycle    `json:"cycle,omitempty" bson:"cycle,omitempty"`
	Cached        bool          `json:"cached" bson:"cached"`
	Duration      time.Duration `json:"duration" bson:"duration"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// NewRun returns a run with a fresh ID and the current time. IDs are UUIDv7,
// so they sort by creation time.
func NewRun(patternHash string, patternLength int, rocks int64, mode string) *Run {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Run{
		ID:            id.String(),
		PatternHash:   patternHash,
		PatternLength: patternLength,
		Rocks:         rocks,
		Mode:          mode,
		CreatedAt:     time.Now().UTC(),
	}
}

// Store is the interface for run history backends.
type Store interface {
	// Add records a run.
	Add(ctx context.Context, run *Run) error

	// Get returns the run with the given ID, or an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. A limit of zero or less
	// returns every run.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Clear removes every run and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// ValidateID checks that id is a well-formed run ID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid run id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "run %s not found", id)
}
