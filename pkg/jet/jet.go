// Package jet parses and indexes the cyclic jet pattern that pushes rocks
// sideways.
//
// A pattern is a finite sequence of pushes written as '<' (left) and '>'
// (right). It repeats forever: the n-th push of a run is [Pattern.At](n),
// which wraps n around the pattern length. Using a plain counter instead of
// an iterator keeps the position trivially restartable and cheap to capture
// in a cycle fingerprint.
package jet

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/tower"
)

// Pattern is an immutable, non-empty jet sequence.
type Pattern struct {
	dirs []tower.Direction
}

// Parse builds a pattern from s. Characters other than '<' and '>' are
// ignored, so trailing newlines and stray whitespace are harmless. A string
// without a single jet is rejected with [errors.ErrCodeEmptyPattern].
func Parse(s string) (*Pattern, error) {
	dirs := make([]tower.Direction, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			dirs = append(dirs, tower.Left)
		case '>':
			dirs = append(dirs, tower.Right)
		}
	}
	if len(dirs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyPattern, "jet pattern contains no '<' or '>' characters")
	}
	return &Pattern{dirs: dirs}, nil
}

// Read parses a pattern from r. Only the first line is used.
func Read(r io.Reader) (*Pattern, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read jet pattern")
	}
	return Parse(line)
}

// MustParse is like Parse but panics on error. It is intended for tests and
// package-level fixtures.
func MustParse(s string) *Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of jets in one repetition of the pattern.
func (p *Pattern) Len() int {
	return len(p.dirs)
}

// At returns the n-th push of an infinite run of the pattern.
func (p *Pattern) At(n int64) tower.Direction {
	return p.dirs[p.Index(n)]
}

// Index returns the position within the pattern of the n-th push.
func (p *Pattern) Index(n int64) int {
	return int(n % int64(len(p.dirs)))
}

// String returns the canonical form of the pattern, made of '<' and '>'
// only. Two inputs that parse to the same jets share a canonical form.
func (p *Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p.dirs))
	for _, d := range p.dirs {
		b.WriteString(d.String())
	}
	return b.String()
}
