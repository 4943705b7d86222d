// Package genome provides the read-only genome sequence used for subsequence
// extraction.
package genome

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a requested span does not lie on the genome.
var ErrOutOfRange = errors.New("span out of range")

// Sequence is a single genome sequence. It is never mutated after creation;
// slices returned by Slice share its memory.
type Sequence struct {
	ID    string
	bases []byte
}

// NewSequence creates a sequence over the given bases, taking ownership of
// the slice. Uracil is stored as thymine so every consumer sees DNA.
func NewSequence(id string, bases []byte) *Sequence {
	for i, b := range bases {
		switch b {
		case 'U':
			bases[i] = 'T'
		case 'u':
			bases[i] = 't'
		}
	}
	return &Sequence{ID: id, bases: bases}
}

// Len returns the sequence length.
func (s *Sequence) Len() int64 {
	return int64(len(s.bases))
}

// Slice returns the bases in the 1-based inclusive span [start, end].
// The result must not be modified.
func (s *Sequence) Slice(start, end int64) ([]byte, error) {
	if start < 1 || end < start || end > s.Len() {
		return nil, fmt.Errorf("%w: %d-%d on %s (length %d)", ErrOutOfRange, start, end, s.ID, s.Len())
	}
	return s.bases[start-1 : end : end], nil
}

// String returns the full sequence.
func (s *Sequence) String() string {
	return string(s.bases)
}
