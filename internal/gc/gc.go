// Package gc computes GC content over genome spans.
package gc

import "github.com/pengfang11/Chloroplot/internal/genome"

// Fraction returns the fraction of G and C among the unambiguous bases of
// seq. ok is false when seq has no A, C, G or T.
func Fraction(seq []byte) (frac float64, ok bool) {
	var gc, n int
	for _, b := range seq {
		switch b {
		case 'G', 'C', 'g', 'c':
			gc++
			n++
		case 'A', 'T', 'a', 't':
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(gc) / float64(n), true
}

// Span returns the GC fraction of the 1-based inclusive span [start, end]
// of g. The fraction is nil if the span holds only ambiguous bases.
func Span(g *genome.Sequence, start, end int64) (*float64, error) {
	bases, err := g.Slice(start, end)
	if err != nil {
		return nil, err
	}
	frac, ok := Fraction(bases)
	if !ok {
		return nil, nil
	}
	return &frac, nil
}
