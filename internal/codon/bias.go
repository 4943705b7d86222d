package codon

import (
	"errors"
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/pengfang11/Chloroplot/internal/feature"
	"github.com/pengfang11/Chloroplot/internal/genome"
)

// ErrMalformedCoding is returned for coding records that cannot be placed on
// the genome.
var ErrMalformedCoding = errors.New("malformed coding record")

// Coding is a coding-sequence record with a resolved gene name.
type Coding struct {
	Gene   string
	Strand feature.Strand
	Start  int64 // 1-based
	End    int64 // 1-based, inclusive
}

// FromFeature converts a CDS feature into a Coding record under the given
// gene name, validating coordinates and strand.
func FromFeature(f feature.Feature, gene string) (Coding, error) {
	if !f.HasSpan() {
		return Coding{}, fmt.Errorf("%w: %s has no coordinates", ErrMalformedCoding, gene)
	}
	if !f.Strand.IsKnown() {
		return Coding{}, fmt.Errorf("%w: %s at %d has no strand", ErrMalformedCoding, gene, *f.Start)
	}
	if *f.End < *f.Start {
		return Coding{}, fmt.Errorf("%w: %s end %d before start %d", ErrMalformedCoding, gene, *f.End, *f.Start)
	}
	return Coding{Gene: gene, Strand: f.Strand, Start: *f.Start, End: *f.End}, nil
}

// Transcript is one logical coding sequence assembled from one or more
// consecutive same-gene coding records on a strand.
type Transcript struct {
	Gene   string
	Strand feature.Strand
	Start  int64 // start of the first record, used as the join key
	Parts  int
	Seq    []byte // in gene orientation
}

// Bias is the codon usage bias of one transcript.
type Bias struct {
	Gene   string
	Strand feature.Strand
	Start  int64
	Score  *float64
}

// Assemble groups coding records per strand, in input order. Consecutive
// records on a strand with the same gene are concatenated into one
// transcript. Reverse strand transcripts are reverse complemented after
// concatenation. Forward strand transcripts are returned first.
func Assemble(records []Coding, g *genome.Sequence) ([]Transcript, error) {
	var out []Transcript
	for _, strand := range []feature.Strand{feature.StrandForward, feature.StrandReverse} {
		ts, err := assembleStrand(records, strand, g)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	return out, nil
}

func assembleStrand(records []Coding, strand feature.Strand, g *genome.Sequence) ([]Transcript, error) {
	var (
		out []Transcript
		cur *Transcript
	)
	flush := func() {
		if cur == nil {
			return
		}
		if strand == feature.StrandReverse {
			cur.Seq = reverseComplement(cur.Seq)
		}
		out = append(out, *cur)
		cur = nil
	}

	for _, r := range records {
		if !r.Strand.IsKnown() {
			return nil, fmt.Errorf("%w: %s at %d has no strand", ErrMalformedCoding, r.Gene, r.Start)
		}
		if r.Strand != strand {
			continue
		}
		part, err := g.Slice(r.Start, r.End)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedCoding, r.Gene, err)
		}
		if cur != nil && cur.Gene == r.Gene {
			cur.Seq = append(cur.Seq, part...)
			cur.Parts++
			continue
		}
		flush()
		cur = &Transcript{
			Gene:   r.Gene,
			Strand: strand,
			Start:  r.Start,
			Parts:  1,
			Seq:    append(make([]byte, 0, len(part)), part...),
		}
	}
	flush()

	return out, nil
}

// reverseComplement reverse complements seq in place and returns it.
func reverseComplement(seq []byte) []byte {
	s := linear.NewSeq("", alphabet.BytesToLetters(seq), alphabet.DNAredundant)
	s.RevComp()
	return alphabet.LettersToBytes(s.Seq)
}

// ComputeBias assembles the coding records and scores each transcript with
// MILC. Each strand is scored against its own pooled codon usage; a strand
// without coding records contributes no rows.
func ComputeBias(records []Coding, g *genome.Sequence) ([]Bias, error) {
	transcripts, err := Assemble(records, g)
	if err != nil {
		return nil, err
	}

	var out []Bias
	for _, strand := range []feature.Strand{feature.StrandForward, feature.StrandReverse} {
		var (
			group []Transcript
			seqs  [][]byte
		)
		for _, t := range transcripts {
			if t.Strand == strand {
				group = append(group, t)
				seqs = append(seqs, t.Seq)
			}
		}
		if len(group) == 0 {
			continue
		}
		scores := MILC(seqs)
		for i, t := range group {
			out = append(out, Bias{Gene: t.Gene, Strand: t.Strand, Start: t.Start, Score: scores[i]})
		}
	}
	return out, nil
}
