// Package codon computes codon usage bias for coding sequences.
package codon

import "sort"

// Standard genetic code: DNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// NumCodons is the number of unambiguous codons.
const NumCodons = 64

// families maps each amino acid (and '*' for stop) to the indexes of its
// synonymous codons, ordered by amino acid.
var families = buildFamilies()

type family struct {
	aa     byte
	codons []int
}

func buildFamilies() []family {
	byAA := make(map[byte][]int)
	for c, aa := range codonTable {
		idx, ok := Index(c)
		if !ok {
			panic("codon: bad table entry " + c)
		}
		byAA[aa] = append(byAA[aa], idx)
	}
	out := make([]family, 0, len(byAA))
	for aa, codons := range byAA {
		sort.Ints(codons)
		out = append(out, family{aa: aa, codons: codons})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].aa < out[j].aa })
	return out
}

// Index returns the position of codon in [0, 64), case-insensitive.
// ok is false for codons of the wrong length or with ambiguous bases.
func Index(codon string) (idx int, ok bool) {
	if len(codon) != 3 {
		return 0, false
	}
	for i := 0; i < 3; i++ {
		b := baseIndex(codon[i])
		if b < 0 {
			return 0, false
		}
		idx = idx<<2 | b
	}
	return idx, true
}

func baseIndex(b byte) int {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	}
	return -1
}

// Counts holds codon occurrence counts indexed by Index.
type Counts [NumCodons]float64

// Count tallies the complete codons of seq in reading frame 1. Codons with
// ambiguous bases and a trailing partial codon are skipped.
func Count(seq []byte) Counts {
	var c Counts
	for i := 0; i+3 <= len(seq); i += 3 {
		if idx, ok := Index(string(seq[i : i+3])); ok {
			c[idx]++
		}
	}
	return c
}

// Total returns the number of counted codons.
func (c *Counts) Total() float64 {
	var n float64
	for _, v := range c {
		n += v
	}
	return n
}

// Add accumulates o into c.
func (c *Counts) Add(o *Counts) {
	for i := range c {
		c[i] += o[i]
	}
}
