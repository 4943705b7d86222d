package codon

import "math"

// MILC scores each sequence with the Measure Independent of Length and
// Composition (Supek & Vlahovicek, 2005):
//
//	MILC = sum_a M_a / L - C
//	M_a  = 2 * sum_c O_c * ln(O_c / E_c)
//	C    = sum_a (r_a - 1) / L - 0.5
//
// O_c is the observed count of codon c, E_c the count expected from the
// reference usage of c within its amino acid family, r_a the number of
// codons for amino acid a and L the number of counted codons. Sums over a
// run over amino acids present in the sequence. Stop codons form their
// own family.
//
// The reference is the pooled codon usage of all seqs. A sequence without
// a complete unambiguous codon has a nil score.
func MILC(seqs [][]byte) []*float64 {
	counts := make([]Counts, len(seqs))
	var ref Counts
	for i, s := range seqs {
		counts[i] = Count(s)
		ref.Add(&counts[i])
	}

	scores := make([]*float64, len(seqs))
	for i := range counts {
		if v, ok := milc(&counts[i], &ref); ok {
			scores[i] = &v
		}
	}
	return scores
}

func milc(obs, ref *Counts) (float64, bool) {
	l := obs.Total()
	if l == 0 {
		return 0, false
	}

	var sum, correction float64
	for _, fam := range families {
		var na, refA float64
		for _, c := range fam.codons {
			na += obs[c]
			refA += ref[c]
		}
		if na == 0 {
			continue
		}
		correction += float64(len(fam.codons) - 1)
		if refA == 0 {
			return 0, false
		}
		for _, c := range fam.codons {
			o := obs[c]
			if o == 0 {
				continue
			}
			e := na * ref[c] / refA
			if e == 0 {
				return 0, false
			}
			sum += 2 * o * math.Log(o/e)
		}
	}

	return sum/l - (correction/l - 0.5), true
}
