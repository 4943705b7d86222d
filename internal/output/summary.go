package output

import (
	"fmt"
	"io"

	"github.com/montanaflynn/stats"

	"github.com/pengfang11/Chloroplot/internal/genetable"
)

// Summary describes a gene table.
type Summary struct {
	Rows          int
	Coding        int // rows with a codon usage bias
	Pseudo        int
	Dropped       int
	DroppedCoding int
	MeanGC        float64
	MedianGC      float64
	MeanBias      float64
	MedianBias    float64
}

// Summarize computes summary statistics over the rows of t. Means and
// medians are zero when no row carries the metric.
func Summarize(t *genetable.Table) Summary {
	s := Summary{
		Rows:          len(t.Rows),
		Dropped:       t.Dropped,
		DroppedCoding: t.DroppedCoding,
	}

	var gcs, biases stats.Float64Data
	for _, r := range t.Rows {
		if r.Pseudo {
			s.Pseudo++
		}
		if r.GC != nil {
			gcs = append(gcs, *r.GC)
		}
		if r.CUBias != nil {
			biases = append(biases, *r.CUBias)
		}
	}
	s.Coding = len(biases)

	s.MeanGC, s.MedianGC = meanMedian(gcs)
	s.MeanBias, s.MedianBias = meanMedian(biases)

	return s
}

// meanMedian returns zeros for empty data; stats reports NaN with an error.
func meanMedian(d stats.Float64Data) (mean, median float64) {
	if len(d) == 0 {
		return 0, 0
	}
	mean, _ = stats.Mean(d)
	median, _ = stats.Median(d)
	return mean, median
}

// WriteSummary writes a human-readable summary.
func (s Summary) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nGene table summary:\n")
	fmt.Fprintf(w, "  Rows:            %d\n", s.Rows)
	fmt.Fprintf(w, "  Coding (scored): %d\n", s.Coding)
	fmt.Fprintf(w, "  Pseudogenes:     %d\n", s.Pseudo)
	if s.Dropped > 0 || s.DroppedCoding > 0 {
		fmt.Fprintf(w, "  Dropped:         %d features, %d coding records\n", s.Dropped, s.DroppedCoding)
	}
	fmt.Fprintf(w, "  GC mean/median:  %.4f / %.4f\n", s.MeanGC, s.MedianGC)
	if s.Coding > 0 {
		fmt.Fprintf(w, "  MILC mean/median: %.4f / %.4f\n", s.MeanBias, s.MedianBias)
	}
}
