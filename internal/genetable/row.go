// Package genetable derives the normalized gene table from genome
// annotations: coordinates, strand, canonical gene name, pseudogene status,
// codon usage bias and GC content per gene, tRNA and rRNA.
package genetable

import (
	"sort"

	"github.com/pengfang11/Chloroplot/internal/feature"
)

// Chrom is the chromosome label attached to every row.
const Chrom = "chr1"

// Row is one gene table entry.
type Row struct {
	Chrom  string
	Start  int64 // 1-based
	End    int64 // 1-based, inclusive
	Strand feature.Strand
	Gene   string
	Pseudo bool
	CUBias *float64 // nil for non-coding genes
	GC     *float64
}

// Table is the derived gene table.
type Table struct {
	Rows []Row
	// Dropped counts gene-like features left out for a missing
	// coordinate, strand or name.
	Dropped int
	// DroppedCoding counts coding records left out of bias computation
	// because no gene name could be resolved.
	DroppedCoding int
}

// rowKey identifies an exact row before metrics are attached.
type rowKey struct {
	start, end int64
	strand     feature.Strand
	gene       string
	pseudo     bool
}

// spanKey is the (position, strand, gene) key of the tie-break dedup.
type spanKey struct {
	pos    int64
	strand feature.Strand
	gene   string
}

// uniqueRows removes exact duplicates, keeping the first occurrence.
func uniqueRows(rows []Row) []Row {
	seen := make(map[rowKey]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		k := rowKey{r.Start, r.End, r.Strand, r.Gene, r.Pseudo}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// sortRows orders rows by start ascending, then end descending so that the
// longer of two features with the same start comes first.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Start != rows[j].Start {
			return rows[i].Start < rows[j].Start
		}
		return rows[i].End > rows[j].End
	})
}

// dedupBy keeps the first row for each key.
func dedupBy(rows []Row, key func(Row) spanKey) []Row {
	seen := make(map[spanKey]bool, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func startKey(r Row) spanKey { return spanKey{r.Start, r.Strand, r.Gene} }
func endKey(r Row) spanKey   { return spanKey{r.End, r.Strand, r.Gene} }
