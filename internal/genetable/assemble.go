package genetable

import (
	"github.com/pengfang11/Chloroplot/internal/feature"
	"github.com/pengfang11/Chloroplot/internal/genename"
)

// geneLike are the feature types that become gene table rows.
var geneLike = map[string]bool{
	feature.TypeGene: true,
	feature.TypeTRNA: true,
	feature.TypeRRNA: true,
}

// toRow projects a feature to a row with its resolved, not yet
// canonicalized name. ok is false if a retained column is missing.
func toRow(f feature.Feature) (Row, bool) {
	if !f.HasSpan() || !f.Strand.IsKnown() {
		return Row{}, false
	}
	name, ok := genename.Resolve(f.Gene, f.Product)
	if !ok {
		return Row{}, false
	}
	return Row{
		Chrom:  Chrom,
		Start:  *f.Start,
		End:    *f.End,
		Strand: f.Strand,
		Gene:   name,
		Pseudo: f.IsPseudo(),
	}, true
}

// AssembleFeatures builds gene table rows from an extracted feature list.
//
// Features of type gene, tRNA and rRNA are kept and their names
// canonicalized. Exact duplicates are removed, rows are sorted by start
// ascending and end descending, and then deduplicated by (start, strand,
// gene) and by (end, strand, gene), keeping the first row each time. The
// second return is the number of gene-like features dropped for missing
// columns.
func AssembleFeatures(features []feature.Feature) ([]Row, int) {
	var (
		rows    []Row
		dropped int
	)
	for _, f := range features {
		if !geneLike[f.Type] {
			continue
		}
		r, ok := toRow(f)
		if !ok {
			dropped++
			continue
		}
		r.Gene = genename.Canonical(r.Gene)
		rows = append(rows, r)
	}

	rows = uniqueRows(rows)
	sortRows(rows)
	rows = dedupBy(rows, startKey)
	rows = dedupBy(rows, endKey)
	return rows, dropped
}

// AssembleRecord builds gene table rows from a record's gene collection,
// supplemented by its rRNA and tRNA features whose names are not already
// among the genes. Missing pseudo flags are false.
//
// Only exact duplicates are removed; unlike AssembleFeatures there is no
// start/end tie-break. Names are canonicalized after deduplication. Rows
// are returned sorted by start ascending and end descending.
func AssembleRecord(rec feature.Record) ([]Row, int) {
	var (
		rows    []Row
		dropped int
	)

	genes := rec.Genes()
	known := make(map[string]bool, len(genes))
	for _, f := range genes {
		if f.Gene != nil {
			known[*f.Gene] = true
		}
	}

	for _, f := range genes {
		r, ok := toRow(f)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, r)
	}

	for _, f := range rec.OtherFeatures() {
		if f.Type != feature.TypeRRNA && f.Type != feature.TypeTRNA {
			continue
		}
		r, ok := toRow(f)
		if !ok {
			dropped++
			continue
		}
		if known[r.Gene] {
			continue
		}
		rows = append(rows, r)
	}

	rows = uniqueRows(rows)
	for i := range rows {
		rows[i].Gene = genename.Canonical(rows[i].Gene)
	}
	sortRows(rows)
	return rows, dropped
}
