package genetable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pengfang11/Chloroplot/internal/codon"
	"github.com/pengfang11/Chloroplot/internal/feature"
	"github.com/pengfang11/Chloroplot/internal/genome"
)

func feat(typ string, start, end int64, strand feature.Strand, gene string) feature.Feature {
	f := feature.Feature{
		Type:   typ,
		Start:  feature.Int64(start),
		End:    feature.Int64(end),
		Strand: strand,
	}
	if gene != "" {
		f.Gene = feature.String(gene)
	}
	return f
}

func syntheticGenome(t *testing.T, n int) *genome.Sequence {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	const bases = "ACGT"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rng.Intn(4)]
	}
	return genome.NewSequence("synthetic", b)
}

func assertUniqueKeys(t *testing.T, rows []Row) {
	t.Helper()
	starts := make(map[spanKey]bool)
	ends := make(map[spanKey]bool)
	for _, r := range rows {
		sk, ek := startKey(r), endKey(r)
		assert.False(t, starts[sk], "duplicate (start, strand, gene) %v", sk)
		assert.False(t, ends[ek], "duplicate (end, strand, gene) %v", ek)
		starts[sk], ends[ek] = true, true
	}
}

func TestAssembleFeaturesTieBreak(t *testing.T) {
	features := []feature.Feature{
		feat(feature.TypeGene, 10, 80, feature.StrandForward, "trnA-UGC"),
		feat(feature.TypeTRNA, 10, 90, feature.StrandForward, "tRNA-Ala"),
	}

	rows, dropped := AssembleFeatures(features)
	assert.Equal(t, 0, dropped)
	require.Len(t, rows, 1)
	assert.Equal(t, "trnA", rows[0].Gene)
	assert.Equal(t, int64(90), rows[0].End)
	assert.Equal(t, Chrom, rows[0].Chrom)
}

func TestAssembleFeaturesEndDedup(t *testing.T) {
	features := []feature.Feature{
		feat(feature.TypeGene, 20, 100, feature.StrandReverse, "psbA"),
		feat(feature.TypeGene, 5, 100, feature.StrandReverse, "psbA"),
		feat(feature.TypeGene, 20, 100, feature.StrandForward, "psbA"),
	}

	rows, _ := AssembleFeatures(features)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(5), rows[0].Start)
	assert.Equal(t, feature.StrandReverse, rows[0].Strand)
	assert.Equal(t, int64(20), rows[1].Start)
	assert.Equal(t, feature.StrandForward, rows[1].Strand)
}

func TestAssembleFeaturesOrderAndFilter(t *testing.T) {
	product := feat(feature.TypeRRNA, 500, 1990, feature.StrandForward, "")
	product.Product = feature.String("16S ribosomal RNA")
	pseudo := feat(feature.TypeGene, 300, 400, feature.StrandReverse, "ycf15")
	pseudo.Pseudo = feature.Bool(true)

	features := []feature.Feature{
		feat(feature.TypeCDS, 1, 99, feature.StrandForward, "psbA"),
		feat("misc_feature", 1, 99, feature.StrandForward, "ori"),
		product,
		pseudo,
		feat(feature.TypeGene, 300, 450, feature.StrandForward, "ndhB"),
		feat(feature.TypeGene, 300, 450, feature.StrandForward, "ndhB"),
		feat(feature.TypeGene, 1, 99, feature.StrandForward, "psbA"),
	}

	rows, dropped := AssembleFeatures(features)
	assert.Equal(t, 0, dropped)
	require.Len(t, rows, 4)

	assert.Equal(t, "psbA", rows[0].Gene)
	assert.Equal(t, "ndhB", rows[1].Gene) // longer feature first on equal start
	assert.Equal(t, "ycf15", rows[2].Gene)
	assert.True(t, rows[2].Pseudo)
	assert.False(t, rows[1].Pseudo)
	assert.Equal(t, "rrn16", rows[3].Gene)
}

func TestAssembleFeaturesDropped(t *testing.T) {
	noStrand := feat(feature.TypeGene, 1, 10, feature.StrandUnknown, "a")
	noName := feat(feature.TypeTRNA, 20, 90, feature.StrandForward, "")
	noStart := feature.Feature{Type: feature.TypeGene, End: feature.Int64(5), Strand: feature.StrandForward, Gene: feature.String("b")}

	rows, dropped := AssembleFeatures([]feature.Feature{
		noStrand, noName, noStart,
		feat(feature.TypeGene, 100, 200, feature.StrandForward, "c"),
	})
	assert.Equal(t, 3, dropped)
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].Gene)
}

func TestAssembleFeaturesUniqueness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"trnA-Ala", "trnA-UGC", "psbA", "16S rRNA", "rrn16", "ycf1"}
	types := []string{feature.TypeGene, feature.TypeTRNA, feature.TypeRRNA}
	strands := []feature.Strand{feature.StrandForward, feature.StrandReverse}

	var features []feature.Feature
	for i := 0; i < 500; i++ {
		start := int64(rng.Intn(20) + 1)
		end := start + int64(rng.Intn(20))
		features = append(features, feat(types[rng.Intn(len(types))], start, end,
			strands[rng.Intn(2)], names[rng.Intn(len(names))]))
	}

	rows, _ := AssembleFeatures(features)
	require.NotEmpty(t, rows)
	assertUniqueKeys(t, rows)
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		assert.True(t, prev.Start < cur.Start || (prev.Start == cur.Start && prev.End >= cur.End))
	}
}

type testRecord struct {
	genes, others, cds []feature.Feature
}

func (r *testRecord) Genes() []feature.Feature         { return r.genes }
func (r *testRecord) OtherFeatures() []feature.Feature { return r.others }
func (r *testRecord) CDS() []feature.Feature           { return r.cds }

func TestAssembleRecord(t *testing.T) {
	rec := &testRecord{
		genes: []feature.Feature{
			feat(feature.TypeGene, 100, 400, feature.StrandForward, "psbA"),
			feat(feature.TypeGene, 500, 570, feature.StrandReverse, "trnH-GUG"),
			feat(feature.TypeGene, 500, 570, feature.StrandReverse, "trnH-GUG"),
		},
		others: []feature.Feature{
			feat(feature.TypeTRNA, 500, 575, feature.StrandReverse, "trnH-GUG"),
			feat(feature.TypeRRNA, 1000, 2490, feature.StrandForward, "16S ribosomal RNA"),
			feat("misc_feature", 10, 20, feature.StrandForward, "ori"),
		},
	}

	rows, dropped := AssembleRecord(rec)
	assert.Equal(t, 0, dropped)
	require.Len(t, rows, 3)

	assert.Equal(t, "psbA", rows[0].Gene)
	assert.Equal(t, "trnH", rows[1].Gene)
	assert.Equal(t, int64(570), rows[1].End)
	assert.Equal(t, "rrn16", rows[2].Gene)
	for _, r := range rows {
		assert.False(t, r.Pseudo)
		assert.Equal(t, Chrom, r.Chrom)
	}
}

func TestAssembleRecordNoTieBreak(t *testing.T) {
	// The record path only removes exact duplicates, so overlapping
	// annotations of the same locus both survive.
	rec := &testRecord{
		genes: []feature.Feature{
			feat(feature.TypeGene, 10, 80, feature.StrandForward, "trnA-UGC"),
		},
		others: []feature.Feature{
			feat(feature.TypeTRNA, 10, 90, feature.StrandForward, "tRNA-Ala"),
		},
	}

	rows, _ := AssembleRecord(rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "trnA", rows[0].Gene)
	assert.Equal(t, int64(90), rows[0].End)
	assert.Equal(t, "trnA", rows[1].Gene)
	assert.Equal(t, int64(80), rows[1].End)
}

func TestJoinBias(t *testing.T) {
	score := 0.7
	rows := []Row{
		{Start: 1, End: 90, Strand: feature.StrandForward, Gene: "psbA"},
		{Start: 1, End: 90, Strand: feature.StrandReverse, Gene: "psbA"},
		{Start: 200, End: 270, Strand: feature.StrandForward, Gene: "trnA"},
	}
	JoinBias(rows, []codon.Bias{
		{Gene: "psbA", Strand: feature.StrandForward, Start: 1, Score: &score},
		{Gene: "psbA", Strand: feature.StrandForward, Start: 2, Score: &score},
	})

	require.NotNil(t, rows[0].CUBias)
	assert.Equal(t, 0.7, *rows[0].CUBias)
	assert.Nil(t, rows[1].CUBias)
	assert.Nil(t, rows[2].CUBias)
}

func TestBuilderFromFeaturesEndToEnd(t *testing.T) {
	g := syntheticGenome(t, 1000)

	var set feature.Set
	set.Add(feature.TypeGene,
		feat("", 10, 82, feature.StrandForward, "tRNA-Ala"),
		feat("", 100, 172, feature.StrandReverse, "tRNA-Gly"),
		feat("", 200, 499, feature.StrandForward, "cox1"),
	)
	set.Add(feature.TypeCDS,
		feat("", 200, 499, feature.StrandForward, "cox1"),
	)

	table, err := NewBuilder().FromFeatures(set, g)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 0, table.Dropped)

	assert.Equal(t, "trnA", table.Rows[0].Gene)
	assert.Equal(t, "trnG", table.Rows[1].Gene)
	assert.Equal(t, "cox1", table.Rows[2].Gene)

	for _, r := range table.Rows {
		assert.False(t, r.Pseudo)
		require.NotNil(t, r.GC)
		assert.GreaterOrEqual(t, *r.GC, 0.0)
		assert.LessOrEqual(t, *r.GC, 1.0)
	}
	assert.Nil(t, table.Rows[0].CUBias)
	assert.Nil(t, table.Rows[1].CUBias)
	assert.NotNil(t, table.Rows[2].CUBias)
}

func TestBuilderFromRecordSplitGene(t *testing.T) {
	g := syntheticGenome(t, 1000)

	rec := &testRecord{
		genes: []feature.Feature{
			feat(feature.TypeGene, 100, 399, feature.StrandForward, "rps12"),
			feat(feature.TypeGene, 600, 899, feature.StrandReverse, "psbA"),
			feat(feature.TypeGene, 950, 990, feature.StrandReverse, "ycf15"),
		},
		others: []feature.Feature{
			feat(feature.TypeTRNA, 500, 572, feature.StrandForward, "trnK-UUU"),
		},
		cds: []feature.Feature{
			feat(feature.TypeCDS, 100, 199, feature.StrandForward, "rps12"),
			feat(feature.TypeCDS, 200, 299, feature.StrandForward, "rps12"),
			feat(feature.TypeCDS, 300, 399, feature.StrandForward, "rps12"),
			feat(feature.TypeCDS, 600, 899, feature.StrandReverse, "psbA"),
			{Start: feature.Int64(10), End: feature.Int64(20), Strand: feature.StrandForward},
		},
	}

	core, logs := observer.New(zap.WarnLevel)
	b := NewBuilder()
	b.SetLogger(zap.New(core))

	table, err := b.FromRecord(rec, g)
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, 1, table.DroppedCoding)
	assert.Equal(t, 1, logs.FilterMessage("dropped coding records without a gene name").Len())

	byGene := make(map[string]Row)
	for _, r := range table.Rows {
		byGene[r.Gene] = r
	}
	assert.NotNil(t, byGene["rps12"].CUBias)
	assert.NotNil(t, byGene["psbA"].CUBias)
	assert.Nil(t, byGene["ycf15"].CUBias)
	assert.Nil(t, byGene["trnK"].CUBias)
}

func TestBuilderNoCoding(t *testing.T) {
	g := syntheticGenome(t, 200)

	var set feature.Set
	set.Add(feature.TypeGene, feat("", 1, 100, feature.StrandForward, "psbA"))

	table, err := NewBuilder().FromFeatures(set, g)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Nil(t, table.Rows[0].CUBias)
	assert.NotNil(t, table.Rows[0].GC)
}

func TestBuilderMalformedCoding(t *testing.T) {
	g := syntheticGenome(t, 100)

	var set feature.Set
	set.Add(feature.TypeGene, feat("", 1, 50, feature.StrandForward, "psbA"))
	set.Add(feature.TypeCDS, feat("", 10, 500, feature.StrandForward, "psbA"))

	_, err := NewBuilder().FromFeatures(set, g)
	assert.ErrorIs(t, err, codon.ErrMalformedCoding)
}

func TestBuilderGeneOutsideGenome(t *testing.T) {
	g := syntheticGenome(t, 100)

	var set feature.Set
	set.Add(feature.TypeGene, feat("", 50, 150, feature.StrandForward, "psbA"))

	_, err := NewBuilder().FromFeatures(set, g)
	assert.ErrorIs(t, err, genome.ErrOutOfRange)
}
