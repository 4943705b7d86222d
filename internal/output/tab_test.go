package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pengfang11/Chloroplot/internal/feature"
	"github.com/pengfang11/Chloroplot/internal/genetable"
)

func f64(v float64) *float64 { return &v }

func sampleTable() *genetable.Table {
	return &genetable.Table{
		Rows: []genetable.Row{
			{Chrom: "chr1", Start: 1, End: 1062, Strand: feature.StrandReverse, Gene: "psbA",
				CUBias: f64(0.25), GC: f64(0.4)},
			{Chrom: "chr1", Start: 1100, End: 1172, Strand: feature.StrandForward, Gene: "trnH",
				GC: f64(0.5)},
			{Chrom: "chr1", Start: 2000, End: 2300, Strand: feature.StrandForward, Gene: "ycf15",
				Pseudo: true, CUBias: f64(0.75), GC: f64(0.3)},
		},
		Dropped: 2,
	}
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "chr\tstart\tend\tstrand\tgene\tpseudo\tcu_bias\tgc\n", buf.String())
}

func TestTabWriter_WriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).WriteTable(sampleTable()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "chr1\t1\t1062\t-\tpsbA\tfalse\t0.250000\t0.400000", lines[1])
	assert.Equal(t, "chr1\t1100\t1172\t+\ttrnH\tfalse\tNA\t0.500000", lines[2])

	fields := strings.Split(lines[3], "\t")
	require.Len(t, fields, len(Columns))
	assert.Equal(t, "true", fields[5])
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTable())
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 2, s.Coding)
	assert.Equal(t, 1, s.Pseudo)
	assert.Equal(t, 2, s.Dropped)
	assert.InDelta(t, 0.4, s.MeanGC, 1e-9)
	assert.InDelta(t, 0.4, s.MedianGC, 1e-9)
	assert.InDelta(t, 0.5, s.MeanBias, 1e-9)
	assert.InDelta(t, 0.5, s.MedianBias, 1e-9)

	var buf bytes.Buffer
	s.WriteSummary(&buf)
	assert.Contains(t, buf.String(), "Rows:            3")
	assert.Contains(t, buf.String(), "MILC mean/median")
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&genetable.Table{})
	assert.Equal(t, 0, s.Rows)
	assert.Equal(t, 0.0, s.MeanGC)
	assert.Equal(t, 0.0, s.MedianBias)

	var buf bytes.Buffer
	s.WriteSummary(&buf)
	assert.NotContains(t, buf.String(), "MILC")
}
