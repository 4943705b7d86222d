// Package output provides gene table output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pengfang11/Chloroplot/internal/genetable"
)

// Columns of the gene table.
var Columns = []string{
	"chr",
	"start",
	"end",
	"strand",
	"gene",
	"pseudo",
	"cu_bias",
	"gc",
}

// TabWriter writes gene table rows in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(Columns, "\t") + "\n")
	return err
}

// Write writes a single row. Missing metrics are written as "NA".
func (tw *TabWriter) Write(r genetable.Row) error {
	values := []string{
		r.Chrom,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Strand.String(),
		r.Gene,
		strconv.FormatBool(r.Pseudo),
		formatOptional(r.CUBias),
		formatOptional(r.GC),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteTable writes the header and every row, then flushes.
func (tw *TabWriter) WriteTable(t *genetable.Table) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := tw.Write(r); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "NA"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}
