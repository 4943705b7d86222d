package genetable

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pengfang11/Chloroplot/internal/codon"
	"github.com/pengfang11/Chloroplot/internal/feature"
	"github.com/pengfang11/Chloroplot/internal/gc"
	"github.com/pengfang11/Chloroplot/internal/genename"
	"github.com/pengfang11/Chloroplot/internal/genome"
)

// Builder derives gene tables from annotations and a genome sequence.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// FromFeatures builds the gene table from typed feature lists. Coding
// records are taken from the CDS features in list order.
func (b *Builder) FromFeatures(set feature.Set, g *genome.Sequence) (*Table, error) {
	features := feature.Extract(set)
	rows, dropped := AssembleFeatures(features)

	var cds []feature.Feature
	for _, f := range features {
		if f.Type == feature.TypeCDS {
			cds = append(cds, f)
		}
	}

	return b.finish(rows, dropped, cds, g)
}

// FromRecord builds the gene table from a record's gene, other-feature and
// CDS collections.
func (b *Builder) FromRecord(rec feature.Record, g *genome.Sequence) (*Table, error) {
	rows, dropped := AssembleRecord(rec)
	return b.finish(rows, dropped, rec.CDS(), g)
}

func (b *Builder) finish(rows []Row, dropped int, cds []feature.Feature, g *genome.Sequence) (*Table, error) {
	if dropped > 0 {
		b.logger.Warn("dropped features with missing coordinates, strand or name",
			zap.Int("dropped", dropped))
	}

	coding, droppedCoding, err := codingRecords(cds)
	if err != nil {
		return nil, err
	}
	if droppedCoding > 0 {
		b.logger.Warn("dropped coding records without a gene name",
			zap.Int("dropped", droppedCoding))
	}

	bias, err := codon.ComputeBias(coding, g)
	if err != nil {
		return nil, fmt.Errorf("compute codon usage bias: %w", err)
	}
	b.logger.Debug("scored coding sequences",
		zap.Int("records", len(coding)),
		zap.Int("transcripts", len(bias)))

	JoinBias(rows, bias)
	if err := AnnotateGC(rows, g); err != nil {
		return nil, fmt.Errorf("compute GC content: %w", err)
	}

	b.logger.Info("built gene table",
		zap.Int("rows", len(rows)),
		zap.Int64("genome_length", g.Len()))

	return &Table{Rows: rows, Dropped: dropped, DroppedCoding: droppedCoding}, nil
}

// codingRecords resolves and canonicalizes the names of CDS features.
// Features without a name are counted and skipped; features that cannot be
// placed on the genome are an error.
func codingRecords(cds []feature.Feature) ([]codon.Coding, int, error) {
	var (
		out     []codon.Coding
		dropped int
	)
	for _, f := range cds {
		name, ok := genename.Resolve(f.Gene, f.Product)
		if !ok {
			dropped++
			continue
		}
		c, err := codon.FromFeature(f, genename.Canonical(name))
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, dropped, nil
}

type biasKey struct {
	gene   string
	strand feature.Strand
	start  int64
}

// JoinBias attaches bias scores to rows matching on (gene, strand, start).
// Rows without a match keep a nil bias.
func JoinBias(rows []Row, bias []codon.Bias) {
	byKey := make(map[biasKey]*float64, len(bias))
	for _, b := range bias {
		k := biasKey{b.Gene, b.Strand, b.Start}
		if _, ok := byKey[k]; !ok {
			byKey[k] = b.Score
		}
	}
	for i := range rows {
		rows[i].CUBias = byKey[biasKey{rows[i].Gene, rows[i].Strand, rows[i].Start}]
	}
}

// AnnotateGC attaches the GC fraction of each row's span.
func AnnotateGC(rows []Row, g *genome.Sequence) error {
	for i := range rows {
		frac, err := gc.Span(g, rows[i].Start, rows[i].End)
		if err != nil {
			return fmt.Errorf("%s: %w", rows[i].Gene, err)
		}
		rows[i].GC = frac
	}
	return nil
}
