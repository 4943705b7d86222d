// Package input loads feature annotation documents.
//
// Two document shapes are supported, in YAML or JSON:
//
// A feature list document maps feature type names to feature lists:
//
//	gene:
//	  - {start: 1, end: 1062, strand: "-", gene: psbA}
//	CDS:
//	  - {start: 1, end: 1062, strand: "-", gene: psbA}
//
// A record document holds the gene, other-feature and CDS collections of
// one annotation record:
//
//	genes:          [...]
//	other_features: [...]
//	cds:            [...]
package input

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pengfang11/Chloroplot/internal/feature"
)

// Modes select the gene table entry point.
const (
	ModeList   = "list"
	ModeRecord = "record"
)

// RecordDocument is a record document. It implements feature.Record.
type RecordDocument struct {
	GeneFeatures  []feature.Feature `yaml:"genes"`
	OtherFeats    []feature.Feature `yaml:"other_features"`
	CodingRegions []feature.Feature `yaml:"cds"`
}

// Genes implements feature.Record.
func (d *RecordDocument) Genes() []feature.Feature { return d.GeneFeatures }

// OtherFeatures implements feature.Record.
func (d *RecordDocument) OtherFeatures() []feature.Feature { return d.OtherFeats }

// CDS implements feature.Record.
func (d *RecordDocument) CDS() []feature.Feature { return d.CodingRegions }

// LoadFeatureSet reads a feature list document from path.
func LoadFeatureSet(path string) (feature.Set, error) {
	var set feature.Set
	if err := decodeFile(path, &set); err != nil {
		return nil, err
	}
	return set, nil
}

// ReadFeatureSet reads a feature list document.
func ReadFeatureSet(r io.Reader) (feature.Set, error) {
	var set feature.Set
	if err := decode(r, &set); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadRecord reads a record document from path.
func LoadRecord(path string) (*RecordDocument, error) {
	var doc RecordDocument
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadRecord reads a record document.
func ReadRecord(r io.Reader) (*RecordDocument, error) {
	var doc RecordDocument
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open feature file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return decode(reader, v)
}

func decode(r io.Reader, v interface{}) error {
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("decode features: empty document")
		}
		return fmt.Errorf("decode features: %w", err)
	}
	return nil
}
