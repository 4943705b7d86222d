// Package feature provides the uniform annotated-region record shared by both
// gene table entry points.
package feature

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Feature types recognized by the gene table.
const (
	TypeGene = "gene"
	TypeCDS  = "CDS"
	TypeTRNA = "tRNA"
	TypeRRNA = "rRNA"
)

// Strand is the orientation of a feature on the genome.
type Strand int8

const (
	StrandUnknown Strand = 0
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// ParseStrand converts a strand string ("+", "-", "1", "-1") to a Strand.
func ParseStrand(s string) Strand {
	switch s {
	case "+", "1", "+1":
		return StrandForward
	case "-", "-1":
		return StrandReverse
	}
	return StrandUnknown
}

// String returns "+", "-" or "." for an unknown strand.
func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	}
	return "."
}

// IsKnown reports whether the strand is forward or reverse.
func (s Strand) IsKnown() bool {
	return s == StrandForward || s == StrandReverse
}

// UnmarshalYAML accepts "+", "-", 1 and -1.
func (s *Strand) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: strand must be a scalar", value.Line)
	}
	*s = ParseStrand(value.Value)
	return nil
}

// MarshalYAML writes the strand as "+" or "-".
func (s Strand) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Feature is a single annotated region. Nil pointer fields are missing values.
type Feature struct {
	// Start and End are 1-based and inclusive.
	Start   *int64  `yaml:"start"`
	End     *int64  `yaml:"end"`
	Strand  Strand  `yaml:"strand"`
	Type    string  `yaml:"type"`
	Gene    *string `yaml:"gene"`
	GeneID  *string `yaml:"gene_id"`
	Pseudo  *bool   `yaml:"pseudo"`
	Product *string `yaml:"product"`
}

// HasSpan returns true if both coordinates are present.
func (f *Feature) HasSpan() bool {
	return f.Start != nil && f.End != nil
}

// Len returns the span length, or 0 if the coordinates are missing.
func (f *Feature) Len() int64 {
	if !f.HasSpan() || *f.End < *f.Start {
		return 0
	}
	return *f.End - *f.Start + 1
}

// IsPseudo returns the pseudo flag, treating a missing flag as false.
func (f *Feature) IsPseudo() bool {
	return f.Pseudo != nil && *f.Pseudo
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
