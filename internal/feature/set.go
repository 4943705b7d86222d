package feature

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// List is the features of one type, in input order.
type List struct {
	Type     string
	Features []Feature
}

// Set is an ordered collection of typed feature lists.
type Set []List

// Add appends a list for the given type.
func (s *Set) Add(typ string, features ...Feature) {
	*s = append(*s, List{Type: typ, Features: features})
}

// UnmarshalYAML decodes a mapping of type name to feature list, keeping
// the order of the document so that coding records stay in file order.
func (s *Set) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: feature set must be a mapping of type to features", value.Line)
	}
	out := make(Set, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var features []Feature
		if err := val.Decode(&features); err != nil {
			return fmt.Errorf("decode %s features: %w", key.Value, err)
		}
		out = append(out, List{Type: key.Value, Features: features})
	}
	*s = out
	return nil
}

// Extract flattens the set into one record list. A feature without its own
// type takes the type of the list it came from. Missing coordinates are
// left missing.
func Extract(s Set) []Feature {
	n := 0
	for _, l := range s {
		n += len(l.Features)
	}
	out := make([]Feature, 0, n)
	for _, l := range s {
		for _, f := range l.Features {
			if f.Type == "" {
				f.Type = l.Type
			}
			out = append(out, f)
		}
	}
	return out
}

// Record exposes the feature collections of a parsed annotation record.
type Record interface {
	// Genes returns the named gene features.
	Genes() []Feature
	// OtherFeatures returns non-gene features such as tRNA and rRNA.
	OtherFeatures() []Feature
	// CDS returns the coding-sequence features in file order.
	CDS() []Feature
}
