// Package genename canonicalizes organelle gene names.
//
// Ribosomal RNA names are rewritten to the rrn form ("16S ribosomal RNA" ->
// "rrn16") and transfer RNA names to the trn form ("tRNA-Leu" -> "trnL").
// Every other name passes through unchanged.
package genename

import (
	"regexp"
	"strings"
)

var (
	rrnaPattern = regexp.MustCompile(`^[A-Za-z]*(\d+\.?\d*)S.*$`)
	trnaPrefix  = regexp.MustCompile(`^trnf?[A-Z]`)
)

// aminoAcid pairs a three-letter amino acid code with its single-letter code.
type aminoAcid struct {
	three  string
	single string
}

// aminoAcids is applied in order. The trailing "He" entry is carried over
// from the source annotation tables; it sits after "Phe" so that it never
// shadows it.
var aminoAcids = []aminoAcid{
	{"Ala", "A"}, {"Arg", "R"}, {"Asn", "N"}, {"Asp", "D"},
	{"Cys", "C"}, {"Glu", "E"}, {"Gln", "Q"}, {"Gly", "G"},
	{"His", "H"}, {"Ile", "I"}, {"Leu", "L"}, {"Lys", "K"},
	{"Met", "M"}, {"Phe", "F"}, {"Pro", "P"}, {"Ser", "S"},
	{"Thr", "T"}, {"Trp", "W"}, {"Tyr", "Y"}, {"Val", "V"},
	{"He", "I"},
}

// Resolve returns gene, or product if gene is missing. Empty strings count
// as missing. The second return is false when neither is available.
func Resolve(gene, product *string) (string, bool) {
	if gene != nil && *gene != "" {
		return *gene, true
	}
	if product != nil && *product != "" {
		return *product, true
	}
	return "", false
}

// Canonical applies the rRNA and tRNA naming rules to name.
func Canonical(name string) string {
	if IsRRNA(name) {
		return RRNA(name)
	}
	if IsTRNA(name) {
		return TRNA(name)
	}
	return name
}

// IsRRNA reports whether name triggers the rRNA rule.
func IsRRNA(name string) bool {
	return rrnaPattern.MatchString(name)
}

// RRNA rewrites an rRNA name to rrn<size>, e.g. "23.5S rRNA" -> "rrn23.5".
// Names that do not trigger the rule are returned unchanged.
func RRNA(name string) string {
	m := rrnaPattern.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	return "rrn" + m[1]
}

// IsTRNA reports whether name starts with "trn", ignoring case.
func IsTRNA(name string) bool {
	return len(name) >= 3 && strings.EqualFold(name[:3], "trn")
}

// hasTRNAPrefix reports whether s starts with "tRNA" in any case. A
// lower-case "trn" start is already canonical ("trnA-UGC") and never matches.
func hasTRNAPrefix(s string) bool {
	return len(s) >= 4 && strings.EqualFold(s[:4], "tRNA") && !strings.HasPrefix(s, "trn")
}

// TRNA rewrites a tRNA name to trn[f]<X>, e.g. "trnA-Ala" -> "trnA".
// If the rewritten name has no single-letter code after "trn" the
// substituted form is returned without truncation.
func TRNA(name string) string {
	if !IsTRNA(name) {
		return name
	}
	s := strings.ReplaceAll(name, "-", "")
	if hasTRNAPrefix(s) {
		s = "trn" + s[len("tRNA"):]
	}
	for _, aa := range aminoAcids {
		s = strings.ReplaceAll(s, aa.three, aa.single)
	}
	if m := trnaPrefix.FindString(s); m != "" {
		return m
	}
	return s
}
