package genome

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ErrNoSequence is returned when a FASTA input contains no records.
var ErrNoSequence = errors.New("no sequence in FASTA input")

// LoadFASTA reads the first record of a FASTA file as the genome.
// Gzipped files (.gz) are decompressed transparently.
func LoadFASTA(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ReadFASTA(reader)
}

// ReadFASTA reads the first record of FASTA content as the genome.
// Any further records are ignored.
func ReadFASTA(r io.Reader) (*Sequence, error) {
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	if !sc.Next() {
		if err := sc.Error(); err != nil {
			return nil, fmt.Errorf("scan FASTA: %w", err)
		}
		return nil, ErrNoSequence
	}

	s, ok := sc.Seq().(*linear.Seq)
	if !ok {
		return nil, fmt.Errorf("scan FASTA: unexpected sequence type %T", sc.Seq())
	}
	bases := alphabet.LettersToBytes(s.Seq)
	if len(bases) == 0 {
		return nil, ErrNoSequence
	}

	return NewSequence(s.ID, bases), nil
}
