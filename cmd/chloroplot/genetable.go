package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pengfang11/Chloroplot/internal/duckdb"
	"github.com/pengfang11/Chloroplot/internal/genetable"
	"github.com/pengfang11/Chloroplot/internal/genome"
	"github.com/pengfang11/Chloroplot/internal/input"
	"github.com/pengfang11/Chloroplot/internal/output"
)

// Output formats.
const (
	formatTab    = "tab"
	formatDuckDB = "duckdb"
)

type geneTableOptions struct {
	featuresPath string
	genomePath   string
	outputPath   string
	summary      bool
	force        bool
}

func newGeneTableCmd() *cobra.Command {
	var opts geneTableOptions

	cmd := &cobra.Command{
		Use:   "genetable",
		Short: "Build the gene table for an annotated genome",
		Long: `Build the gene table from a feature document (YAML or JSON) and the genome
FASTA. In list mode the document maps feature types to feature lists; in record
mode it holds genes, other_features and cds collections.

With --format duckdb the table is rebuilt only when the mode or an input file
changed since the stored table was written, unless --force is given.`,
		Example: `  chloroplot genetable --features features.yaml --genome chloroplast.fa
  chloroplot genetable --mode record --features record.json --genome cp.fa.gz -o genes.tsv
  chloroplot genetable --features features.yaml --genome cp.fa --format duckdb --duckdb genes.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneTable(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.featuresPath, "features", "", "Feature document (YAML or JSON, optionally gzipped)")
	f.StringVar(&opts.genomePath, "genome", "", "Genome FASTA file (optionally gzipped)")
	f.StringVarP(&opts.outputPath, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&opts.summary, "summary", true, "Print a summary to stderr")
	f.BoolVar(&opts.force, "force", false, "Rebuild a DuckDB gene table even if its inputs are unchanged")
	f.String("mode", input.ModeList, "Input mode: list or record")
	f.StringP("format", "f", formatTab, "Output format: tab or duckdb")
	f.String("duckdb", "", "DuckDB database path for --format duckdb")

	_ = viper.BindPFlag("input.mode", f.Lookup("mode"))
	_ = viper.BindPFlag("output.format", f.Lookup("format"))
	_ = viper.BindPFlag("output.duckdb", f.Lookup("duckdb"))

	return cmd
}

func runGeneTable(cmd *cobra.Command, opts geneTableOptions) error {
	if opts.featuresPath == "" {
		return usageError{fmt.Errorf("--features is required")}
	}
	if opts.genomePath == "" {
		return usageError{fmt.Errorf("--genome is required")}
	}
	mode := viper.GetString("input.mode")
	if err := validateMode(mode); err != nil {
		return usageError{err}
	}
	format := viper.GetString("output.format")
	if err := validateFormat(format); err != nil {
		return usageError{err}
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	var table *genetable.Table
	if format == formatDuckDB {
		table, err = runDuckDB(cmd, opts, mode, logger)
	} else {
		table, err = buildTable(opts, mode, logger)
		if err == nil {
			err = writeTab(cmd.OutOrStdout(), opts.outputPath, table)
		}
	}
	if err != nil {
		return err
	}

	if opts.summary {
		output.Summarize(table).WriteSummary(cmd.ErrOrStderr())
	}
	return nil
}

func buildTable(opts geneTableOptions, mode string, logger *zap.Logger) (*genetable.Table, error) {
	g, err := genome.LoadFASTA(opts.genomePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded genome", zap.String("id", g.ID), zap.Int64("length", g.Len()))

	b := genetable.NewBuilder()
	b.SetLogger(logger)

	if mode == input.ModeRecord {
		rec, err := input.LoadRecord(opts.featuresPath)
		if err != nil {
			return nil, err
		}
		return b.FromRecord(rec, g)
	}
	set, err := input.LoadFeatureSet(opts.featuresPath)
	if err != nil {
		return nil, err
	}
	return b.FromFeatures(set, g)
}

func writeTab(stdout io.Writer, path string, table *genetable.Table) error {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := output.NewTabWriter(out).WriteTable(table); err != nil {
		return fmt.Errorf("write gene table: %w", err)
	}
	return nil
}

// runDuckDB rebuilds the gene table stored in the DuckDB database unless it
// is up to date with the inputs, in which case the stored table is returned.
func runDuckDB(cmd *cobra.Command, opts geneTableOptions, mode string, logger *zap.Logger) (*genetable.Table, error) {
	path := viper.GetString("output.duckdb")
	if path == "" {
		path = opts.outputPath
	}
	if path == "" {
		return nil, usageError{fmt.Errorf("--duckdb or --output is required for duckdb output")}
	}

	build := duckdb.Build{Mode: mode}
	for _, p := range []string{opts.featuresPath, opts.genomePath} {
		fp, err := duckdb.StatFile(p)
		if err != nil {
			return nil, fmt.Errorf("stat source: %w", err)
		}
		build.Sources = append(build.Sources, fp)
	}

	store, err := duckdb.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if !opts.force {
		fresh, err := store.UpToDate(build)
		if err != nil {
			return nil, err
		}
		if fresh {
			rows, err := store.ReadGeneTable()
			if err != nil {
				return nil, err
			}
			logger.Info("gene table up to date", zap.String("path", path), zap.Int("rows", len(rows)))
			fmt.Fprintf(cmd.ErrOrStderr(), "Gene table in %s is up to date\n", path)
			return &genetable.Table{Rows: rows}, nil
		}
	}

	table, err := buildTable(opts, mode, logger)
	if err != nil {
		return nil, err
	}
	if err := store.ReplaceGeneTable(table, build); err != nil {
		return nil, fmt.Errorf("store gene table: %w", err)
	}
	return table, nil
}
