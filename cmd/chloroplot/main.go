// Package main provides the chloroplot command-line tool.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if _, ok := err.(usageError); ok {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks errors caused by bad invocation.
type usageError struct{ error }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chloroplot",
		Short: "Organelle genome gene table builder",
		Long: `chloroplot derives a normalized gene table from annotated genome records:
coordinates, strand, canonical gene names, pseudogene status, codon usage bias
(MILC) and GC content for every gene, tRNA and rRNA.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.chloroplot.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")
	_ = viper.BindPFlag("log.verbose", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newGeneTableCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chloroplot version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig reads the config file and environment.
func initConfig() error {
	viper.SetDefault("input.mode", "list")
	viper.SetDefault("output.format", "tab")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".chloroplot")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CHLOROPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", configPath(), err)
	}
	return nil
}

// configPath returns the config file in use, or the default location.
func configPath() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chloroplot.yaml"
	}
	return filepath.Join(home, ".chloroplot.yaml")
}

// newLogger builds the logger from config: production JSON logging by
// default, human-readable development logging when verbose.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool("log.verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
