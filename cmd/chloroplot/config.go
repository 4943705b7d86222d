package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pengfang11/Chloroplot/internal/input"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage chloroplot configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.chloroplot.yaml.

Settable keys:
  input.mode      list or record
  output.format   tab or duckdb
  output.duckdb   default DuckDB database path
  log.verbose     true or false`,
		Example: `  chloroplot config                          # show all config
  chloroplot config set input.mode record     # default to record documents
  chloroplot config get output.format         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func runConfigShow(w io.Writer) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintf(w, "# No configuration set. Config file: %s\n", configPath())
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintf(w, "# Config file: %s\n", configPath())
	fmt.Fprint(w, string(out))
	return nil
}

// configKeys are the settable keys, each with a validator for its value.
var configKeys = map[string]func(string) error{
	"input.mode":    validateMode,
	"output.format": validateFormat,
	"output.duckdb": func(string) error { return nil },
	"log.verbose":   validateBool,
}

func validateMode(v string) error {
	switch v {
	case input.ModeList, input.ModeRecord:
		return nil
	}
	return fmt.Errorf("unknown input mode %q (want %s or %s)", v, input.ModeList, input.ModeRecord)
}

func validateFormat(v string) error {
	switch v {
	case formatTab, formatDuckDB:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", v, formatTab, formatDuckDB)
}

func validateBool(v string) error {
	if _, ok := parseBool(v); !ok {
		return fmt.Errorf("invalid boolean %q", v)
	}
	return nil
}

func parseBool(v string) (value, ok bool) {
	switch v {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	}
	return false, false
}

func runConfigSet(w io.Writer, key, value string) error {
	validate, known := configKeys[key]
	if !known {
		keys := make([]string, 0, len(configKeys))
		for k := range configKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return usageError{fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(keys, ", "))}
	}
	if err := validate(value); err != nil {
		return usageError{fmt.Errorf("%s: %w", key, err)}
	}

	if b, ok := parseBool(value); ok && key == "log.verbose" {
		viper.Set(key, b)
	} else {
		viper.Set(key, value)
	}

	cfg := configPath()
	if err := viper.WriteConfigAs(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, cfg)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}
