package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jchantrell/lgres/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	dbPath     string
	outputDir  string
	types      []string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "lgres",
	Short: "Looking Glass resource file inspection and extraction tool",
	Long: `lgres reads Looking Glass Technologies resource files (.RES) as shipped
with System Shock and related games.

It can describe an archive, list its directory with computed data offsets,
extract resources to disk and catalog directories into a queryable SQLite
database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("output") {
			cfg.Output = outputDir
		}
		if cmd.Flags().Changed("types") {
			cfg.Types = types
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		slog.SetDefault(slog.New(newLogHandler(os.Stderr, cfg)))

		slog.Debug("Configuration",
			"database", cfg.Database,
			"output", cfg.Output,
			"types", cfg.Types,
			"compress", cfg.Compress,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

// newLogHandler returns a tint handler for text output and a JSON handler otherwise
func newLogHandler(w io.Writer, cfg *config.Config) slog.Handler {
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.Level(),
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level: cfg.Level(),
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is lgres.yaml in home or pwd)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "catalog database file path")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory for extracted resources")
	rootCmd.PersistentFlags().StringSliceVar(&types, "types", []string{}, "comma-separated list of resource types to include")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
