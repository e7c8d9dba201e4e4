package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/vizrec-cli/internal/config"
	"github.com/KaramelBytes/vizrec-cli/internal/logging"
	"github.com/KaramelBytes/vizrec-cli/internal/utils"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "vizrec",
	Short: "vizrec: dataset feature vectors and chart recommendations",
	Long: `vizrec summarizes a tabular dataset (JSON, CSV/TSV or XLSX) into a fixed-length
feature vector and recommends chart types for it with a deterministic rule engine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errorResult is the machine-readable failure envelope.
type errorResult struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.OutOrStdout(), os.Stderr, err)
		os.Exit(1)
	}
}

// reportError writes the JSON envelope to stdout and a short line to stderr.
func reportError(stdout, stderr io.Writer, err error) {
	if b, mErr := utils.PrettyJSON(errorResult{Error: err.Error(), Status: "error"}); mErr == nil {
		fmt.Fprintln(stdout, string(b))
	}
	fmt.Fprintln(stderr, "✗ Error:", err)
}

func init() {
	// Assigned here: loadConfig reads rootCmd, so setting it in the
	// literal would be an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return loadConfig() }
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.vizrec/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("log-level") {
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid --log-level: %s (use debug|info|warn|error)", logLevel)
		}
		cfg.LogLevel = logLevel
	}
	level := logging.ParseLevel(cfg.LogLevel)
	if debug {
		level = slog.LevelDebug
	}
	logging.Init(cfg.OutputFormat == cfgpkg.FormatJSON, level)
	slog.Debug("config loaded", "file", cfgFile, "nan_policy", cfg.NaNPolicy, "max_charts", cfg.MaxCharts)
	return nil
}
