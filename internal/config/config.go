package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/vizrec-cli/internal/logging"
)

// NaN policies for degenerate datasets.
const (
	NaNPropagate = "propagate"
	NaNError     = "error"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// Global configuration structure.
type Global struct {
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	// Delimiter for delimited text; empty sniffs from the file extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	NaNPolicy string `mapstructure:"nan_policy" yaml:"nan_policy"`

	// Recommender thresholds
	MaxCharts        int `mapstructure:"max_charts" yaml:"max_charts"`
	LargeDatasetRows int `mapstructure:"large_dataset_rows" yaml:"large_dataset_rows"`

	BatchWorkers int `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// Strict reports whether degenerate datasets are rejected.
func (c *Global) Strict() bool { return c.NaNPolicy == NaNError }

// Dir returns ~/.vizrec.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".vizrec"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.vizrec/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) { return load(cfgFile, true) }

// LoadFile loads the config file over defaults, ignoring VIZREC_*
// variables. It is the base that `config set` edits and saves.
func LoadFile(cfgFile string) (*Global, error) { return load(cfgFile, false) }

func load(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix("VIZREC")
		v.AutomaticEnv()
	}

	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", FormatJSON)
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("nan_policy", NaNPropagate)
	v.SetDefault("max_charts", 5)
	v.SetDefault("large_dataset_rows", 100)
	v.SetDefault("batch_workers", 4)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric keys.
func (c *Global) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", c.LogLevel)
	}
	switch c.OutputFormat {
	case FormatJSON, FormatYAML, FormatMarkdown:
	default:
		return fmt.Errorf("invalid output_format: %s (use json|yaml|markdown)", c.OutputFormat)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	switch c.NaNPolicy {
	case NaNPropagate, NaNError:
	default:
		return fmt.Errorf("invalid nan_policy: %s (use propagate|error)", c.NaNPolicy)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("invalid max_rows: %d", c.MaxRows)
	}
	if c.MaxCharts <= 0 {
		return fmt.Errorf("invalid max_charts: %d", c.MaxCharts)
	}
	if c.LargeDatasetRows < 0 {
		return fmt.Errorf("invalid large_dataset_rows: %d", c.LargeDatasetRows)
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	return nil
}

// Set assigns one key from its string form and validates the result.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "output_format":
		next.OutputFormat = strings.ToLower(val)
	case "delimiter":
		next.Delimiter = val
	case "nan_policy":
		next.NaNPolicy = strings.ToLower(val)
	case "max_rows", "max_charts", "large_dataset_rows", "batch_workers":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "max_rows":
			next.MaxRows = i
		case "max_charts":
			next.MaxCharts = i
		case "large_dataset_rows":
			next.LargeDatasetRows = i
		case "batch_workers":
			next.BatchWorkers = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ParseDelimiter maps ",", ";", "|", "tab" or "\t" to a rune. Empty means
// auto.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',', ';', '|' or tab)", s)
	}
}
