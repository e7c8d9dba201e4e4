package cmd

import (
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/vizrec-cli/internal/config"
	"github.com/KaramelBytes/vizrec-cli/internal/dataset"
	"github.com/KaramelBytes/vizrec-cli/internal/recommend"
	"github.com/KaramelBytes/vizrec-cli/internal/utils"
)

// inputFlags are the dataset loading flags shared by extract and analyze.
type inputFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',', ';', '|' or 'tab' (default: by extension)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet position when --sheet-name is not set")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "read at most N data rows (0 = config or all)")
}

// loadOptions merges the flags over the loaded config.
func (f *inputFlags) loadOptions() (dataset.LoadOptions, error) {
	opt := dataset.DefaultLoadOptions()
	delim := f.delimiter
	if delim == "" {
		delim = cfg.Delimiter
	}
	r, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = r
	opt.MaxRows = cfg.MaxRows
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	return opt, nil
}

// outputFlags select the encoding and destination of a command's result.
type outputFlags struct {
	format string
	output string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "output format: json|yaml|markdown (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to this file instead of stdout")
}

func (f *outputFlags) emit(cmd *cobra.Command, v any) error {
	format := f.format
	if format == "" {
		format = cfg.OutputFormat
	}
	b, err := utils.Encode(format, v)
	if err != nil {
		return err
	}
	if err := utils.Emit(cmd.OutOrStdout(), f.output, b); err != nil {
		return err
	}
	if f.output != "" {
		cmd.PrintErrf("✓ Wrote %s\n", f.output)
	}
	return nil
}

// newRecommender builds the rule engine from config, with an optional
// max-charts override.
func newRecommender(maxCharts int) *recommend.RuleEngine {
	n := cfg.MaxCharts
	if maxCharts > 0 {
		n = maxCharts
	}
	return recommend.NewRuleEngine(
		recommend.WithMaxCharts(n),
		recommend.WithLargeDatasetRows(cfg.LargeDatasetRows),
	)
}
