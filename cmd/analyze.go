package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vizrec-cli/internal/advisor"
	"github.com/KaramelBytes/vizrec-cli/internal/features"
)

var (
	anaFull      bool
	anaMaxCharts int
	anaInput     inputFlags
	anaOut       outputFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract features from a dataset and recommend charts in one step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := anaInput.loadOptions()
		if err != nil {
			return err
		}
		adv, err := newAdvisor(anaFull, anaMaxCharts).AdviseFile(args[0], opt)
		if err != nil {
			return err
		}
		return anaOut.emit(cmd, adv)
	},
}

// newAdvisor builds the pipeline from config; full attaches the 841-entry
// vector as detail.
func newAdvisor(full bool, maxCharts int) *advisor.Advisor {
	fo := features.Options{Strict: cfg.Strict()}
	var opts []advisor.Option
	if full {
		opts = append(opts, advisor.WithDetail(features.NewFull(fo)))
	}
	return advisor.New(features.NewMinimal(fo), newRecommender(maxCharts), opts...)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&anaFull, "full", false, "attach the full 841-entry feature vector")
	analyzeCmd.Flags().IntVar(&anaMaxCharts, "max-charts", 0, "maximum charts to return (default from config)")
	anaInput.register(analyzeCmd)
	anaOut.register(analyzeCmd)
}
