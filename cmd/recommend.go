package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vizrec-cli/internal/recommend"
)

var (
	recFile      string
	recMaxCharts int
	recOut       outputFlags
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [payload-json | -]",
	Short: "Recommend chart types for a feature payload",
	Long: `Recommend reads a payload of the form {"features": [...]} and prints the
ranked chart types. The payload is taken from the argument, from --file, or
from stdin when the argument is "-" or omitted.`,
	Example: `  vizrec recommend '{"features": [200, 3, 1, 2]}'
  vizrec extract --minimal data.csv | vizrec recommend -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readPayload(cmd, args)
		if err != nil {
			return err
		}
		vec, err := recommend.ParsePayload(data)
		if err != nil {
			return err
		}
		rec, err := newRecommender(recMaxCharts).Recommend(vec)
		if err != nil {
			return err
		}
		slog.Debug("recommended charts", "features", len(vec), "charts", len(rec.Charts), "confidence", rec.Confidence)
		return recOut.emit(cmd, rec.Result())
	},
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if recFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass the payload either as an argument or with --file, not both")
		}
		b, err := os.ReadFile(recFile)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return b, nil
	}
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return b, nil
	}
	return []byte(args[0]), nil
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVarP(&recFile, "file", "f", "", "read the payload from this file")
	recommendCmd.Flags().IntVar(&recMaxCharts, "max-charts", 0, "maximum charts to return (default from config)")
	recOut.register(recommendCmd)
}
