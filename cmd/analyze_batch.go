package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vizrec-cli/internal/advisor"
)

var (
	abFull      bool
	abWorkers   int
	abMaxCharts int
	abInput     inputFlags
	abOut       outputFlags
)

// batchEntry is one file's outcome in the batch report.
type batchEntry struct {
	File   string          `json:"file" yaml:"file"`
	Status string          `json:"status" yaml:"status"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
	Advice *advisor.Advice `json:"advice,omitempty" yaml:"advice,omitempty"`
}

type batchReport struct {
	Results   []batchEntry `json:"results" yaml:"results"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
}

func (r *batchReport) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[BATCH] %d file(s): %d succeeded, %d failed\n\n", len(r.Results), r.Succeeded, r.Failed))
	for _, e := range r.Results {
		if e.Advice == nil {
			b.WriteString(fmt.Sprintf("[ERROR]\nFile: %s\n%s\n\n", e.File, e.Error))
			continue
		}
		b.WriteString(e.Advice.Markdown())
		b.WriteString("\n")
	}
	return b.String()
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze many datasets concurrently; globs are expanded",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := abInput.loadOptions()
		if err != nil {
			return err
		}
		workers := cfg.BatchWorkers
		if abWorkers > 0 {
			workers = abWorkers
		}
		items := newAdvisor(abFull, abMaxCharts).AdviseFiles(files, workers, opt)

		rep := &batchReport{Results: make([]batchEntry, len(items))}
		for i, it := range items {
			e := batchEntry{File: it.Path, Status: "success", Advice: it.Advice}
			if it.Err != nil {
				e.Status = "error"
				e.Error = it.Err.Error()
				rep.Failed++
			} else {
				rep.Succeeded++
			}
			rep.Results[i] = e
		}
		return abOut.emit(cmd, rep)
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and drops
// duplicates while preserving argument order.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().BoolVar(&abFull, "full", false, "attach the full 841-entry feature vector to each result")
	analyzeBatchCmd.Flags().IntVar(&abWorkers, "workers", 0, "concurrent workers (default from config)")
	analyzeBatchCmd.Flags().IntVar(&abMaxCharts, "max-charts", 0, "maximum charts per file (default from config)")
	abInput.register(analyzeBatchCmd)
	abOut.register(analyzeBatchCmd)
}
