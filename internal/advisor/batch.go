package advisor

import (
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/KaramelBytes/vizrec-cli/internal/dataset"
)

// BatchItem is the outcome for one input file; exactly one of Advice and
// Err is set.
type BatchItem struct {
	Path   string
	Advice *Advice
	Err    error
}

// AdviseFiles runs AdviseFile over paths with at most workers goroutines.
// Items come back in input order; a failing file does not stop the others.
func (a *Advisor) AdviseFiles(paths []string, workers int, opt dataset.LoadOptions) []BatchItem {
	if workers <= 0 {
		workers = 1
	}
	type indexed struct {
		i    int
		item BatchItem
	}
	p := pool.NewWithResults[indexed]().WithMaxGoroutines(workers)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() indexed {
			adv, err := a.AdviseFile(path, opt)
			if err != nil {
				a.logger.Error("batch item failed", "file", path, "err", err)
			}
			return indexed{i: i, item: BatchItem{Path: path, Advice: adv, Err: err}}
		})
	}
	res := p.Wait()
	sort.Slice(res, func(x, y int) bool { return res[x].i < res[y].i })
	out := make([]BatchItem, len(res))
	for k, r := range res {
		out[k] = r.item
	}
	return out
}
