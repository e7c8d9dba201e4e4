// Package advisor runs the extract-then-recommend pipeline over a dataset.
package advisor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/vizrec-cli/internal/dataset"
	"github.com/KaramelBytes/vizrec-cli/internal/features"
	"github.com/KaramelBytes/vizrec-cli/internal/recommend"
)

// Method labels advice produced by the rule pipeline.
const Method = "modern-vizml"

// Advice is one pipeline run.
type Advice struct {
	RunID      uuid.UUID         `json:"run_id" yaml:"run_id"`
	Source     string            `json:"source,omitempty" yaml:"source,omitempty"`
	Features   *features.Result  `json:"features" yaml:"features"`
	Prediction *recommend.Result `json:"prediction" yaml:"prediction"`
	Confidence float64           `json:"confidence" yaml:"confidence"`
	Method     string            `json:"method" yaml:"method"`
	Columns    []ColumnProfile   `json:"columns" yaml:"columns"`
	Parameters []ChartParams     `json:"chart_parameters" yaml:"chart_parameters"`
	Detail     *features.Result  `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Advisor wires an extractor to a recommender.
type Advisor struct {
	extractor   features.Extractor
	recommender recommend.Recommender
	detail      features.Extractor
	logger      *slog.Logger
	newID       func() uuid.UUID
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDetail attaches a second extraction (usually the full layout) to
// every Advice.
func WithDetail(ex features.Extractor) Option {
	return func(a *Advisor) { a.detail = ex }
}

// WithIDs replaces the run id generator.
func WithIDs(fn func() uuid.UUID) Option {
	return func(a *Advisor) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// New returns an Advisor. A nil extractor defaults to the minimal layout,
// whose leading entries are the counts the rule engine reads; a nil
// recommender defaults to the rule engine.
func New(ex features.Extractor, rec recommend.Recommender, opts ...Option) *Advisor {
	if ex == nil {
		ex = features.NewMinimal(features.Options{})
	}
	if rec == nil {
		rec = recommend.NewRuleEngine()
	}
	a := &Advisor{
		extractor:   ex,
		recommender: rec,
		logger:      slog.Default(),
		newID:       uuid.New,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Advise extracts features from ds and recommends charts. A dataset with
// no rows is rejected with a dataset.ShapeError.
func (a *Advisor) Advise(ds *dataset.Dataset) (*Advice, error) {
	id := a.newID()
	log := a.logger.With("run_id", id.String(), "source", ds.Name())

	if ds.Rows() == 0 {
		log.Warn("rejecting empty dataset", "columns", ds.NumColumns())
		return nil, &dataset.ShapeError{Rows: ds.Rows(), Columns: ds.NumColumns()}
	}
	log.Debug("extracting features", "extractor", a.extractor.Name(), "rows", ds.Rows(), "columns", ds.NumColumns())
	fr, err := a.extractor.Extract(ds)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}
	rec, err := a.recommender.Recommend(fr.Features)
	if err != nil {
		return nil, fmt.Errorf("recommend charts: %w", err)
	}
	profiles := ProfileColumns(ds)
	adv := &Advice{
		RunID:      id,
		Source:     ds.Name(),
		Features:   fr,
		Prediction: rec.Result(),
		Confidence: rec.Confidence,
		Method:     Method,
		Columns:    profiles,
		Parameters: BindCharts(rec.Charts, profiles),
	}
	if a.detail != nil {
		d, err := a.detail.Extract(ds)
		if err != nil {
			return nil, fmt.Errorf("extract %s features: %w", a.detail.Name(), err)
		}
		adv.Detail = d
	}
	log.Info("recommended charts", "charts", chartNames(rec.Charts), "confidence", rec.Confidence)
	return adv, nil
}

// AdviseFile loads path and advises on it.
func (a *Advisor) AdviseFile(path string, opt dataset.LoadOptions) (*Advice, error) {
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	return a.Advise(ds)
}

// Markdown renders the advice for terminals.
func (adv *Advice) Markdown() string {
	var b strings.Builder
	b.WriteString("[RECOMMENDATION]\n")
	if adv.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", adv.Source))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", adv.RunID))
	if adv.Prediction != nil {
		b.WriteString(fmt.Sprintf("Charts: %s\n", strings.Join(chartNames(adv.Prediction.RecommendedCharts), ", ")))
		b.WriteString(fmt.Sprintf("Confidence: %.2f\n", adv.Confidence))
		b.WriteString(fmt.Sprintf("Reasoning: %s\n", adv.Prediction.Reasoning))
	}
	if len(adv.Parameters) > 0 {
		b.WriteString("\n[CHART PARAMETERS]\n")
		for _, p := range adv.Parameters {
			b.WriteString(fmt.Sprintf("- %s:%s\n", p.Chart, bindingText(p)))
		}
	}
	b.WriteString("\n")
	if adv.Detail != nil {
		b.WriteString(adv.Detail.Markdown())
	} else if adv.Features != nil {
		b.WriteString(adv.Features.Markdown())
	}
	return b.String()
}

func bindingText(p ChartParams) string {
	var b strings.Builder
	for _, kv := range [][2]string{{"x", p.X}, {"y", p.Y}, {"group_by", p.GroupBy}, {"label", p.Label}, {"value", p.Value}} {
		if kv[1] != "" {
			b.WriteString(fmt.Sprintf(" %s=%s", kv[0], kv[1]))
		}
	}
	return b.String()
}

func chartNames(cs []recommend.Chart) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
