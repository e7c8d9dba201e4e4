package recommend

import "math"

const (
	// DefaultMaxCharts caps the returned chart list.
	DefaultMaxCharts = 5
	// DefaultLargeDatasetRows is the row count above which distribution
	// charts are suggested.
	DefaultLargeDatasetRows = 100
	// DefaultConfidence applies when no rule fires.
	DefaultConfidence = 0.6
)

// Option configures a RuleEngine.
type Option func(*RuleEngine)

// WithMaxCharts caps the chart list; n <= 0 keeps the default.
func WithMaxCharts(n int) Option {
	return func(e *RuleEngine) {
		if n > 0 {
			e.maxCharts = n
		}
	}
}

// WithLargeDatasetRows sets the row threshold of the distribution rule;
// n <= 0 keeps the default.
func WithLargeDatasetRows(n int) Option {
	return func(e *RuleEngine) {
		if n > 0 {
			e.largeRows = float64(n)
		}
	}
}

// RuleEngine is a fixed, ordered set of threshold rules.
type RuleEngine struct {
	maxCharts int
	largeRows float64
}

// NewRuleEngine returns a rule engine with the default thresholds.
func NewRuleEngine(opts ...Option) *RuleEngine {
	e := &RuleEngine{maxCharts: DefaultMaxCharts, largeRows: DefaultLargeDatasetRows}
	for _, o := range opts {
		o(e)
	}
	return e
}

type rule struct {
	when   func(s Signals, largeRows float64) bool
	charts []Scored
}

var rules = []rule{
	{
		when:   func(s Signals, _ float64) bool { return s.Categorical >= 2 && s.Numeric >= 1 },
		charts: []Scored{{Bar, 0.9}, {GroupedBar, 0.8}},
	},
	{
		when:   func(s Signals, _ float64) bool { return s.Numeric >= 2 },
		charts: []Scored{{Scatter, 0.85}, {Line, 0.8}},
	},
	{
		when:   func(s Signals, _ float64) bool { return s.Categorical >= 1 && s.Numeric >= 1 },
		charts: []Scored{{Pie, 0.7}, {Donut, 0.6}},
	},
	{
		when:   func(s Signals, large float64) bool { return s.Rows > large },
		charts: []Scored{{Histogram, 0.75}, {Density, 0.7}},
	},
}

var fallback = []Scored{{Bar, DefaultConfidence}, {Line, 0.5}}

// SignalsOf reads entries 0-3 of features; absent entries read as 0.
func SignalsOf(features []float64) Signals {
	at := func(i int) float64 {
		if i < len(features) {
			return features[i]
		}
		return 0
	}
	return Signals{Rows: at(0), Columns: at(1), Numeric: at(2), Categorical: at(3)}
}

// Recommend evaluates every rule in order and keeps the first charts in
// insertion order. Confidence is the highest collected score.
func (e *RuleEngine) Recommend(features []float64) (Recommendation, error) {
	s := SignalsOf(features)
	if !finite(s.Numeric) {
		return Recommendation{}, &PayloadError{Reason: "numeric column count (entry 2) is not a finite number"}
	}
	if !finite(s.Categorical) {
		return Recommendation{}, &PayloadError{Reason: "categorical column count (entry 3) is not a finite number"}
	}

	var scored []Scored
	for _, r := range rules {
		if r.when(s, e.largeRows) {
			scored = append(scored, r.charts...)
		}
	}
	if len(scored) == 0 {
		scored = append(scored, fallback...)
	}

	confidence := DefaultConfidence
	for i, sc := range scored {
		if i == 0 || sc.Score > confidence {
			confidence = sc.Score
		}
	}
	if len(scored) > e.maxCharts {
		scored = scored[:e.maxCharts]
	}
	charts := make([]Chart, len(scored))
	for i, sc := range scored {
		charts[i] = sc.Chart
	}
	return Recommendation{
		Charts:      charts,
		Scores:      scored,
		Confidence:  confidence,
		Reasoning:   reasoning(s),
		Signals:     s,
		NumFeatures: len(features),
	}, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
