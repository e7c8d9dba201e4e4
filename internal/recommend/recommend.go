// Package recommend maps a feature vector to ranked chart suggestions.
package recommend

import (
	"fmt"
	"strings"
)

// Chart is a chart-type label.
type Chart string

const (
	Bar        Chart = "bar"
	GroupedBar Chart = "grouped_bar"
	Scatter    Chart = "scatter"
	Line       Chart = "line"
	Pie        Chart = "pie"
	Donut      Chart = "donut"
	Histogram  Chart = "histogram"
	Density    Chart = "density"
)

// Charts lists the full vocabulary.
var Charts = []Chart{Bar, GroupedBar, Scatter, Line, Pie, Donut, Histogram, Density}

// StatusSuccess is the status of every returned Result.
const StatusSuccess = "success"

// Recommender turns a feature vector into a Recommendation. RuleEngine is
// the only implementation today; a trained model can satisfy the same
// contract.
type Recommender interface {
	Recommend(features []float64) (Recommendation, error)
}

// Signals are the vector entries a recommendation is based on.
type Signals struct {
	Rows        float64 `json:"rows" yaml:"rows"`
	Columns     float64 `json:"columns" yaml:"columns"`
	Numeric     float64 `json:"numeric" yaml:"numeric"`
	Categorical float64 `json:"categorical" yaml:"categorical"`
}

// Scored pairs a chart with the confidence a rule gave it.
type Scored struct {
	Chart Chart   `json:"chart" yaml:"chart"`
	Score float64 `json:"score" yaml:"score"`
}

// Recommendation is an ordered chart list with one overall confidence.
type Recommendation struct {
	Charts      []Chart
	Scores      []Scored
	Confidence  float64
	Reasoning   string
	Signals     Signals
	NumFeatures int
}

// FeatureAnalysis describes the consumed vector.
type FeatureAnalysis struct {
	NumFeatures    int    `json:"num_features" yaml:"num_features"`
	FeatureSummary string `json:"feature_summary" yaml:"feature_summary"`
}

// Result is the wire form of a Recommendation.
type Result struct {
	RecommendedCharts []Chart         `json:"recommended_charts" yaml:"recommended_charts"`
	Confidence        float64         `json:"confidence" yaml:"confidence"`
	Reasoning         string          `json:"reasoning" yaml:"reasoning"`
	Scores            []Scored        `json:"scores,omitempty" yaml:"scores,omitempty"`
	FeatureAnalysis   FeatureAnalysis `json:"feature_analysis" yaml:"feature_analysis"`
	Status            string          `json:"status" yaml:"status"`
}

// Result converts r for output.
func (r Recommendation) Result() *Result {
	return &Result{
		RecommendedCharts: r.Charts,
		Confidence:        r.Confidence,
		Reasoning:         r.Reasoning,
		Scores:            r.Scores,
		FeatureAnalysis: FeatureAnalysis{
			NumFeatures:    r.NumFeatures,
			FeatureSummary: "Modern feature analysis completed",
		},
		Status: StatusSuccess,
	}
}

// Markdown renders the result for terminals.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[RECOMMENDATION]\n")
	for i, sc := range r.Scores {
		b.WriteString(fmt.Sprintf("%d. %s (%.2f)\n", i+1, sc.Chart, sc.Score))
	}
	b.WriteString(fmt.Sprintf("Confidence: %.2f\n", r.Confidence))
	b.WriteString(fmt.Sprintf("Reasoning: %s\n", r.Reasoning))
	return b.String()
}

func reasoning(s Signals) string {
	return fmt.Sprintf("Based on %d numeric and %d categorical columns", int(s.Numeric), int(s.Categorical))
}
