package dataset

import (
	"math"
	"unicode/utf8"

	"github.com/KaramelBytes/vizrec-cli/internal/stats"
)

// NumericColumn holds float cells; missing cells are stored as NaN.
type NumericColumn struct {
	name   string
	values []float64
}

// NewNumericColumn copies values; NaN marks a missing cell.
func NewNumericColumn(name string, values []float64) *NumericColumn {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &NumericColumn{name: name, values: cp}
}

func (c *NumericColumn) Name() string { return c.name }
func (c *NumericColumn) Kind() Kind   { return Numeric }
func (c *NumericColumn) Len() int     { return len(c.values) }

func (c *NumericColumn) Missing() int {
	return len(c.values) - len(c.present())
}

// Values returns a copy of the cells, NaN where missing.
func (c *NumericColumn) Values() []float64 {
	cp := make([]float64, len(c.values))
	copy(cp, c.values)
	return cp
}

func (c *NumericColumn) present() []float64 {
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Summarize emits mean, std, min, max, median, skewness, kurtosis,
// unique-ratio and missing-ratio. Moments skip missing cells.
func (c *NumericColumn) Summarize() Summary {
	x := c.present()
	n := float64(len(c.values))
	return Summary{
		stats.Mean(x),
		stats.StdDev(x),
		stats.Min(x),
		stats.Max(x),
		stats.Median(x),
		stats.Skewness(x),
		stats.ExcessKurtosis(x),
		stats.Ratio(float64(stats.Distinct(x)), n),
		stats.Ratio(float64(len(c.values)-len(x)), n),
	}
}

// CategoricalColumn holds text cells with an explicit missing mask.
type CategoricalColumn struct {
	name    string
	values  []string
	missing []bool
}

// NewCategoricalColumn copies values; missing[i] marks an absent cell.
// A nil mask means no cell is missing.
func NewCategoricalColumn(name string, values []string, missing []bool) *CategoricalColumn {
	c := &CategoricalColumn{name: name, values: make([]string, len(values)), missing: make([]bool, len(values))}
	copy(c.values, values)
	copy(c.missing, missing)
	return c
}

func (c *CategoricalColumn) Name() string { return c.name }
func (c *CategoricalColumn) Kind() Kind   { return Categorical }
func (c *CategoricalColumn) Len() int     { return len(c.values) }

func (c *CategoricalColumn) Missing() int {
	n := 0
	for _, m := range c.missing {
		if m {
			n++
		}
	}
	return n
}

// Present returns the non-missing cells in row order.
func (c *CategoricalColumn) Present() []string {
	out := make([]string, 0, len(c.values))
	for i, v := range c.values {
		if !c.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Distinct counts unique non-missing values.
func (c *CategoricalColumn) Distinct() int {
	seen := make(map[string]struct{})
	for i, v := range c.values {
		if !c.missing[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// MeanLength is the mean character count over all rows; missing cells
// render as the empty string. 0 for an empty column.
func (c *CategoricalColumn) MeanLength() float64 {
	if len(c.values) == 0 {
		return 0
	}
	total := 0
	for i, v := range c.values {
		if !c.missing[i] {
			total += utf8.RuneCountInString(v)
		}
	}
	return float64(total) / float64(len(c.values))
}

// Summarize emits distinct count, mean length and missing-ratio, padded
// with zeros to Stride.
func (c *CategoricalColumn) Summarize() Summary {
	return Summary{
		float64(c.Distinct()),
		c.MeanLength(),
		stats.Ratio(float64(c.Missing()), float64(len(c.values))),
	}
}
