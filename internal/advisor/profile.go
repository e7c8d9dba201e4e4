package advisor

import (
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/vizrec-cli/internal/dataset"
	"github.com/KaramelBytes/vizrec-cli/internal/stats"
)

// Role is how a column can be bound to a chart axis.
type Role string

const (
	RoleNumeric     Role = "numeric"
	RoleCategorical Role = "categorical"
	RoleTemporal    Role = "temporal"
)

// maxCategories caps ColumnProfile.Categories.
const maxCategories = 10

// ColumnProfile describes one column for chart binding.
type ColumnProfile struct {
	Name   string `json:"name" yaml:"name"`
	Role   Role   `json:"role" yaml:"role"`
	Count  int    `json:"count" yaml:"count"`
	Unique int    `json:"unique" yaml:"unique"`
	// Min, Max and Mean are set for numeric columns with a present cell.
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Mean *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	// Categories holds the first distinct values in row order, for
	// categorical columns only.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// dateLayouts are tried in order when deciding whether a text column is
// temporal.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// ProfileColumns profiles every column of ds in order. A text column is
// temporal when its first present cell parses as a date.
func ProfileColumns(ds *dataset.Dataset) []ColumnProfile {
	cols := ds.Columns()
	out := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		out = append(out, profileColumn(c))
	}
	return out
}

func profileColumn(c dataset.Column) ColumnProfile {
	p := ColumnProfile{Name: c.Name(), Count: c.Len() - c.Missing()}
	switch col := c.(type) {
	case *dataset.NumericColumn:
		p.Role = RoleNumeric
		x := make([]float64, 0, col.Len())
		for _, v := range col.Values() {
			if !math.IsNaN(v) {
				x = append(x, v)
			}
		}
		p.Unique = stats.Distinct(x)
		if len(x) > 0 {
			lo, hi, mean := stats.Min(x), stats.Max(x), stats.Mean(x)
			p.Min, p.Max, p.Mean = &lo, &hi, &mean
		}
	case *dataset.CategoricalColumn:
		vals := col.Present()
		p.Unique = col.Distinct()
		if len(vals) > 0 && isDate(vals[0]) {
			p.Role = RoleTemporal
			break
		}
		p.Role = RoleCategorical
		p.Categories = firstDistinct(vals, maxCategories)
	default:
		p.Role = RoleCategorical
	}
	return p
}

func firstDistinct(vals []string, n int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range vals {
		if len(out) == n {
			break
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
