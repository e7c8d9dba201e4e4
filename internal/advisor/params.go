package advisor

import (
	"github.com/KaramelBytes/vizrec-cli/internal/recommend"
)

// ChartParams binds dataset columns to the encodings of one chart. Unused
// encodings are empty.
type ChartParams struct {
	Chart   recommend.Chart `json:"chart" yaml:"chart"`
	X       string          `json:"x,omitempty" yaml:"x,omitempty"`
	Y       string          `json:"y,omitempty" yaml:"y,omitempty"`
	GroupBy string          `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	Label   string          `json:"label,omitempty" yaml:"label,omitempty"`
	Value   string          `json:"value,omitempty" yaml:"value,omitempty"`
}

// BindCharts picks columns for each chart from the profiled columns.
// Each encoding prefers a column of the matching role and falls back to
// a column by position.
func BindCharts(charts []recommend.Chart, cols []ColumnProfile) []ChartParams {
	var all, num, cat, tmp []string
	for _, c := range cols {
		all = append(all, c.Name)
		switch c.Role {
		case RoleNumeric:
			num = append(num, c.Name)
		case RoleCategorical:
			cat = append(cat, c.Name)
		case RoleTemporal:
			tmp = append(tmp, c.Name)
		}
	}

	out := make([]ChartParams, 0, len(charts))
	for _, ch := range charts {
		p := ChartParams{Chart: ch}
		switch ch {
		case recommend.Bar:
			p.X = pick(cat, 0, all, 0)
			p.Y = pick(num, 0, all, 1)
			p.GroupBy = nth(cat, 0)
		case recommend.GroupedBar:
			p.X = pick(cat, 0, all, 0)
			p.Y = pick(num, 0, all, 1)
			p.GroupBy = nth(cat, 1)
		case recommend.Line:
			p.X = pick(tmp, 0, all, 0)
			p.Y = pick(num, 0, all, 1)
		case recommend.Scatter:
			p.X = pick(num, 0, all, 0)
			p.Y = pick(num, 1, all, 1)
		case recommend.Pie, recommend.Donut:
			p.Label = pick(cat, 0, all, 0)
			p.Value = pick(num, 0, all, 1)
		case recommend.Histogram, recommend.Density:
			p.X = pick(num, 0, all, 0)
		default:
			p.X = nth(all, 0)
			p.Y = nth(all, 1)
		}
		out = append(out, p)
	}
	return out
}

func pick(pref []string, i int, all []string, j int) string {
	if s := nth(pref, i); s != "" {
		return s
	}
	return nth(all, j)
}

func nth(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
