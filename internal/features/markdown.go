package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/vizrec-cli/internal/dataset"
)

// Markdown renders a human-readable summary of the extraction.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[FEATURE SUMMARY]\n")
	if r.source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.source))
	}
	b.WriteString(fmt.Sprintf("Variant: %s (%d features)\n", r.Variant, r.FeatureCount))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.DataShape[0]))
	numeric, categorical := 0, 0
	for _, k := range r.kinds {
		if k == dataset.Numeric {
			numeric++
		} else {
			categorical++
		}
	}
	b.WriteString(fmt.Sprintf("Columns: %d (numeric %d, categorical %d)\n\n", r.DataShape[1], numeric, categorical))

	if r.Variant == "full" && len(r.columns) > 0 {
		b.WriteString("[COLUMNS]\n")
		for i, name := range r.columns {
			off := i * dataset.Stride
			if off+dataset.Stride > len(r.Features) {
				b.WriteString(fmt.Sprintf("- ... %d more column(s) beyond the vector\n", len(r.columns)-i))
				break
			}
			s := r.Features[off : off+dataset.Stride]
			if r.kinds[i] == dataset.Numeric {
				b.WriteString(fmt.Sprintf("- %s (numeric): mean %s, std %s, min %s, max %s, median %s, skew %s, kurtosis %s; unique %s, missing %s\n",
					name, num(s[0]), num(s[1]), num(s[2]), num(s[3]), num(s[4]), num(s[5]), num(s[6]), pct(s[7]), pct(s[8])))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s (categorical): distinct %s, mean length %s; missing %s\n",
				name, num(s[0]), num(s[1]), pct(s[2])))
		}
		b.WriteString("\n")
	}
	if r.Variant == "minimal" && r.FeatureCount >= 5 {
		b.WriteString("[AGGREGATES]\n")
		b.WriteString(fmt.Sprintf("Missing cells: %s\n\n", num(r.Features[4])))
	}

	var notes []string
	if r.Truncated() {
		notes = append(notes, fmt.Sprintf("%d computed features dropped to fit %d", r.raw-r.FeatureCount, r.FeatureCount))
	}
	if r.Features.HasNaN() {
		notes = append(notes, "some features are undefined (NaN) for this dataset shape")
	}
	if len(notes) > 0 {
		b.WriteString("[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- " + n + "\n")
		}
	}
	return b.String()
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", f)
}

func pct(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", f*100)
}
