// Package features turns a dataset into a fixed-length numeric vector.
//
// Two layouts exist. Full emits one 9-entry stride per column followed by
// five dataset aggregates, fitted to FullLength. Minimal emits the
// aggregates only (with an absolute missing count), fitted to
// MinimalLength.
//
// A dataset with zero rows makes every ratio 0/0; those entries are NaN
// unless Options.Strict is set, in which case extraction fails with a
// dataset.ShapeError.
package features

import (
	"github.com/KaramelBytes/vizrec-cli/internal/dataset"
	"github.com/KaramelBytes/vizrec-cli/internal/stats"
)

// StatusSuccess is the status of every returned Result.
const StatusSuccess = "success"

// Extractor converts a dataset into a fixed-length feature vector.
type Extractor interface {
	// Name identifies the layout ("full" or "minimal").
	Name() string
	// Length is the exact size of every produced vector.
	Length() int
	Extract(ds *dataset.Dataset) (*Result, error)
}

// Options controls extraction.
type Options struct {
	// Strict rejects datasets with no rows or no columns instead of
	// emitting NaN ratios.
	Strict bool
}

// Result is the extraction output.
type Result struct {
	Variant      string            `json:"variant" yaml:"variant"`
	Features     Vector            `json:"features" yaml:"features"`
	FeatureCount int               `json:"feature_count" yaml:"feature_count"`
	DataShape    [2]int            `json:"data_shape" yaml:"data_shape"`
	ColumnTypes  map[string]string `json:"column_types,omitempty" yaml:"column_types,omitempty"`
	ColumnInfo   *ColumnInfo       `json:"column_info,omitempty" yaml:"column_info,omitempty"`
	Status       string            `json:"status" yaml:"status"`

	source  string
	columns []string
	kinds   []dataset.Kind
	raw     int
}

// ColumnInfo lists columns in order with their inferred types.
type ColumnInfo struct {
	Columns []string          `json:"columns" yaml:"columns"`
	Dtypes  map[string]string `json:"dtypes" yaml:"dtypes"`
}

// RawLength is the number of features computed before fitting.
func (r *Result) RawLength() int { return r.raw }

// Truncated reports whether computed features were dropped by fitting.
func (r *Result) Truncated() bool { return r.raw > len(r.Features) }

// Full is the per-column extractor.
type Full struct{ Options }

// NewFull returns a Full extractor.
func NewFull(opt Options) *Full { return &Full{Options: opt} }

func (*Full) Name() string { return "full" }
func (*Full) Length() int  { return FullLength }

// Extract emits each column's Summarize stride in column order, then the
// aggregates rows, columns, numeric count, categorical count and overall
// missing ratio, fitted to FullLength.
func (f *Full) Extract(ds *dataset.Dataset) (*Result, error) {
	if err := f.check(ds); err != nil {
		return nil, err
	}
	cols := ds.Columns()
	raw := make([]float64, 0, len(cols)*dataset.Stride+5)
	for _, c := range cols {
		s := c.Summarize()
		raw = append(raw, s[:]...)
	}
	cells := float64(ds.Rows() * ds.NumColumns())
	raw = append(raw,
		float64(ds.Rows()),
		float64(ds.NumColumns()),
		float64(ds.CountKind(dataset.Numeric)),
		float64(ds.CountKind(dataset.Categorical)),
		stats.Ratio(float64(ds.MissingCells()), cells),
	)

	res := newResult(f.Name(), ds, raw, FullLength)
	res.ColumnTypes = typeLabels(ds)
	return res, nil
}

// Minimal is the whole-dataset extractor.
type Minimal struct{ Options }

// NewMinimal returns a Minimal extractor.
func NewMinimal(opt Options) *Minimal { return &Minimal{Options: opt} }

func (*Minimal) Name() string { return "minimal" }
func (*Minimal) Length() int  { return MinimalLength }

// Extract emits rows, columns, numeric count, categorical count and the
// total number of missing cells, zero-padded to MinimalLength.
func (m *Minimal) Extract(ds *dataset.Dataset) (*Result, error) {
	if err := m.check(ds); err != nil {
		return nil, err
	}
	raw := []float64{
		float64(ds.Rows()),
		float64(ds.NumColumns()),
		float64(ds.CountKind(dataset.Numeric)),
		float64(ds.CountKind(dataset.Categorical)),
		float64(ds.MissingCells()),
	}
	res := newResult(m.Name(), ds, raw, MinimalLength)
	res.ColumnInfo = &ColumnInfo{Columns: ds.Names(), Dtypes: typeLabels(ds)}
	return res, nil
}

func (o Options) check(ds *dataset.Dataset) error {
	if o.Strict {
		return dataset.CheckShape(ds)
	}
	return nil
}

func newResult(variant string, ds *dataset.Dataset, raw []float64, target int) *Result {
	vec := Fit(raw, target)
	cols := ds.Columns()
	kinds := make([]dataset.Kind, len(cols))
	for i, c := range cols {
		kinds[i] = c.Kind()
	}
	return &Result{
		Variant:      variant,
		Features:     vec,
		FeatureCount: len(vec),
		DataShape:    [2]int{ds.Rows(), ds.NumColumns()},
		Status:       StatusSuccess,
		source:       ds.Name(),
		columns:      ds.Names(),
		kinds:        kinds,
		raw:          len(raw),
	}
}

func typeLabels(ds *dataset.Dataset) map[string]string {
	out := make(map[string]string, ds.NumColumns())
	for name, k := range ds.Kinds() {
		out[name] = string(k)
	}
	return out
}

// New returns the extractor for a variant name: "minimal" or anything else
// for full.
func New(variant string, opt Options) Extractor {
	if variant == "minimal" {
		return NewMinimal(opt)
	}
	return NewFull(opt)
}
