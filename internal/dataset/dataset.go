// Package dataset models read-only tabular input: named, equal-length
// columns whose type is inferred once at ingestion.
package dataset

import "fmt"

// Kind is the inferred type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// Stride is the number of summary entries every column contributes.
const Stride = 9

// Summary is the fixed-width statistical digest of one column.
type Summary [Stride]float64

// Column is a typed, immutable column. Implementations are NumericColumn
// and CategoricalColumn.
type Column interface {
	Name() string
	Kind() Kind
	// Len is the number of cells including missing ones.
	Len() int
	// Missing counts absent cells.
	Missing() int
	// Summarize returns the column digest; ratios are taken over Len.
	Summarize() Summary
}

// Dataset is an ordered set of uniquely named columns sharing one row count.
type Dataset struct {
	name  string
	rows  int
	cols  []Column
	index map[string]int
}

// New validates and assembles a dataset. rows is explicit so that a dataset
// may have rows but no columns (e.g. a list of empty records).
func New(name string, rows int, cols ...Column) (*Dataset, error) {
	if rows < 0 {
		return nil, &InputParseError{Source: name, Err: fmt.Errorf("negative row count %d", rows)}
	}
	d := &Dataset{name: name, rows: rows, cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if c == nil {
			return nil, &InputParseError{Source: name, Err: fmt.Errorf("nil column at position %d", len(d.cols))}
		}
		if c.Len() != rows {
			return nil, &InputParseError{Source: name, Err: fmt.Errorf("column %q has %d values, want %d", c.Name(), c.Len(), rows)}
		}
		if _, dup := d.index[c.Name()]; dup {
			return nil, &InputParseError{Source: name, Err: fmt.Errorf("duplicate column name %q", c.Name())}
		}
		d.index[c.Name()] = len(d.cols)
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// Name is the source label (usually a file base name).
func (d *Dataset) Name() string { return d.name }

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.rows }

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.cols) }

// Columns returns the columns in order. The slice is a copy.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Column looks a column up by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name()
	}
	return out
}

// CountKind counts columns of the given kind.
func (d *Dataset) CountKind(k Kind) int {
	n := 0
	for _, c := range d.cols {
		if c.Kind() == k {
			n++
		}
	}
	return n
}

// MissingCells totals absent cells across all columns.
func (d *Dataset) MissingCells() int {
	n := 0
	for _, c := range d.cols {
		n += c.Missing()
	}
	return n
}

// Kinds maps column name to inferred kind.
func (d *Dataset) Kinds() map[string]Kind {
	out := make(map[string]Kind, len(d.cols))
	for _, c := range d.cols {
		out[c.Name()] = c.Kind()
	}
	return out
}

// Empty reports whether the dataset has no rows or no columns.
func (d *Dataset) Empty() bool { return d.rows == 0 || len(d.cols) == 0 }
