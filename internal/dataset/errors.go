package dataset

import (
	"errors"
	"fmt"
)

// ErrDegenerate matches any ShapeError via errors.Is.
var ErrDegenerate = errors.New("degenerate dataset")

// InputParseError indicates raw input that cannot be read as tabular data.
type InputParseError struct {
	Source string
	Err    error
}

func (e *InputParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("parse input: %v", e.Err)
}

func (e *InputParseError) Unwrap() error { return e.Err }

// ShapeError indicates a dataset with zero rows and/or zero columns where
// ratio statistics are undefined.
type ShapeError struct {
	Rows    int
	Columns int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("degenerate dataset: %d rows x %d columns", e.Rows, e.Columns)
}

func (e *ShapeError) Is(target error) bool { return target == ErrDegenerate }

// CheckShape returns a ShapeError when d has no rows or no columns.
func CheckShape(d *Dataset) error {
	if d.Empty() {
		return &ShapeError{Rows: d.Rows(), Columns: d.NumColumns()}
	}
	return nil
}
