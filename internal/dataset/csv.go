package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ReadCSV loads delimited text with a header row. gota does the parsing with
// its own type detection disabled, so every column goes through the same
// inference as JSON input.
func ReadCSV(r io.Reader, name string, opt LoadOptions) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputParseError{Source: name, Err: fmt.Errorf("read csv: %w", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(name, 0)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	// gota rejects a header without rows; keep the columns with zero rows.
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, &InputParseError{Source: name, Err: fmt.Errorf("read header: %w", err)}
	}
	// gota would rename repeats to a_0, a_1; reject them as New does.
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			return nil, &InputParseError{Source: name, Err: fmt.Errorf("duplicate column name %q", h)}
		}
		seen[h] = struct{}{}
	}
	if _, err := cr.Read(); errors.Is(err, io.EOF) {
		return FromCells(name, 0, header, make([][]any, len(header)), opt)
	}
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
		dataframe.NaNValues(naTokens),
	)
	if df.Err != nil {
		return nil, &InputParseError{Source: name, Err: df.Err}
	}
	return fromDataFrame(name, df, opt)
}

// fromDataFrame converts a gota frame to raw cells; NA elements become nil.
func fromDataFrame(name string, df dataframe.DataFrame, opt LoadOptions) (*Dataset, error) {
	names := df.Names()
	cells := make([][]any, len(names))
	for j, n := range names {
		s := df.Col(n)
		col := make([]any, s.Len())
		for i := range col {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			col[i] = e.String()
		}
		cells[j] = col
	}
	return FromCells(name, df.Nrow(), names, cells, opt)
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
