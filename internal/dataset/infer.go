package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LoadOptions controls ingestion.
type LoadOptions struct {
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet; SheetIndex (1-based) is used when empty.
	SheetName  string
	SheetIndex int
}

// DefaultLoadOptions returns unlimited rows and the first sheet.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{SheetIndex: 1}
}

// FromCells infers a type per column and builds the dataset. cells[j] holds
// the raw values of column j; nil is a missing cell. Accepted cell types are
// the ones produced by the loaders: nil, string, json.Number, float64,
// float32, the integer kinds, bool, and decoded JSON objects/arrays.
func FromCells(name string, rows int, names []string, cells [][]any, opt LoadOptions) (*Dataset, error) {
	if len(names) != len(cells) {
		return nil, &InputParseError{Source: name, Err: fmt.Errorf("%d column names for %d columns", len(names), len(cells))}
	}
	if opt.MaxRows > 0 && rows > opt.MaxRows {
		rows = opt.MaxRows
		for j := range cells {
			if len(cells[j]) > rows {
				cells[j] = cells[j][:rows]
			}
		}
	}
	cols := make([]Column, len(cells))
	for j, raw := range cells {
		if len(raw) != rows {
			return nil, &InputParseError{Source: name, Err: fmt.Errorf("column %q has %d values, want %d", names[j], len(raw), rows)}
		}
		cols[j] = inferColumn(names[j], raw)
	}
	return New(name, rows, cols...)
}

type cell struct {
	missing bool
	numeric bool
	num     float64
	text    string
}

// inferColumn yields a NumericColumn when every non-missing cell parses as a
// number and at least one is present; otherwise a CategoricalColumn.
func inferColumn(name string, raw []any) Column {
	parsed := make([]cell, len(raw))
	numeric, present := true, 0
	for i, v := range raw {
		c := classify(v)
		parsed[i] = c
		if c.missing {
			continue
		}
		present++
		if !c.numeric {
			numeric = false
		}
	}
	if numeric && present > 0 {
		vals := make([]float64, len(parsed))
		for i, c := range parsed {
			if c.missing {
				vals[i] = math.NaN()
			} else {
				vals[i] = c.num
			}
		}
		return &NumericColumn{name: name, values: vals}
	}
	vals := make([]string, len(parsed))
	miss := make([]bool, len(parsed))
	for i, c := range parsed {
		vals[i] = c.text
		miss[i] = c.missing
	}
	return &CategoricalColumn{name: name, values: vals, missing: miss}
}

func classify(v any) cell {
	switch x := v.(type) {
	case nil:
		return cell{missing: true}
	case float64:
		return floatCell(x, strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return floatCell(float64(x), strconv.FormatFloat(float64(x), 'f', -1, 32))
	case int:
		return cell{numeric: true, num: float64(x), text: strconv.Itoa(x)}
	case int64:
		return cell{numeric: true, num: float64(x), text: strconv.FormatInt(x, 10)}
	case int32:
		return cell{numeric: true, num: float64(x), text: strconv.FormatInt(int64(x), 10)}
	case json.Number:
		return parseText(x.String())
	case string:
		return parseText(x)
	case bool:
		return cell{text: strconv.FormatBool(x)}
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return cell{text: fmt.Sprint(x)}
		}
		return cell{text: string(b)}
	default:
		return cell{text: fmt.Sprint(x)}
	}
}

func floatCell(f float64, text string) cell {
	if math.IsNaN(f) {
		return cell{missing: true}
	}
	return cell{numeric: true, num: f, text: text}
}

// naTokens are read as missing cells in every format, compared without
// regard to case.
var naTokens = []string{"NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<nil>", "#N/A"}

func isNAToken(s string) bool {
	for _, tok := range naTokens {
		if strings.EqualFold(s, tok) {
			return true
		}
	}
	return false
}

// parseText treats blank strings and NA tokens as missing, and finite
// floats strconv accepts as numeric. "inf" and "Infinity" stay text.
func parseText(s string) cell {
	t := strings.TrimSpace(s)
	if t == "" || isNAToken(t) {
		return cell{missing: true}
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) {
		return cell{text: s}
	}
	return floatCell(f, s)
}
