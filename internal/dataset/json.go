package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ReadJSON decodes either an array of row records or an object. An object
// whose values include arrays is read column-wise (scalars are broadcast to
// the array length); an object of scalars is read as a single record.
// Record key order is kept by first appearance.
func ReadJSON(r io.Reader, name string, opt LoadOptions) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputParseError{Source: name, Err: fmt.Errorf("read json: %w", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &InputParseError{Source: name, Err: errors.New("empty input")}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &InputParseError{Source: name, Err: err}
	}
	var (
		names []string
		cells [][]any
		rows  int
	)
	switch tok {
	case json.Delim('['):
		names, cells, rows, err = readRecords(dec)
	case json.Delim('{'):
		names, cells, rows, err = readObject(dec)
	default:
		err = fmt.Errorf("expected an array of records or an object of columns, got %v", tok)
	}
	if err != nil {
		return nil, &InputParseError{Source: name, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &InputParseError{Source: name, Err: errors.New("unexpected data after top-level value")}
	}
	return FromCells(name, rows, names, cells, opt)
}

// recordTable accumulates records into columns in first-seen key order.
type recordTable struct {
	names []string
	index map[string]int
	cells [][]any
	rows  int
}

func (t *recordTable) add(keys []string, vals []any) {
	for i, k := range keys {
		j, ok := t.index[k]
		if !ok {
			j = len(t.names)
			t.index[k] = j
			t.names = append(t.names, k)
			t.cells = append(t.cells, make([]any, t.rows, t.rows+1))
		}
		col := t.cells[j]
		if len(col) == t.rows {
			col = append(col, vals[i])
		} else {
			// duplicate key in one record: last value wins
			col[t.rows] = vals[i]
		}
		t.cells[j] = col
	}
	t.rows++
	for j := range t.cells {
		if len(t.cells[j]) < t.rows {
			t.cells[j] = append(t.cells[j], nil)
		}
	}
}

func readRecords(dec *json.Decoder) ([]string, [][]any, int, error) {
	t := &recordTable{index: map[string]int{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, 0, err
		}
		if tok != json.Delim('{') {
			return nil, nil, 0, fmt.Errorf("row %d: expected an object, got %v", t.rows+1, tok)
		}
		keys, vals, err := readMembers(dec)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("row %d: %w", t.rows+1, err)
		}
		t.add(keys, vals)
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return nil, nil, 0, err
	}
	return t.names, t.cells, t.rows, nil
}

// readMembers reads key/value pairs up to and including the closing brace.
func readMembers(dec *json.Decoder) ([]string, []any, error) {
	var keys []string
	var vals []any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value for %q: %w", key, err)
		}
		keys = append(keys, key)
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, nil, err
	}
	return keys, vals, nil
}

func readObject(dec *json.Decoder) ([]string, [][]any, int, error) {
	keys, vals, err := readMembers(dec)
	if err != nil {
		return nil, nil, 0, err
	}
	rows := -1
	for i, v := range vals {
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		if rows >= 0 && len(arr) != rows {
			return nil, nil, 0, fmt.Errorf("column %q has %d values, want %d", keys[i], len(arr), rows)
		}
		rows = len(arr)
	}
	if rows < 0 {
		// no arrays: a single record
		t := &recordTable{index: map[string]int{}}
		t.add(keys, vals)
		return t.names, t.cells, t.rows, nil
	}
	index := map[string]int{}
	var names []string
	var cells [][]any
	for i, k := range keys {
		col, ok := vals[i].([]any)
		if !ok {
			col = make([]any, rows)
			for r := range col {
				col[r] = vals[i]
			}
		}
		if j, dup := index[k]; dup {
			cells[j] = col
			continue
		}
		index[k] = len(names)
		names = append(names, k)
		cells = append(cells, col)
	}
	return names, cells, rows, nil
}
