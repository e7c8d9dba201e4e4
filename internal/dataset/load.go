package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads one file format into a Dataset.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt LoadOptions) (*Dataset, error)
}

var registry []Loader

// Register adds a loader; later registrations do not shadow earlier ones.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load picks a loader by file extension.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, &InputParseError{Source: filepath.Base(path), Err: fmt.Errorf("unsupported file type %q (use .json, .csv, .tsv or .xlsx)", filepath.Ext(path))}
}

func hasExt(path string, exts ...string) bool {
	lower := strings.ToLower(path)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputParseError{Source: filepath.Base(path), Err: fmt.Errorf("read file: %w", err)}
	}
	return b, nil
}

type jsonLoader struct{}

func (jsonLoader) CanLoad(path string) bool { return hasExt(path, ".json") }

func (jsonLoader) Load(path string, opt LoadOptions) (*Dataset, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ReadJSON(bytes.NewReader(b), filepath.Base(path), opt)
}

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool { return hasExt(path, ".csv", ".tsv") }

func (csvLoader) Load(path string, opt LoadOptions) (*Dataset, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ReadCSV(bytes.NewReader(b), filepath.Base(path), opt)
}

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool { return hasExt(path, ".xlsx") }

func (xlsxLoader) Load(path string, opt LoadOptions) (*Dataset, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ReadXLSX(bytes.NewReader(b), int64(len(b)), filepath.Base(path), opt)
}

func init() {
	Register(jsonLoader{})
	Register(csvLoader{})
	Register(xlsxLoader{})
}
