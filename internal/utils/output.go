package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Markdowner renders a human-readable Markdown summary.
type Markdowner interface {
	Markdown() string
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
// Missing parent directories are created.
func SafeWriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// EncodeYAML marshals a value as YAML with two-space indentation.
func EncodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode renders v as "json", "yaml" or "markdown". Markdown requires v to
// implement Markdowner.
func Encode(format string, v any) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return PrettyJSON(v)
	case "yaml", "yml":
		return EncodeYAML(v)
	case "markdown", "md":
		m, ok := v.(Markdowner)
		if !ok {
			return nil, fmt.Errorf("markdown output is not available for %T", v)
		}
		return []byte(m.Markdown()), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use json|yaml|markdown)", format)
	}
}

// Emit writes b to path when set, otherwise to w. A trailing newline is
// added for terminal output.
func Emit(w io.Writer, path string, b []byte) error {
	if path != "" {
		return SafeWriteFile(path, b)
	}
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}
