package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, FormatJSON, c.OutputFormat)
	assert.Equal(t, NaNPropagate, c.NaNPolicy)
	assert.False(t, c.Strict())
	assert.Equal(t, 5, c.MaxCharts)
	assert.Equal(t, 100, c.LargeDatasetRows)
	assert.Equal(t, 4, c.BatchWorkers)
	assert.Zero(t, c.MaxRows)
}

func TestSaveAndLoadDefaultPath(t *testing.T) {
	home := isolateHome(t)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("nan_policy", "ERROR"))
	require.NoError(t, c.Set("max_charts", "3"))
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".vizrec", "config.yaml"))
	require.NoError(t, err)

	back, err := Load("")
	require.NoError(t, err)
	assert.True(t, back.Strict())
	assert.Equal(t, 3, back.MaxCharts)
}

func TestLoadExplicitFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "vizrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_format: markdown\ndelimiter: tab\nlarge_dataset_rows: 1000\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, c.OutputFormat)
	assert.Equal(t, "tab", c.Delimiter)
	assert.Equal(t, 1000, c.LargeDatasetRows)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "vizrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch_workers: 2\n"), 0o644))
	t.Setenv("VIZREC_BATCH_WORKERS", "8")
	t.Setenv("VIZREC_LOG_LEVEL", "debug")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.BatchWorkers)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "vizrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch_workers: 2\n"), 0o644))
	t.Setenv("VIZREC_BATCH_WORKERS", "8")
	t.Setenv("VIZREC_MAX_CHARTS", "9")

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.BatchWorkers)
	assert.Equal(t, 5, c.MaxCharts)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "vizrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nan_policy: ignore\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid nan_policy")

	require.NoError(t, os.WriteFile(path, []byte("max_charts: [1\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "read config")
}

func TestSet(t *testing.T) {
	isolateHome(t)
	c, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		key, val string
		wantErr  string
	}{
		{"log_level", "WARN", ""},
		{"output_format", "yaml", ""},
		{"delimiter", ";", ""},
		{"max_rows", "500", ""},
		{"large_dataset_rows", "50", ""},
		{"log_level", "loud", "invalid log_level"},
		{"output_format", "xml", "invalid output_format"},
		{"delimiter", "#", "unsupported delimiter"},
		{"max_charts", "0", "invalid max_charts"},
		{"batch_workers", "many", "invalid int"},
		{"api_key", "x", "unknown key"},
	}
	for _, tt := range tests {
		err := c.Set(tt.key, tt.val)
		if tt.wantErr == "" {
			assert.NoError(t, err, tt.key)
			continue
		}
		assert.ErrorContains(t, err, tt.wantErr, tt.key)
	}
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, FormatYAML, c.OutputFormat)
	assert.Equal(t, ";", c.Delimiter)
	assert.Equal(t, 500, c.MaxRows)
	assert.Equal(t, 50, c.LargeDatasetRows)
	assert.Equal(t, 5, c.MaxCharts, "rejected values leave the config unchanged")
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', ";": ';', "|": '|', "tab": '\t', "\t": '\t'} {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDelimiter("::")
	assert.Error(t, err)
}
