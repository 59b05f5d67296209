package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/codegen/emit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFromPath(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "valid config with all fields",
			content: `language: go
package: myapi
out: ./internal/api
schemas:
  - schema/*.toml
strict_types: true
types:
  string: String
watch:
  exclude: [vendor/]
  debounce: 250ms
`,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "go", c.Language)
				assert.Equal(t, "myapi", c.Package)
				assert.Equal(t, "./internal/api", c.Out)
				assert.Equal(t, []string{"schema/*.toml"}, c.Schemas)
				assert.True(t, c.StrictTypes)
				assert.Equal(t, map[string]string{"string": "String"}, c.Types)
				assert.Equal(t, []string{"vendor/"}, c.Watch.Exclude)
				assert.Equal(t, 250*time.Millisecond, c.Watch.Debounce)
			},
		},
		{
			name:    "empty config file gets defaults",
			content: "",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, Default(), c)
				assert.Equal(t, "rust", c.Language)
				assert.Equal(t, "./gen", c.Out)
				assert.Equal(t, []string{"*.toml"}, c.Schemas)
				assert.False(t, c.StrictTypes)
				assert.Equal(t, 100*time.Millisecond, c.Watch.Debounce)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)

			got, err := LoadConfigFromPath(path)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestLoadConfigFromPath_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setupFunc   func(string) string
		errContains string
	}{
		{
			name: "file not found",
			setupFunc: func(tmpDir string) string {
				return filepath.Join(tmpDir, "nonexistent.yaml")
			},
			errContains: "failed to read config file",
		},
		{
			name: "invalid yaml",
			setupFunc: func(tmpDir string) string {
				return writeConfig(t, tmpDir, "language: [unclosed")
			},
			errContains: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromPath(tt.setupFunc(t.TempDir()))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("config in parent dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "subdir")
		require.NoError(t, os.MkdirAll(subDir, 0755))
		writeConfig(t, tmpDir, "language: typescript\n")

		chdir(t, subDir)

		got, projectRoot, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "typescript", got.Language)
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(projectRoot)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	t.Run("no config found", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, _, err := LoadConfig()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), "no tomlrpc.yaml found")
	})
}

func TestConfig_TypeMap(t *testing.T) {
	// Test: aliases and strictness flow into the type map
	c := Default()
	c.StrictTypes = true
	c.Types = map[string]string{"uint32": "u32", "text": "String"}

	types, err := c.TypeMap()
	require.NoError(t, err)
	assert.Equal(t, emit.PolicyReject, types.Policy)

	kind, ok := types.Lookup("uint32")
	require.True(t, ok)
	assert.Equal(t, decl.TypeU32, kind)

	c.Types = map[string]string{"blob": "Bytes"}
	_, err = c.TypeMap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid type alias "blob"`)
}

func TestConfig_SchemaFiles(t *testing.T) {
	// Test: patterns expand relative to the root, sorted and deduplicated
	root := t.TempDir()
	for _, name := range []string{"b.toml", "a.toml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0644))
	}

	c := Default()
	c.Schemas = []string{"*.toml", "a.toml"}

	files, err := c.SchemaFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.toml"), filepath.Join(root, "b.toml")}, files)

	assert.Equal(t, filepath.Join(root, "gen"), c.OutDir(root))
	c.Out = "/abs/out"
	assert.Equal(t, "/abs/out", c.OutDir(root))
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	// Test: a marshalled default config loads back unchanged
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := writeConfig(t, t.TempDir(), string(data))
	got, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
