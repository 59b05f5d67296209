package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okra-platform/tomlrpc/internal/codegen"
	"github.com/okra-platform/tomlrpc/internal/codegen/emit"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by LoadConfig
const FileName = "tomlrpc.yaml"

// ErrNotFound is returned when no configuration file exists in the
// directory tree
var ErrNotFound = errors.New("config not found")

// Config represents the tomlrpc.yaml configuration file
type Config struct {
	Language    string            `yaml:"language"`
	Package     string            `yaml:"package,omitempty"`
	Out         string            `yaml:"out"`
	Schemas     []string          `yaml:"schemas"`
	StrictTypes bool              `yaml:"strict_types,omitempty"`
	Types       map[string]string `yaml:"types,omitempty"`
	Watch       WatchConfig       `yaml:"watch,omitempty"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Exclude  []string      `yaml:"exclude,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Default returns the configuration used when no tomlrpc.yaml exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads tomlrpc.yaml from the current directory or a parent
// directory. It returns the config and the directory it was found in.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = codegen.DefaultLanguage
	}
	if c.Out == "" {
		c.Out = "./gen"
	}
	if len(c.Schemas) == 0 {
		c.Schemas = []string{"*.toml"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{".git/", "gen/"}
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 100 * time.Millisecond
	}
}

// TypeMap builds the field type mapping described by the config: the
// built-in types plus aliases, with the strictness policy applied
func (c *Config) TypeMap() (*emit.TypeMap, error) {
	types := emit.DefaultTypeMap()
	if c.StrictTypes {
		types.Policy = emit.PolicyReject
	}

	aliases := make([]string, 0, len(c.Types))
	for alias := range c.Types {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		if err := types.Alias(alias, c.Types[alias]); err != nil {
			return nil, fmt.Errorf("invalid type alias %q: %w", alias, err)
		}
	}
	return types, nil
}

// SchemaFiles expands the schema patterns relative to root. The result is
// sorted and free of duplicates.
func (c *Config) SchemaFiles(root string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.Schemas {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutDir resolves the output directory relative to root
func (c *Config) OutDir(root string) string {
	if filepath.IsAbs(c.Out) {
		return c.Out
	}
	return filepath.Join(root, c.Out)
}

// Marshal encodes the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// loadConfigFromDir searches for tomlrpc.yaml in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no %s found in %s or any parent directory: %w", FileName, startDir, ErrNotFound)
}
