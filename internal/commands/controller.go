// Package commands contains the CLI commands for the application
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okra-platform/tomlrpc/internal/compiler"
	"github.com/okra-platform/tomlrpc/internal/config"
	"github.com/rs/zerolog"
)

// Flags holds global and per-command flag values. Non-empty values
// override tomlrpc.yaml.
type Flags struct {
	LogLevel string
	Language string
	Package  string
	Out      string
	Strict   bool
}

// ConfigLoader finds the project configuration and its root directory
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
}

type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	cfg, root, err := config.LoadConfig()
	if errors.Is(err, config.ErrNotFound) {
		wd, werr := os.Getwd()
		if werr != nil {
			return nil, "", fmt.Errorf("failed to get current directory: %w", werr)
		}
		return config.Default(), wd, nil
	}
	return cfg, root, err
}

// Controller runs CLI commands
type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
	Output io.Writer

	configLoader ConfigLoader
}

// NewController creates a controller that prints to stdout and reads
// tomlrpc.yaml from the working directory tree
func NewController(flags *Flags, logger zerolog.Logger) *Controller {
	return &Controller{
		Flags:        flags,
		Logger:       logger,
		Output:       os.Stdout,
		configLoader: &defaultConfigLoader{},
	}
}

// project loads the configuration with flag overrides applied
func (c *Controller) project() (*config.Config, string, error) {
	cfg, root, err := c.configLoader.LoadConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load project config: %w", err)
	}

	if c.Flags != nil {
		if c.Flags.Language != "" {
			cfg.Language = c.Flags.Language
		}
		if c.Flags.Package != "" {
			cfg.Package = c.Flags.Package
		}
		if c.Flags.Out != "" {
			// flag paths are relative to the working directory, not the project root
			out, err := filepath.Abs(c.Flags.Out)
			if err != nil {
				return nil, "", fmt.Errorf("invalid output directory: %w", err)
			}
			cfg.Out = out
		}
		if c.Flags.Strict {
			cfg.StrictTypes = true
		}
	}

	c.Logger.Debug().
		Str("root", root).
		Str("language", cfg.Language).
		Str("out", cfg.Out).
		Msg("loaded project config")

	return cfg, root, nil
}

func (c *Controller) compiler(cfg *config.Config) (*compiler.Compiler, error) {
	types, err := cfg.TypeMap()
	if err != nil {
		return nil, err
	}
	return compiler.New(compiler.Options{
		Language: cfg.Language,
		Package:  cfg.Package,
		Types:    types,
	}, c.Logger)
}

// schemaFiles lists the configured schemas, failing when there are none
func schemaFiles(cfg *config.Config, root string) ([]string, error) {
	files, err := cfg.SchemaFiles(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files match %v in %s", cfg.Schemas, root)
	}
	return files, nil
}

// relPath shortens path for display
func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
