package commands

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/okra-platform/tomlrpc/internal/config"
	"github.com/okra-platform/tomlrpc/internal/naming"
)

//go:embed templates/*
var templatesFS embed.FS

const exampleSchemaTemplate = "templates/schema.toml"

// InitOptions are the answers collected by the init form
type InitOptions struct {
	Language   string
	SchemaName string
}

// FileSystem is the subset of file operations init needs
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// InitCommand scaffolds tomlrpc.yaml and an example schema
type InitCommand struct {
	dir         string
	filesystem  FileSystem
	templatesFS fs.FS
	output      func(format string, args ...any)
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

// NewInitCommand creates an init command for dir
func NewInitCommand(dir string) *InitCommand {
	return &InitCommand{
		dir:         dir,
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		output:      func(format string, args ...any) { fmt.Printf(format, args...) },
	}
}

// Init scaffolds a project in the working directory
func (c *Controller) Init(ctx context.Context) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	cmd := NewInitCommand(wd)
	cmd.output = func(format string, args ...any) { fmt.Fprintf(c.Output, format, args...) }
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	configPath := filepath.Join(ic.dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, ic.dir)
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}
	if err := ic.validateSchemaName(options.SchemaName); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Language = options.Language
	cfg.Schemas = []string{options.SchemaName + ".toml"}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := ic.filesystem.MkdirAll(ic.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := ic.filesystem.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	schema, err := fs.ReadFile(ic.templatesFS, exampleSchemaTemplate)
	if err != nil {
		return fmt.Errorf("failed to read example schema: %w", err)
	}
	schemaPath := filepath.Join(ic.dir, options.SchemaName+".toml")
	if err := ic.filesystem.WriteFile(schemaPath, schema, 0o644); err != nil {
		return fmt.Errorf("failed to write example schema: %w", err)
	}

	ic.output("Created %s and %s.toml for %s. Run tomlrpc generate next.\n",
		config.FileName, options.SchemaName, options.Language)
	return nil
}

func (ic *InitCommand) validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if !naming.IsIdentifier(name) {
		return fmt.Errorf("schema name %q must be letters, digits and underscores", name)
	}
	if _, err := ic.filesystem.Stat(filepath.Join(ic.dir, name+".toml")); err == nil {
		return fmt.Errorf("%s.toml already exists", name)
	}
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{Language: "rust", SchemaName: "api"}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target language").
				Description("Language of the generated code").
				Options(
					huh.NewOption("Rust", "rust"),
					huh.NewOption("Go", "go"),
					huh.NewOption("TypeScript", "typescript"),
					huh.NewOption("Protocol Buffers", "protobuf"),
					huh.NewOption("GraphQL", "graphql"),
				).
				Value(&options.Language),

			huh.NewInput().
				Title("Schema name").
				Description("File name for the example schema, without .toml").
				Value(&options.SchemaName).
				Validate(ic.validateSchemaName),
		),
	)
}
