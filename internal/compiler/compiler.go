// Package compiler runs the full pipeline: load the schema, build the IR,
// emit declarations and render them with a language backend.
package compiler

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okra-platform/tomlrpc/internal/codegen"
	"github.com/okra-platform/tomlrpc/internal/codegen/emit"
	"github.com/okra-platform/tomlrpc/internal/schema"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
)

// Options select the backend and the field type mapping
type Options struct {
	// Language is a registry key such as "rust" or "ts". Empty means rust.
	Language string
	// Package is passed to backends that namespace their output
	Package string
	// Types maps schema field types. Nil means emit.DefaultTypeMap.
	Types *emit.TypeMap
	// Registry resolves Language. Nil means codegen.DefaultRegistry.
	Registry *codegen.Registry
}

func (o Options) generator() (codegen.Generator, error) {
	registry := o.Registry
	if registry == nil {
		registry = codegen.DefaultRegistry
	}
	language := o.Language
	if language == "" {
		language = codegen.DefaultLanguage
	}
	return registry.Get(language, o.Package)
}

// Compile turns schema text into rendered source. It touches no files.
func Compile(src []byte, opts Options) ([]byte, error) {
	gen, err := opts.generator()
	if err != nil {
		return nil, err
	}
	return compile(src, opts.Types, gen, zerolog.Nop())
}

func compile(src []byte, types *emit.TypeMap, gen codegen.Generator, logger zerolog.Logger) ([]byte, error) {
	doc, err := schema.Parse(src)
	if err != nil {
		return nil, err
	}
	for _, section := range doc.Ignored {
		logger.Debug().Str("section", section).Msg("ignoring unknown top-level section")
	}

	s, err := schema.Build(doc)
	if err != nil {
		return nil, err
	}

	file, err := emit.New(types).Emit(s)
	if err != nil {
		return nil, err
	}

	out, err := gen.Generate(file)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", gen.Language(), err)
	}
	return out, nil
}

// Compiler compiles schema files with a fixed backend
type Compiler struct {
	opts   Options
	gen    codegen.Generator
	logger zerolog.Logger
}

// New creates a Compiler, resolving the backend up front
func New(opts Options, logger zerolog.Logger) (*Compiler, error) {
	gen, err := opts.generator()
	if err != nil {
		return nil, err
	}
	return &Compiler{opts: opts, gen: gen, logger: logger}, nil
}

// CompileFile reads and compiles one schema file
func (c *Compiler) CompileFile(schemaPath string) ([]byte, error) {
	src, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, schema.NewIOError(schemaPath, err)
	}

	c.logger.Debug().
		Str("schema", schemaPath).
		Int("size", len(src)).
		Msg("read schema file")

	return compile(src, c.opts.Types, c.gen, c.logger.With().Str("schema", schemaPath).Logger())
}

// CompileToWriter compiles the schema and hands the result to w in a single
// Write. Nothing is written when compilation fails.
func (c *Compiler) CompileToWriter(schemaPath string, w io.Writer) error {
	out, err := c.CompileFile(schemaPath)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return schema.NewIOError("output", err)
	}
	return nil
}

// ArtifactPath derives the output file for schemaPath: the schema's stem
// with the backend extension, inside outDir
func (c *Compiler) ArtifactPath(schemaPath, outDir string) (string, error) {
	base := filepath.Base(schemaPath)
	if schemaPath == "" || strings.HasSuffix(schemaPath, string(filepath.Separator)) ||
		base == "." || base == ".." || base == string(filepath.Separator) {
		return "", schema.NewOutputPathError(schemaPath, "schema path has no file name")
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "", schema.NewOutputPathError(schemaPath, "schema file name has no stem")
	}

	dir, err := filepath.Abs(outDir)
	if err != nil {
		return "", schema.NewOutputPathError(outDir, "cannot resolve output directory: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", schema.NewOutputPathError(outDir, "cannot resolve output directory: %v", err)
	}
	if !info.IsDir() {
		return "", schema.NewOutputPathError(outDir, "output path is not a directory")
	}

	return filepath.Join(dir, stem+c.gen.FileExtension()), nil
}

// CompileToDir compiles the schema into outDir and returns the artifact path.
// The artifact is written to a temporary file and renamed into place, so a
// failure never leaves a partial file behind.
func (c *Compiler) CompileToDir(schemaPath, outDir string) (string, error) {
	target, err := c.ArtifactPath(schemaPath, outDir)
	if err != nil {
		return "", err
	}

	out, err := c.CompileFile(schemaPath)
	if err != nil {
		return "", err
	}

	if err := writeAtomic(target, out); err != nil {
		return "", err
	}

	c.logger.Debug().
		Str("schema", schemaPath).
		Str("artifact", target).
		Str("language", c.gen.Language()).
		Msg("wrote artifact")

	return target, nil
}

// Check compiles the schema in memory and compares it with the artifact in
// outDir. It returns a unified diff when the artifact is stale or missing,
// and an empty string when it is up to date.
func (c *Compiler) Check(schemaPath, outDir string) (string, error) {
	target, err := c.ArtifactPath(schemaPath, outDir)
	if err != nil {
		return "", err
	}

	want, err := c.CompileFile(schemaPath)
	if err != nil {
		return "", err
	}

	have, err := os.ReadFile(target)
	if err != nil && !os.IsNotExist(err) {
		return "", schema.NewIOError(target, err)
	}
	if bytes.Equal(have, want) && err == nil {
		return "", nil
	}

	diff, derr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: target,
		ToFile:   "generated from " + schemaPath,
		Context:  3,
	})
	if derr != nil {
		return "", fmt.Errorf("failed to diff %s: %w", target, derr)
	}
	if diff == "" {
		// Missing artifact and empty output still differ
		diff = fmt.Sprintf("--- %s\n+++ generated from %s\n(artifact missing)\n", target, schemaPath)
	}
	return diff, nil
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return schema.NewIOError(target, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return schema.NewIOError(target, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return schema.NewIOError(target, err)
	}
	if err := tmp.Close(); err != nil {
		return schema.NewIOError(target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return schema.NewIOError(target, err)
	}
	return nil
}
