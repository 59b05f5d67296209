package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/okra-platform/tomlrpc/internal/compiler"
)

// Compile compiles a single schema file into the output directory, or to
// the controller output when toStdout is set
func (c *Controller) Compile(ctx context.Context, schemaPath string, toStdout bool) error {
	cfg, root, err := c.project()
	if err != nil {
		return err
	}

	comp, err := c.compiler(cfg)
	if err != nil {
		return err
	}

	if toStdout {
		return comp.CompileToWriter(schemaPath, c.Output)
	}

	outDir := cfg.OutDir(root)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path, err := comp.CompileToDir(schemaPath, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Output, "wrote %s\n", path)
	return nil
}

// Generate compiles every schema listed in tomlrpc.yaml. It stops at the
// first schema that fails.
func (c *Controller) Generate(ctx context.Context) error {
	cfg, root, err := c.project()
	if err != nil {
		return err
	}

	comp, err := c.compiler(cfg)
	if err != nil {
		return err
	}

	files, err := schemaFiles(cfg, root)
	if err != nil {
		return err
	}

	outDir := cfg.OutDir(root)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.generateOne(comp, root, file, outDir); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) generateOne(comp *compiler.Compiler, root, file, outDir string) error {
	path, err := comp.CompileToDir(file, outDir)
	if err != nil {
		return fmt.Errorf("%s: %w", relPath(root, file), err)
	}
	fmt.Fprintf(c.Output, "%s -> %s\n", relPath(root, file), relPath(root, path))
	return nil
}
