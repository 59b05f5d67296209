package commands

import (
	"context"
	"fmt"
)

// Check compares every configured schema with its artifact and prints a
// diff for each stale one. It fails when any artifact is out of date.
func (c *Controller) Check(ctx context.Context) error {
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
	stale := 0
	for _, file := range files {
		diff, err := comp.Check(file, outDir)
		if err != nil {
			return fmt.Errorf("%s: %w", relPath(root, file), err)
		}
		if diff == "" {
			c.Logger.Debug().Str("schema", file).Msg("artifact up to date")
			continue
		}
		stale++
		fmt.Fprint(c.Output, diff)
	}

	if stale > 0 {
		return fmt.Errorf("%d of %d artifacts are stale, run tomlrpc generate", stale, len(files))
	}
	fmt.Fprintf(c.Output, "%d artifacts up to date\n", len(files))
	return nil
}
