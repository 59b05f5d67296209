package commands

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/okra-platform/tomlrpc/internal/watch"
)

// Watch generates all schemas, then regenerates each schema as it changes
// until ctx is cancelled. Compile errors are reported and watching goes on.
func (c *Controller) Watch(ctx context.Context) error {
	cfg, root, err := c.project()
	if err != nil {
		return err
	}

	comp, err := c.compiler(cfg)
	if err != nil {
		return err
	}

	outDir := cfg.OutDir(root)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// debounced flushes may overlap when a rebuild is slow
	var mu sync.Mutex
	rebuild := func(paths []string) {
		mu.Lock()
		defer mu.Unlock()

		files, err := cfg.SchemaFiles(root)
		if err != nil {
			c.Logger.Error().Err(err).Msg("failed to list schemas")
			return
		}
		wanted := make(map[string]bool, len(files))
		for _, f := range files {
			wanted[f] = true
		}

		for _, path := range paths {
			if !wanted[path] {
				// removed, or outside the configured patterns
				continue
			}
			if err := c.generateOne(comp, root, path, outDir); err != nil {
				c.Logger.Error().Err(err).Str("schema", path).Msg("compile failed")
				fmt.Fprintf(c.Output, "error: %v\n", err)
			}
		}
	}

	initial, err := cfg.SchemaFiles(root)
	if err != nil {
		return err
	}
	rebuild(initial)

	return watch.Run(ctx, root, watch.Options{
		Patterns: cfg.Schemas,
		Exclude:  cfg.Watch.Exclude,
		Debounce: cfg.Watch.Debounce,
		OnChange: rebuild,
	}, c.Logger)
}
