package watch

import (
	"context"
	"errors"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Options configure Run
type Options struct {
	// Patterns select the files that trigger a rebuild
	Patterns []string
	// Exclude skips matching files and directories
	Exclude []string
	// Debounce is the quiet period before a rebuild
	Debounce time.Duration
	// OnChange receives the sorted set of changed paths
	OnChange func(paths []string)
}

// Run watches root until ctx is cancelled. A cancelled context is not an error.
func Run(ctx context.Context, root string, opts Options, logger zerolog.Logger) error {
	debounce := NewDebouncer(opts.Debounce, opts.OnChange)
	defer debounce.Stop()

	fw, err := NewFileWatcher(opts.Patterns, opts.Exclude, func(path string, op fsnotify.Op) {
		logger.Debug().Str("path", path).Str("op", op.String()).Msg("file changed")
		debounce.Add(path)
	}, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.AddDirectory(root); err != nil {
		return err
	}

	logger.Info().Str("root", root).Strs("patterns", opts.Patterns).Msg("watching for schema changes")

	err = fw.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
