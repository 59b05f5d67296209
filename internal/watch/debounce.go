package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces bursts of change notifications. Once no new path has
// arrived for the configured delay, fire runs once with every pending path.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]struct{}
	timer   *time.Timer
	fire    func(paths []string)
}

// NewDebouncer creates a debouncer that calls fire after delay of quiet
func NewDebouncer(delay time.Duration, fire func(paths []string)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]struct{}),
		fire:    fire,
	}
}

// Add records a changed path and restarts the quiet period
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Stop cancels a pending flush
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]struct{})
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.timer = nil
	d.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	d.fire(paths)
}
