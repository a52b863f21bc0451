// Package watch re-runs cleanup when RDF files under a directory change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/groupsheets/fileset"
	"github.com/c360studio/groupsheets/rdfio"
)

const defaultDebounce = 500 * time.Millisecond

// Config configures file watching.
type Config struct {
	// Debounce is how long to collect changes before emitting a batch.
	Debounce string `yaml:"debounce"`

	// Extensions lists the file extensions that trigger a run.
	Extensions []string `yaml:"extensions"`

	// ExcludeDirs lists directory names that are not watched.
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// DefaultConfig returns the default watch configuration.
func DefaultConfig() Config {
	opts := fileset.DefaultOptions()
	return Config{
		Debounce:    defaultDebounce.String(),
		Extensions:  rdfio.Extensions(),
		ExcludeDirs: opts.ExcludeDirs,
	}
}

// Validate checks the debounce duration.
func (c Config) Validate() error {
	if c.Debounce == "" {
		return nil
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	return nil
}

// GetDebounce returns the debounce delay, falling back to the default when
// unset or invalid.
func (c Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

// FileOptions returns the file selection the watcher applies.
func (c Config) FileOptions() fileset.Options {
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, strings.ToLower(ext))
	}
	return fileset.Options{Extensions: exts, ExcludeDirs: c.ExcludeDirs}
}

// Watcher emits debounced batches of changed RDF files below a root
// directory. Only Remember records content hashes; a file whose content
// matches its remembered hash is not reported.
type Watcher struct {
	root     string
	debounce time.Duration
	opts     fileset.Options
	excludes map[string]bool
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	batches chan []string
}

// New creates a watcher for root.
func New(cfg Config, root string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := cfg.FileOptions()
	excludes := make(map[string]bool, len(opts.ExcludeDirs))
	for _, dir := range opts.ExcludeDirs {
		excludes[dir] = true
	}

	return &Watcher{
		root:     root,
		debounce: cfg.GetDebounce(),
		opts:     opts,
		excludes: excludes,
		fsw:      fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		batches:  make(chan []string),
	}, nil
}

// Batches returns the channel of changed file batches. It is closed when the
// watcher stops. A batch may have been collected while the previous one was
// being processed; pass it through Changed before acting on it.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Start adds watches below root and begins collecting events.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	go w.processEvents(ctx)

	w.logger.Info("Watcher started", "root", w.root, "debounce", w.debounce)
	return nil
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

// Remember records the current content hash of each path. Unchanged files
// are not reported again.
func (w *Watcher) Remember(paths ...string) {
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			w.forget(path)
			continue
		}
		w.setHash(path, contentHash(content))
	}
}

// Changed returns the paths whose current content differs from the hash
// last remembered for them, in sorted order. Unreadable paths are forgotten
// and dropped.
func (w *Watcher) Changed(paths []string) []string {
	var changed []string
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				w.logger.Warn("Failed to read changed file", "path", path, "error", err)
			}
			w.forget(path)
			continue
		}
		if old, ok := w.hash(path); ok && old == contentHash(content) {
			continue
		}
		changed = append(changed, path)
	}
	sort.Strings(changed)
	return changed
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func (w *Watcher) hash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[path]
	return h, ok
}

func (w *Watcher) forget(path string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	delete(w.hashes, path)
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	return w.excludes[base] || strings.HasPrefix(base, ".")
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.batches)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			batch := w.flushPending()
			if len(batch) == 0 {
				continue
			}
			select {
			case w.batches <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !w.opts.Matches(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.skipDir(path) {
				if err := w.fsw.Add(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Change detected", "path", path, "op", event.Op.String())
}

// flushPending returns the pending files whose content differs from what
// was last remembered.
func (w *Watcher) flushPending() []string {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return nil
	}
	toProcess := make([]string, 0, len(w.pending))
	for path := range w.pending {
		toProcess = append(toProcess, path)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	return w.Changed(toProcess)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
