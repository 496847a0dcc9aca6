// Package watch keeps an output directory populated while a source image evolves.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"faviconkit/internal/catalog"
	"faviconkit/internal/favicon"
	"faviconkit/internal/logging"
)

const DefaultDebounce = 500 * time.Millisecond

type Generator interface {
	Generate(ctx context.Context, req favicon.Request) (*favicon.Result, error)
	Format() catalog.Format
}

type Options struct {
	Request  favicon.Request
	Debounce time.Duration
}

type Callbacks struct {
	OnResult func(*favicon.Result)
	OnError  func(error)
}

type Watcher struct {
	gen       Generator
	opts      Options
	callbacks Callbacks
	logger    *logging.Logger
	source    string
	outputDir string
}

func New(gen Generator, opts Options, logger *logging.Logger, callbacks Callbacks) (*Watcher, error) {
	if logger == nil {
		panic("watch.New: logger must not be nil")
	}
	if gen == nil {
		panic("watch.New: generator must not be nil")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	source, err := filepath.Abs(opts.Request.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}
	if opts.Request.OutputDir == "" {
		return nil, fmt.Errorf("missing output directory")
	}
	outputDir, err := filepath.Abs(opts.Request.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	opts.Request.Source = source
	opts.Request.OutputDir = outputDir
	return &Watcher{
		gen:       gen,
		opts:      opts,
		callbacks: callbacks,
		logger:    logger.With(logging.Field("component", "watch")),
		source:    source,
		outputDir: outputDir,
	}, nil
}

// Run generates once, then regenerates after a source write or the removal of a
// generated file until ctx is done. Generation errors are reported and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	w.regenerate(ctx, "initial")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{w.outputDir, filepath.Dir(w.source)} {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching for changes",
		logging.Field("source", w.source),
		logging.Field("dir", w.outputDir))

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping watcher: context canceled")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			reason, relevant := w.classify(event)
			if !relevant {
				continue
			}
			w.logger.Debug("scheduling regeneration",
				logging.Field("reason", reason),
				logging.Field("path", event.Name))
			pending = reason
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.handleError(fmt.Errorf("watcher error: %w", err))
		case <-timerC:
			timerC = nil
			w.regenerate(ctx, pending)
		}
	}
}

// classify reports whether event should trigger a regeneration and why.
func (w *Watcher) classify(event fsnotify.Event) (string, bool) {
	path := filepath.Clean(event.Name)
	if path == w.source && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
		return "source changed", true
	}
	if filepath.Dir(path) != w.outputDir || event.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}
	name := filepath.Base(path)
	if name == catalog.IcoFilename {
		return "icon removed", true
	}
	if _, ok := catalog.Lookup(name, w.gen.Format()); ok {
		return "icon removed", true
	}
	return "", false
}

func (w *Watcher) regenerate(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	w.logger.Debug("regenerating icons", logging.Field("reason", reason))
	result, err := w.gen.Generate(ctx, w.opts.Request)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.handleError(err)
		return
	}
	if len(result.Written) > 0 {
		w.logger.Info("regenerated icons",
			logging.Field("reason", reason),
			logging.Field("written", len(result.Written)))
	}
	if w.callbacks.OnResult != nil {
		w.callbacks.OnResult(result)
	}
}

func (w *Watcher) handleError(err error) {
	w.logger.Warn("watch cycle failed", logging.Field("error", err))
	if w.callbacks.OnError != nil {
		w.callbacks.OnError(err)
	}
}
