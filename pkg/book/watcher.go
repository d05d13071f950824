package book

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a book whenever its file changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan *Book
	errors  chan error
	path    string
	opts    []Opt
}

// NewWatcher creates a new [Watcher] for the file at path. The parent
// directory is watched so that editors which replace the file on save are
// handled. Call [Watcher.Run] to start watching.
func NewWatcher(path string, opts ...Opt) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		closeErr := watcher.Close()
		if closeErr != nil {
			slog.Error("close watcher", slog.Any("err", closeErr))
		}

		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		watcher: watcher,
		events:  make(chan *Book, 1),
		errors:  make(chan error, 1),
		path:    absPath,
		opts:    opts,
	}, nil
}

// Events returns the channel that receives reloaded books.
func (w *Watcher) Events() <-chan *Book {
	return w.events
}

// Errors returns the channel that receives load and watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run handles file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if evt.Name != w.path || !w.relevant(evt) {
				continue
			}

			slog.DebugContext(ctx, "book changed", slog.String("event", evt.String()))

			b, err := Load(ctx, w.path, w.opts...)
			if err != nil {
				w.sendError(ctx, err)
				continue
			}

			select {
			case w.events <- b:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.sendError(ctx, fmt.Errorf("watch: %w", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

// relevant reports whether evt changes the content at the watched path.
// Chmod alone never does, and a rename only counts if a file now exists.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	switch {
	case evt.Has(fsnotify.Write), evt.Has(fsnotify.Create):
		return true
	case evt.Has(fsnotify.Rename):
		_, err := os.Stat(w.path)
		return err == nil
	}

	return false
}

func (w *Watcher) sendError(ctx context.Context, err error) {
	select {
	case w.errors <- err:
	case <-ctx.Done():
	}
}
