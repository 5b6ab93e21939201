package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mgpai22/ass2srt/internal/logging"
)

// handles one newly created file
type Handler func(ctx context.Context, path string) error

// Watcher runs Handler for files created in a directory that pass the
// filter. Files are handled one at a time, in event order.
type Watcher struct {
	dir     string
	handler Handler
	filter  func(path string) bool
	logger  *logging.Logger
	delay   time.Duration
	watcher *fsnotify.Watcher
}

func New(
	dir string,
	filter func(path string) bool,
	handler Handler,
	logger *logging.Logger,
	delay time.Duration,
) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &Watcher{
		dir:     dir,
		handler: handler,
		filter:  filter,
		logger:  logger,
		delay:   delay,
		watcher: watcher,
	}, nil
}

// Start blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Infow("Watching for new ASS files", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Infow("File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.filter(event.Name) {
				w.logger.Debugw("Ignoring file", "path", event.Name)
				continue
			}

			w.logger.Infow("New ASS file detected", "path", event.Name)

			// give the writer a moment to finish
			select {
			case <-time.After(w.delay):
			case <-ctx.Done():
				return ctx.Err()
			}

			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Errorw("Failed to process file",
					"path", event.Name,
					"error", err,
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Errorw("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
