package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watch converts in to out every time in is written, until ctx is done.
// Bursts of events within the debounce window count as one change.
// onConverted, when not nil, receives the result of every conversion.
func (e *Engine) Watch(ctx context.Context, in, out string, onConverted func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so the directory is watched
	target := filepath.Clean(in)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	e.logger.Info("watching", zap.String("input", in), zap.String("output", out))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			err := e.ConvertFile(in, out)
			if err != nil {
				e.logger.Debug("conversion failed", zap.String("input", in), zap.Error(err))
			}
			if onConverted != nil {
				onConverted(err)
			}
		}
	}
}
