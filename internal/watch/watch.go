// Package watch regenerates icons whenever the source image changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
)

// ErrWatcher marks errors reported by the filesystem watcher itself rather
// than by a regeneration; watching continues after them.
var ErrWatcher = errors.New("watcher")

const (
	retryInitialDelay = 100 * time.Millisecond
	retryMaxDelay     = 2 * time.Second
	retryMaxTries     = 5
)

// Run watches source and calls regenerate after each change until ctx is
// cancelled. A change often lands while the file is still being written, so
// failed attempts are retried with backoff; notify gets the final outcome of
// every change (nil on success).
func Run(ctx context.Context, source string, regenerate func() error, notify func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	// Watch the directory: editors often replace the file by renaming over it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			notify(fmt.Errorf("%w: %w", ErrWatcher, err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, target) {
				continue
			}
			drain(watcher.Events, target)
			err := regenerateWithRetry(ctx, regenerate)
			if ctx.Err() != nil {
				return nil
			}
			notify(err)
		}
	}
}

func relevant(event fsnotify.Event, target string) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return filepath.Clean(name) == target
}

// drain swallows the burst of events a single save usually produces.
func drain(events <-chan fsnotify.Event, target string) {
	timer := time.NewTimer(50 * time.Millisecond)
	defer timer.Stop()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if relevant(event, target) {
				timer.Reset(50 * time.Millisecond)
			}
		case <-timer.C:
			return
		}
	}
}

func regenerateWithRetry(ctx context.Context, regenerate func() error) error {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = retryInitialDelay
	retry.MaxInterval = retryMaxDelay
	retry.Reset()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, regenerate()
	},
		backoff.WithBackOff(retry),
		backoff.WithMaxTries(retryMaxTries),
	)
	return err
}
