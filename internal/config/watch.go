package config

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written, created or renamed into place
// and sends every file that loads and validates. Files that fail are logged
// and skipped, so the receiver keeps its last good configuration. The channel
// closes when ctx is done.
//
// The parent directory is watched rather than the file itself because most
// editors save by replacing the file.
func Watch(ctx context.Context, path string, logger *log.Logger) (<-chan File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	files := make(chan File, 1)

	go func() {
		defer close(files)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				f, err := Load(abs)
				if err == nil {
					err = f.Validate()
				}
				if err != nil {
					logger.Warn("config reload failed", "path", abs, "err", err)
					continue
				}
				logger.Info("config reloaded", "path", abs, "op", event.Op.String())

				select {
				case files <- f:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("config watcher", "err", err)
			}
		}
	}()

	return files, nil
}
