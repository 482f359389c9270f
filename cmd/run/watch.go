package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/manifest"
)

const defaultDebounce = 300 * time.Millisecond

// watchedFiles returns the absolute paths of the manifests and the modules
// they reference.
func watchedFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		m, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		for _, p := range []string{path, m.ModulePath()} {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, errors.Load("resolve "+p, err)
			}
			files = append(files, abs)
		}
	}
	return files, nil
}

// watch calls fn once and again after every burst of writes to files,
// until ctx is done. Directories are watched instead of the files so that
// editors and compilers replacing a file by rename are noticed.
func watch(ctx context.Context, files []string, debounce time.Duration, log *zap.Logger, fn func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Load("create watcher", err)
	}
	defer w.Close()

	wanted := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		wanted[filepath.Clean(f)] = true
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Load("watch "+dir, err)
		}
		log.Debug("watching directory", zap.String("dir", dir))
	}

	fn(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !wanted[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("file changed", zap.String("event", event.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			log.Info("rerunning after change")
			fn(ctx)
		}
	}
}
