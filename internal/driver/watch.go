package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"selfref-generator/internal/common"
)

// debounce groups the bursts of events editors emit for one save.
const debounce = 100 * time.Millisecond

// RunFunc receives the outcome of every watch iteration.
type RunFunc func(res *Result, written []string, err error)

// Watch runs and writes once, then again whenever a watched source
// changes, until ctx is done. Generated files are ignored unless they are
// removed or edited by hand, in which case they are rewritten.
func (d *Driver) Watch(ctx context.Context, onRun RunFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}

	run := func() {
		res, err := d.Run(ctx)

		var written []string
		if err == nil {
			written, err = d.Write(res)
			d.follow(watcher, watched, res.WatchPaths)
		}

		if onRun != nil {
			onRun(res, written, err)
		}
	}

	run()

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !relevant(event) {
				continue
			}

			if strings.HasSuffix(event.Name, common.OutputSuffix) {
				if !d.edited(event) {
					continue
				}

				d.Forget(event.Name)
			}

			d.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("source changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

			trigger = timer.C

		case <-trigger:
			trigger = nil

			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			d.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}

// follow adds watch paths not yet watched. Files are watched through their
// directory, which survives editors that save by renaming.
func (d *Driver) follow(watcher *fsnotify.Watcher, watched map[string]bool, paths []string) {
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}

		if watched[dir] {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			d.logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch")
			continue
		}

		watched[dir] = true

		d.logger.Info().Str("dir", dir).Msg("watching")
	}
}

// relevant reports whether an event can change the generated output.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	switch filepath.Ext(event.Name) {
	case ".go", ".yaml", ".yml":
	default:
		return false
	}

	return true
}

// edited reports whether a generated file no longer holds what this
// Driver wrote. Events caused by Write itself are not edits.
func (d *Driver) edited(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}

	prev, ok := d.written.Get(event.Name)
	if !ok {
		return false
	}

	content, err := os.ReadFile(event.Name)
	if err != nil {
		return true
	}

	return sha256.Sum256(content) != prev
}
