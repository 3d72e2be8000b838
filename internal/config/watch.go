// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce collapses bursts of events from one save into one reload.
const WatchDebounce = 150 * time.Millisecond

// Watch reloads the file at path whenever it changes on disk and passes the
// result to onChange, which runs on the watcher goroutine. A reload that
// fails to parse or validate is reported as an error; the caller keeps its
// current config. Watching stops when ctx is done.
//
// The parent directory is watched so that atomic saves (write temp, rename)
// are seen.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
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
				if timer == nil {
					timer = time.NewTimer(WatchDebounce)
				} else {
					timer.Reset(WatchDebounce)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				onChange(LoadFrom(abs))

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				onChange(nil, err)
			}
		}
	}()
	return nil
}
