// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// RELIABILITY: Atomic write with fsync so a crash never leaves a torn file.
//
// AtomicWriteFile writes data to a temporary file next to path, syncs it,
// applies perm and renames it over path. Parent directories are created with
// 0700 because everything this client writes (config, session, exports) is
// private to the user.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolving path")
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	f, err := os.CreateTemp(dir, ".heritage-tmp-")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tempPath := f.Name()

	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	// Close before rename, Windows refuses to rename open files.
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		return errors.Wrapf(err, "renaming into %s", absPath)
	}

	committed = true
	return nil
}
