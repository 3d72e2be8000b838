// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the leveled loggers used across heritage-tui.
//
// The TUI owns the terminal while it runs, so it logs to a file. CLI
// commands log to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// DefaultLevel is used when the configured level is empty.
const DefaultLevel = "info"

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name to a log.Level.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultLevel
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, errors.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
	return lvl, nil
}

// New returns a logger writing text lines to w. An unknown level falls back
// to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, _ := ParseLevel(level)
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "heritage",
		ReportTimestamp: true,
	})
}

// Open appends to the log file at path, creating it and its directory.
// The returned closer closes the file.
func Open(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, errors.Wrap(err, "creating log directory")
	}
	// SECURITY: log lines carry user ids.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening log file %s", path)
	}
	logger := New(f, level)
	logger.SetFormatter(log.LogfmtFormatter)
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
