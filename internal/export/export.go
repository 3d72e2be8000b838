// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to one file format.
type Exporter interface {
	// Export converts a conversation to the target format and returns the content.
	Export(conv model.Conversation) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Format names an export format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatHTML, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want html, md, json or yaml)", s)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory ExportToFile writes into.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool

	// Theme for HTML export ("light" or "dark").
	// Default: "light"
	Theme string

	// UserName labels user messages instead of "You" when set.
	UserName string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
		Theme:             "light",
	}
}

// New returns the exporter for a format.
func New(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatHTML:
		return NewHTMLExporter(opts), nil
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatYAML:
		return NewYAMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a conversation into opts.OutputDir and returns the
// path written.
func ExportToFile(conv model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}

	filename := fmt.Sprintf("heritage_%s_%s%s",
		sanitizeFilename(conv.Preview()),
		time.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	outputPath := filepath.Join(dir, filename)
	if err := WriteFile(outputPath, content); err != nil {
		return "", err
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// The file exists; failing to open it is not an export failure.
			fmt.Fprintf(os.Stderr, "Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// WriteFile writes exported content to an explicit path.
func WriteFile(path string, content []byte) error {
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// validate rejects conversations that have nothing to export.
func validate(conv model.Conversation) error {
	if len(conv.Messages) == 0 {
		return errors.New("conversation has no messages")
	}
	return nil
}

// title is the document heading for a conversation.
func title(conv model.Conversation) string {
	if _, ok := conv.FirstUserMessage(); ok {
		return conv.Preview()
	}
	return "Tamil Nadu Heritage Chat"
}

func (o *Options) roleLabel(role model.Role) string {
	if role == model.RoleUser && o.UserName != "" {
		return o.UserName
	}
	return role.DisplayName()
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(s, util.Ellipsis)
	runes := []rune(s)
	if len(runes) > 50 {
		runes = runes[:50]
	}

	var b strings.Builder
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Local().Format("15:04")
}
