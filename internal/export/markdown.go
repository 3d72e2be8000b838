// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/render"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown with YAML frontmatter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

type frontmatter struct {
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Date      string `yaml:"date,omitempty"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// categoryLabel drops the emoji in front of a category. yaml.v3 would
// otherwise write it as a quoted escape sequence.
func categoryLabel(category string) string {
	if _, label, ok := strings.Cut(category, " "); ok {
		return label
	}
	return category
}

// Export converts a conversation to Markdown.
func (e *MarkdownExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	fm := frontmatter{
		Title:     title(conv),
		Category:  categoryLabel(conv.Category()),
		Messages:  len(conv.Messages),
		Exported:  time.Now().Format(time.RFC3339),
		Generator: "heritage-tui",
	}
	if !conv.Timestamp.IsZero() {
		fm.Date = conv.Timestamp.Format(time.RFC3339)
	}
	// SECURITY: yaml.v3 quotes titles that contain newlines or separators,
	// so message text can't inject frontmatter keys.
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, errors.Wrap(err, "marshal frontmatter")
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(head)
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title(conv))))

	for i, msg := range conv.Messages {
		label := e.options.roleLabel(msg.Role)
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(strings.TrimSpace(msg.Text))
		sb.WriteString("\n\n")

		if lat, lon, ok := render.Coordinates(msg.Text); ok {
			sb.WriteString(fmt.Sprintf("📍 [View on map](%s)\n\n", render.MapsURL(lat, lon)))
		}

		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from Tamil Nadu Heritage AI on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// escapeMarkdown escapes characters that would break formatting in headings.
func escapeMarkdown(s string) string {
	return strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
		"\n", " ",
	).Replace(s)
}
