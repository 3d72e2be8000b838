// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone page with embedded CSS.
// Message bodies go through render.HTML, so links and map coordinates are
// clickable in the browser.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML.
func (e *HTMLExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title(conv))))
	sb.WriteString("    <meta name=\"generator\" content=\"heritage-tui\">\n")
	if !conv.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", conv.Timestamp.Format(time.RFC3339)))
	}
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(title(conv))))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\">%s</span>\n", html.EscapeString(conv.Category())))
	if !conv.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Started:</strong> %s</span>\n", formatTimestamp(conv.Timestamp)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(conv.Messages)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Toggle theme\">[Theme]</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>Tamil Nadu Heritage AI</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(script)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", msg.Role))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n",
		html.EscapeString(e.options.roleLabel(msg.Role))))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	// SECURITY: render.HTML escapes the text before inserting anchors.
	sb.WriteString("                <div class=\"message-content\">")
	sb.WriteString(render.HTML(msg.Text))
	sb.WriteString("</div>\n")

	if msg.HasPosition() {
		sb.WriteString(fmt.Sprintf("                <div class=\"message-location\">📍 %.4f, %.4f</div>\n",
			*msg.Latitude, *msg.Longitude))
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// EMBEDDED CSS AND SCRIPT
// =============================================================================

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Noto Sans Tamil", "Noto Sans Devanagari", sans-serif;
        }

        .light-theme {
            --bg-primary: #fdf8f0;
            --bg-secondary: #ffffff;
            --text-primary: #3b2a1a;
            --text-muted: #8a7560;
            --border-color: #e6d5bd;
            --user-bg: #f7e7ce;
            --assistant-bg: #ffffff;
            --accent: #b5451b;
        }

        .dark-theme {
            --bg-primary: #1d1611;
            --bg-secondary: #2a211a;
            --text-primary: #f3e6d3;
            --text-muted: #a89276;
            --border-color: #46382b;
            --user-bg: #3a2c20;
            --assistant-bg: #2a211a;
            --accent: #f0a05a;
        }

        body {
            font-family: var(--font-sans);
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container { max-width: 860px; margin: 0 auto; padding: 32px 24px; }

        .header { border-bottom: 2px solid var(--border-color); padding-bottom: 16px; margin-bottom: 24px; }
        .header h1 { color: var(--accent); font-size: 1.6em; margin-bottom: 8px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; color: var(--text-muted); font-size: 0.9em; align-items: center; }
        .theme-toggle { margin-left: auto; background: none; border: 1px solid var(--border-color); color: var(--text-muted); padding: 2px 8px; border-radius: 4px; cursor: pointer; }

        .conversation { display: flex; flex-direction: column; gap: 16px; }
        .message { border: 1px solid var(--border-color); border-radius: 12px; padding: 12px 16px; }
        .user-message { background: var(--user-bg); margin-left: 15%; }
        .assistant-message { background: var(--assistant-bg); margin-right: 15%; }
        .message-header { display: flex; justify-content: space-between; font-size: 0.85em; color: var(--text-muted); margin-bottom: 6px; }
        .role-label { font-weight: 600; color: var(--accent); }
        .message-content { word-wrap: break-word; }
        .message-content a { color: var(--accent); }
        .message-location { margin-top: 6px; font-size: 0.8em; color: var(--text-muted); }

        .footer { margin-top: 32px; text-align: center; font-size: 0.85em; color: var(--text-muted); }

        @media (max-width: 600px) {
            .user-message, .assistant-message { margin-left: 0; margin-right: 0; }
        }
    </style>
`

const script = `    <script>
        function toggleTheme() {
            const body = document.body;
            const next = body.classList.contains('dark-theme') ? 'light' : 'dark';
            body.classList.remove('dark-theme', 'light-theme');
            body.classList.add(next + '-theme');
            localStorage.setItem('theme', next);
        }

        document.addEventListener('DOMContentLoaded', function() {
            const savedTheme = localStorage.getItem('theme');
            if (savedTheme) {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(savedTheme + '-theme');
            }
        });
    </script>
`
