// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
)

// TerminalOptions configures a TerminalRenderer.
type TerminalOptions struct {
	// Width is the wrap width in cells.
	Width int
	// Markdown renders text through glamour. When false text is only wrapped.
	Markdown bool
	// Style is a glamour standard style: "dark", "light", "notty" or "ascii".
	Style string
	// Hyperlinks emits OSC 8 hyperlinks for map links.
	Hyperlinks bool
	// ColorProfile limits the escapes glamour emits. The zero value is
	// TrueColor; Ascii drops styling entirely.
	ColorProfile termenv.Profile
}

// TerminalRenderer renders message text for the TUI. It is safe for
// concurrent use.
type TerminalRenderer struct {
	opts TerminalOptions

	mu   sync.Mutex
	glam *glamour.TermRenderer
}

// NewTerminalRenderer builds a renderer. Width defaults to 80.
func NewTerminalRenderer(opts TerminalOptions) (*TerminalRenderer, error) {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}
	r := &TerminalRenderer{opts: opts}
	if opts.Markdown {
		glam, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(opts.Style),
			glamour.WithWordWrap(opts.Width),
			glamour.WithColorProfile(opts.ColorProfile),
		)
		if err != nil {
			return nil, errors.Wrap(err, "creating markdown renderer")
		}
		r.glam = glam
	}
	return r, nil
}

// Width returns the wrap width.
func (r *TerminalRenderer) Width() int {
	return r.opts.Width
}

// Render formats text. The first coordinate pair gets a map link on its own
// line after the body, shown as a terminal hyperlink when enabled and as a
// bare URL otherwise. The link is never wrapped.
func (r *TerminalRenderer) Render(text string) string {
	if text == "" {
		return ""
	}
	return r.annotate(text, r.body(text))
}

func (r *TerminalRenderer) body(text string) string {
	if r.glam != nil {
		r.mu.Lock()
		out, err := r.glam.Render(text)
		r.mu.Unlock()
		if err == nil {
			return strings.Trim(out, "\n")
		}
		// Fall back to plain wrapping on a markdown failure.
	}
	return lipgloss.NewStyle().Width(r.opts.Width).Render(text)
}

// annotate appends the map link for the coordinates found in source, the
// unwrapped text, to rendered.
func (r *TerminalRenderer) annotate(source, rendered string) string {
	lat, lon, ok := Coordinates(source)
	if !ok {
		return rendered
	}
	url := MapsURL(lat, lon)
	if r.opts.Hyperlinks {
		return rendered + "\n" + termenv.Hyperlink(url, "📍 view on map")
	}
	return rendered + "\n📍 " + url
}

// HyperlinksSupported guesses whether the terminal understands OSC 8.
func HyperlinksSupported() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}
