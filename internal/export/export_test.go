// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/heritage-tui/internal/model"
)

func sampleConversation() model.Conversation {
	lat, lon := 9.9195, 78.1193
	user := model.NewUserMessage("Tell me about Meenakshi temple")
	user.Latitude, user.Longitude = &lat, &lon
	reply := model.NewMessage(model.RoleAssistant,
		"The Meenakshi Amman Temple is in Madurai.\nLatitude: 9.9195, Longitude: 78.1193\nSee https://maduraimeenakshi.org")

	conv := model.NewConversation(model.NewWelcomeMessage("Priya"), user, reply)
	conv.Timestamp = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	return conv
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{"HTM", FormatHTML, false},
		{"markdown", FormatMarkdown, false},
		{".md", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryFormatExports(t *testing.T) {
	conv := sampleConversation()
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			exp, err := New(f, nil)
			require.NoError(t, err)

			out, err := exp.Export(conv)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			assert.True(t, strings.HasPrefix(exp.FileExtension(), "."))
			assert.NotEmpty(t, exp.MimeType())

			_, err = exp.Export(model.Conversation{})
			assert.Error(t, err, "empty conversation")
		})
	}
}

func TestHTMLExport(t *testing.T) {
	out, err := NewHTMLExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>Tell me about Meenakshi temple</title>")
	assert.Contains(t, page, `href="https://www.google.com/maps/search/?api=1&query=9.9195,78.1193"`)
	assert.Contains(t, page, `href="https://maduraimeenakshi.org"`)
	assert.Contains(t, page, "Heritage AI")
	assert.Contains(t, page, "📍 9.9195, 78.1193")
	assert.Contains(t, page, "light-theme")
}

func TestHTMLExport_Escapes(t *testing.T) {
	conv := model.NewConversation(model.NewUserMessage(`<script>alert('x')</script>`))
	out, err := NewHTMLExporter(&Options{Theme: "dark"}).Export(conv)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>alert")
	assert.Contains(t, string(out), "&lt;script&gt;")
	assert.Contains(t, string(out), "dark-theme")
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{UserName: "Priya"}).Export(sampleConversation())
	require.NoError(t, err)
	md := string(out)

	require.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "# Tell me about Meenakshi temple")
	assert.Contains(t, md, "### Priya")
	assert.Contains(t, md, "### Heritage AI")
	assert.Contains(t, md, "[View on map](https://www.google.com/maps/search/?api=1&query=9.9195,78.1193)")
	assert.Contains(t, md, "\ncategory: Temples\n")
	assert.NotContains(t, md, `\U0001F3DB`)

	parts := strings.SplitN(md, "---\n", 3)
	require.Len(t, parts, 3)
	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Temples", fm["category"])
	assert.Equal(t, "Tell me about Meenakshi temple", fm["title"])
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"🏛️ Temples", "Temples"},
		{"💬 Chats", "Chats"},
		{"Recent", "Recent"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categoryLabel(tt.in), tt.in)
	}
}

func TestMarkdownFrontmatterInjection(t *testing.T) {
	conv := model.NewConversation(model.NewUserMessage("hi\ninjected: true"))
	out, err := NewMarkdownExporter(nil).Export(conv)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	require.Len(t, parts, 3)
	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	_, injected := fm["injected"]
	assert.False(t, injected)
}

func TestJSONExport(t *testing.T) {
	conv := sampleConversation()
	out, err := NewJSONExporter(nil).Export(conv)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.Messages, 3)
	assert.Equal(t, "user", doc.Messages[1].Type)
	assert.Equal(t, conv.Messages[1].ID, doc.Messages[1].ID)
	require.NotNil(t, doc.Messages[1].Latitude)
	assert.InDelta(t, 9.9195, *doc.Messages[1].Latitude, 1e-9)
	assert.Nil(t, doc.Messages[0].Latitude)
}

func TestYAMLExport(t *testing.T) {
	out, err := NewYAMLExporter(nil).Export(sampleConversation())
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "Tell me about Meenakshi temple", doc.Title)
	assert.Len(t, doc.Messages, 3)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportToFile(sampleConversation(), NewMarkdownExporter(nil), &Options{OutputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "heritage_Tell_me_about_Meenakshi_temple_"))
	assert.Equal(t, ".md", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Meenakshi")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "conversation"},
		{"a/b:c", "a-b-c"},
		{"two words", "two_words"},
		{"forts near...", "forts_near"},
		{"கோயில்", "கோயில்"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}

func TestHighlight(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Highlight(&buf, []byte(`{"title": "x"}`), FormatJSON))
	assert.Contains(t, buf.String(), "title")
	assert.Contains(t, buf.String(), "\x1b[")
}
