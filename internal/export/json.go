// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// Document is the structured export form shared by JSON and YAML.
type Document struct {
	Title      string            `json:"title" yaml:"title"`
	Category   string            `json:"category" yaml:"category"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Messages   []DocumentMessage `json:"messages" yaml:"messages"`
}

// DocumentMessage is one message in a Document.
type DocumentMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Type      string    `json:"type" yaml:"type"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Latitude  *float64  `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// NewDocument builds the structured form of a conversation.
func NewDocument(conv model.Conversation) Document {
	doc := Document{
		Title:      title(conv),
		Category:   conv.Category(),
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Messages:   make([]DocumentMessage, 0, len(conv.Messages)),
	}
	for _, m := range conv.Messages {
		doc.Messages = append(doc.Messages, DocumentMessage{
			ID:        m.ID,
			Type:      m.Role.String(),
			Text:      m.Text,
			Timestamp: m.Timestamp,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		})
	}
	return doc
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to indented JSON.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a conversation to JSON.
func (e *JSONExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(NewDocument(conv), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter exports conversations to YAML.
type YAMLExporter struct {
	options *Options
}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter(opts *Options) *YAMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &YAMLExporter{options: opts}
}

// Export converts a conversation to YAML.
func (e *YAMLExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	return yaml.Marshal(NewDocument(conv))
}

// FileExtension returns the file extension for YAML.
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns the MIME type for YAML.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
