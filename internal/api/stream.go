// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// STREAMING: line-oriented "data: {json}" parsing, tolerant of bad lines

// DataPrefix starts every payload line of the chat stream.
const DataPrefix = "data: "

// MaxLineSize bounds a single stream line, newline included. Longer lines
// are read through and dropped without being held in memory.
const MaxLineSize = 1024 * 1024

// Query is one chat request.
type Query struct {
	Text      string
	Latitude  *float64
	Longitude *float64
	Language  model.Language
}

type chatRequest struct {
	Message   string   `json:"message"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Language  string   `json:"language"`
}

// FragmentFunc receives each fragment in arrival order.
type FragmentFunc func(fragment string)

// Reply is the outcome of Ask. When Err is set, Text is the advisory that
// replaces the reply and no partial text is kept.
type Reply struct {
	Text string
	Err  error
}

// Advisory reports whether Text is an advisory rather than a real reply.
func (r Reply) Advisory() bool {
	return r.Err != nil
}

// =============================================================================
// STREAM DECODER
// =============================================================================

// StreamDecoder splits a chat stream into fragments.
type StreamDecoder struct {
	reader *bufio.Reader
	line   []byte
	err    error
}

// NewStreamDecoder reads the stream from r.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{reader: bufio.NewReader(r)}
}

// Next returns the next fragment. It skips blank lines, lines without
// DataPrefix, unparsable JSON and payloads without text. It returns io.EOF
// when the stream ends. A final line without a newline is still decoded, and
// a read error is only reported after the fragment on that line.
func (d *StreamDecoder) Next() (string, error) {
	for d.err == nil {
		line, err := d.readLine()
		d.err = err
		if frag, ok := parseLine(line); ok {
			return frag, nil
		}
	}
	return "", d.err
}

// readLine returns the next line, valid until the following call. A line
// over MaxLineSize comes back nil once it has been consumed.
func (d *StreamDecoder) readLine() ([]byte, error) {
	d.line = d.line[:0]
	oversized := false
	for {
		chunk, err := d.reader.ReadSlice('\n')
		if !oversized && len(d.line)+len(chunk) > MaxLineSize {
			oversized = true
			d.line = d.line[:0]
		}
		if !oversized {
			d.line = append(d.line, chunk...)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if oversized {
			return nil, err
		}
		return d.line, err
	}
}

// parseLine decodes one stream line.
func parseLine(line []byte) (string, bool) {
	line = bytes.TrimRight(line, "\r\n")
	if !bytes.HasPrefix(line, []byte(DataPrefix)) {
		return "", false
	}
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(line[len(DataPrefix):], &payload); err != nil {
		return "", false
	}
	if payload.Text == "" {
		return "", false
	}
	return payload.Text, true
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamChat posts q to /chat and calls onFragment for every fragment. It
// returns the concatenation of all fragments.
//
// Errors: ErrEmptyQuery, ErrNotAuthenticated (no user id or 401),
// *StatusError for other non-2xx statuses, a wrapped transport error when
// no response arrived, and *StreamError when reading the body failed.
func (c *Client) StreamChat(ctx context.Context, q Query, onFragment FragmentFunc) (string, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return "", ErrEmptyQuery
	}
	lang := q.Language
	if lang == "" {
		lang = model.DefaultLanguage
	}

	body := chatRequest{
		Message:   text,
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Language:  string(lang),
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/chat", body, true)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	resp, err := c.streamClient.Do(req)
	if err != nil {
		c.logger.Warn("chat request failed", "err", err)
		return "", errors.Wrap(err, "POST /chat")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		c.logger.Warn("chat rejected", "status", resp.StatusCode)
		return "", &StatusError{StatusCode: resp.StatusCode, Detail: parseDetail(detail)}
	}

	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	var full strings.Builder
	fragments := 0
	dec := NewStreamDecoder(resp.Body)
	for {
		frag, err := dec.Next()
		if frag != "" {
			full.WriteString(frag)
			fragments++
			if onFragment != nil {
				onFragment(frag)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			c.logger.Warn("chat stream broken", "fragments", fragments, "err", err)
			return "", &StreamError{Partial: full.String(), Err: err}
		}
	}

	c.logger.Debug("chat complete", "fragments", fragments, "chars", full.Len(),
		"language", lang, "duration", time.Since(start))
	return full.String(), nil
}

// Ask is StreamChat with failures folded into advisories. It never returns
// partial text for a failed stream.
func (c *Client) Ask(ctx context.Context, q Query, onFragment FragmentFunc) Reply {
	text, err := c.StreamChat(ctx, q, onFragment)
	if err != nil {
		return Reply{Text: AdvisoryFor(err), Err: err}
	}
	return Reply{Text: text}
}

// Send streams q and returns the full reply text, or an advisory string in
// place of the reply when anything failed.
func (c *Client) Send(ctx context.Context, q Query, onFragment FragmentFunc) string {
	return c.Ask(ctx, q, onFragment).Text
}
