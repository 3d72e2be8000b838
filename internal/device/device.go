// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package device

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned by ports that have no implementation on this
// platform.
var ErrUnsupported = errors.New("not supported on this device")

// Position is a geographic fix in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Locator reports where the user is. ok is false when no fix is available;
// callers send the query without coordinates.
type Locator interface {
	Position(ctx context.Context) (pos Position, ok bool)
}

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Listener captures one spoken utterance and returns it as text.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// =============================================================================
// LOCATOR
// =============================================================================

// StaticLocator always reports the configured position.
type StaticLocator struct {
	Pos Position
}

// Position returns the configured position.
func (l StaticLocator) Position(context.Context) (Position, bool) {
	return l.Pos, true
}

// NoLocator never has a fix.
type NoLocator struct{}

// Position reports no fix.
func (NoLocator) Position(context.Context) (Position, bool) {
	return Position{}, false
}

// NewLocator returns a StaticLocator when both coordinates are set.
func NewLocator(lat, lon *float64) Locator {
	if lat == nil || lon == nil {
		return NoLocator{}
	}
	return StaticLocator{Pos: Position{Latitude: *lat, Longitude: *lon}}
}

// =============================================================================
// NO-OP PORTS
// =============================================================================

// NoSpeaker discards speech requests.
type NoSpeaker struct{}

// Speak returns ErrUnsupported.
func (NoSpeaker) Speak(context.Context, string) error {
	return ErrUnsupported
}

// NoListener has no microphone.
type NoListener struct{}

// Listen returns ErrUnsupported.
func (NoListener) Listen(context.Context) (string, error) {
	return "", ErrUnsupported
}
