// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package device

import (
	"context"
	"os/exec"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	VoiceTamil   = "ta-IN"
	VoiceEnglish = "en-IN"
)

// VoiceFor picks the speech voice for text: Tamil when it contains any Tamil
// script, Indian English otherwise.
func VoiceFor(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Tamil, r) {
			return VoiceTamil
		}
	}
	return VoiceEnglish
}

// engine describes one text-to-speech program and how to pass it a voice.
type engine struct {
	name  string
	voice func(lang string) []string
}

var engines = []engine{
	{"espeak-ng", espeakVoice},
	{"espeak", espeakVoice},
	{"say", func(string) []string { return nil }},
}

// espeak takes short language codes ("ta", "en-in")
func espeakVoice(lang string) []string {
	if lang == VoiceTamil {
		return []string{"-v", "ta"}
	}
	return []string{"-v", "en-in"}
}

// CommandSpeaker speaks by running a text-to-speech program.
type CommandSpeaker struct {
	path  string
	voice func(lang string) []string
}

// NewSpeaker returns a CommandSpeaker for the first engine on PATH, or
// NoSpeaker when none is installed.
func NewSpeaker() Speaker {
	for _, e := range engines {
		if path, err := exec.LookPath(e.name); err == nil {
			return &CommandSpeaker{path: path, voice: e.voice}
		}
	}
	return NoSpeaker{}
}

// Command returns the engine command line for text without running it.
func (s *CommandSpeaker) Command(ctx context.Context, text string) *exec.Cmd {
	args := append(s.voice(VoiceFor(text)), text)
	return exec.CommandContext(ctx, s.path, args...)
}

// Speak blocks until the engine finishes or ctx is canceled.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if out, err := s.Command(ctx, text).CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(err, "speak: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
