// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a reply language understood by the backend.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTamil   Language = "ta"
	LanguageHindi   Language = "hi"
)

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = LanguageEnglish

// Languages lists the supported languages in cycling order.
var Languages = []Language{LanguageEnglish, LanguageTamil, LanguageHindi}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Tamil,
	language.Hindi,
})

// ParseLanguage resolves any BCP 47 tag or display name to a supported
// language. "ta-IN", "TA" and "tamil" all resolve to LanguageTamil.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty language")
	}
	for _, l := range Languages {
		if strings.EqualFold(s, l.EnglishName()) || s == l.DisplayName() {
			return l, nil
		}
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unknown language %q: %w", s, err)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf < language.High {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return Languages[idx], nil
}

// Valid reports whether l is one of Languages.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

// DisplayName returns the language's name in its own script, e.g. "தமிழ்".
func (l Language) DisplayName() string {
	return display.Self.Name(l.Tag())
}

// EnglishName returns the language's English name.
func (l Language) EnglishName() string {
	return display.English.Languages().Name(l.Tag())
}

// Next returns the language after l in Languages, wrapping around.
func (l Language) Next() Language {
	for i, known := range Languages {
		if l == known {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return DefaultLanguage
}
