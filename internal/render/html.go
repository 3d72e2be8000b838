// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	coordRegex = regexp.MustCompile(`(?i)Latitude:\s*([-+]?\d*\.?\d+)[,\s]+Longitude:\s*([-+]?\d*\.?\d+)`)
	urlRegex   = regexp.MustCompile(`https?://[^\s<]+`)
	wwwRegex   = regexp.MustCompile(`(^|\s)(www\.[^\s<]+)`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// MapsURL returns the map search link for a coordinate pair. The numbers are
// used exactly as written.
func MapsURL(lat, lon string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + lat + "," + lon
}

func anchor(href, label string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, href, label)
}

// HTML turns message text into markup that is safe to inject. In order:
//
//  1. escape & < > " '
//  2. annotate the first "Latitude: x, Longitude: y" with a map link
//  3. link every http(s):// token
//  4. link every whitespace-led www. token with an https:// href
//  5. turn newlines into <br />
//
// Steps 3 and 4 only touch text outside markup inserted by earlier steps, so
// no href is ever linked twice.
func HTML(text string) string {
	if text == "" {
		return ""
	}

	out := htmlEscaper.Replace(text)
	out = linkCoordinates(out)
	out = mapText(out, linkURLs)
	out = mapText(out, linkWWW)
	return strings.ReplaceAll(out, "\n", "<br />")
}

func linkCoordinates(s string) string {
	loc := coordRegex.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	lat, lon := s[loc[2]:loc[3]], s[loc[4]:loc[5]]
	replacement := fmt.Sprintf("Latitude: %s, Longitude: %s (%s)", lat, lon, anchor(MapsURL(lat, lon), "view on map"))
	return s[:loc[0]] + replacement + s[loc[1]:]
}

func linkURLs(text string, _ bool) string {
	return urlRegex.ReplaceAllStringFunc(text, func(u string) string {
		return anchor(u, u)
	})
}

// linkWWW handles the (^|\s) anchor by hand: "^" may only match at the real
// start of the message, not at the start of every text run.
func linkWWW(text string, atStart bool) string {
	matches := wwwRegex.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		preStart, preEnd := m[2], m[3]
		if preStart == preEnd && !(atStart && m[0] == 0) {
			continue
		}
		host := text[m[4]:m[5]]
		b.WriteString(text[last:preEnd])
		b.WriteString(anchor("https://"+host, host))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// mapText applies fn to every run of text that is neither inside a tag nor
// inside an <a> element. atStart is true for a run beginning at offset 0.
func mapText(s string, fn func(text string, atStart bool) string) string {
	var b strings.Builder
	b.Grow(len(s))

	depth := 0 // open <a> elements
	i := 0
	for i < len(s) {
		lt := strings.IndexByte(s[i:], '<')
		if lt < 0 {
			b.WriteString(applyIf(depth == 0, s[i:], i == 0, fn))
			break
		}
		lt += i
		if lt > i {
			b.WriteString(applyIf(depth == 0, s[i:lt], i == 0, fn))
		}

		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			// Escaped input can't produce a stray '<', but be safe.
			b.WriteString(s[lt:])
			break
		}
		tag := s[lt : lt+gt+1]
		switch {
		case strings.HasPrefix(tag, "<a "):
			depth++
		case tag == "</a>" && depth > 0:
			depth--
		}
		b.WriteString(tag)
		i = lt + gt + 1
	}
	return b.String()
}

func applyIf(cond bool, text string, atStart bool, fn func(string, bool) string) string {
	if !cond {
		return text
	}
	return fn(text, atStart)
}
