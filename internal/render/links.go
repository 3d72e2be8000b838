// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// Link is a clickable target found in message text.
type Link struct {
	Label string
	URL   string
}

// Coordinates returns the first coordinate pair in text.
func Coordinates(text string) (lat, lon string, ok bool) {
	m := coordRegex.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ExtractLinks lists the links HTML would create, in order: the map link
// first, then URLs and www. hosts as they appear.
func ExtractLinks(text string) []Link {
	var links []Link
	if lat, lon, ok := Coordinates(text); ok {
		links = append(links, Link{Label: "view on map", URL: MapsURL(lat, lon)})
	}
	for _, u := range urlRegex.FindAllString(text, -1) {
		links = append(links, Link{Label: u, URL: u})
	}
	for _, m := range wwwRegex.FindAllStringSubmatch(text, -1) {
		host := m[2]
		links = append(links, Link{Label: host, URL: "https://" + host})
	}
	return dedupe(links)
}

func dedupe(links []Link) []Link {
	seen := make(map[string]bool, len(links))
	out := links[:0]
	for _, l := range links {
		key := strings.TrimRight(l.URL, ".,)")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
