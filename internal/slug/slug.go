// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns free-form labels into ASCII identifiers used for
// category ids, download names and backup object keys.
package slug

import (
	"regexp"
	"strings"
)

var (
	// separators are treated as word breaks before stripping.
	separators = strings.NewReplacer("_", " ", "/", " ", ".", " ", "\\", " ")
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace collapses runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a lowercase hyphenated slug.
// Example: "Surat Keputusan / 2024" → "surat-keputusan-2024"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.Replace(result)
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(strings.TrimSpace(result), "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Filename builds a download-safe file name from a label and an extension
// such as ".json". An empty label falls back to "file".
func Filename(label, ext string) string {
	base := Generate(label)
	if base == "" {
		base = "file"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + strings.ToLower(ext)
}
