package export

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nameDisallowed = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	nameHyphens    = regexp.MustCompile(`-+`)
)

// SanitizeBaseName returns name trimmed, with every character outside
// [A-Za-z0-9_-] replaced by a hyphen, hyphen runs collapsed and outer
// hyphens removed. The result may be empty.
func SanitizeBaseName(name string) string {
	return sanitize(strings.TrimSpace(name))
}

// SanitizeImageName derives the export stem of an attachment: the name
// without its last extension, sanitized and lowercased. An empty result
// becomes image-<index>, index being 1-based.
func SanitizeImageName(name string, index int) string {
	stem := name
	if dot := strings.LastIndex(stem, "."); dot >= 0 {
		stem = stem[:dot]
	}
	stem = strings.ToLower(sanitize(stem))
	if stem == "" {
		return "image-" + strconv.Itoa(index)
	}
	return stem
}

func sanitize(s string) string {
	s = nameDisallowed.ReplaceAllString(s, "-")
	s = nameHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ResolveBaseName sanitizes name and falls back to the sanitized fallback
// when nothing is left.
func ResolveBaseName(name, fallback string) string {
	if base := SanitizeBaseName(name); base != "" {
		return base
	}
	return SanitizeBaseName(fallback)
}
