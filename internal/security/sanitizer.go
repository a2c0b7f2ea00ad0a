package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Length limits for user supplied catalog text.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 2000
	MaxShortFieldLength  = 100
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims whitespace, drops null bytes and caps the result at maxRunes.
func SanitizeString(input string, maxRunes int) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		runes := []rune(input)
		input = strings.TrimSpace(string(runes[:maxRunes]))
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText strips markup and returns plain text limited to maxRunes.
func SanitizeText(input string, maxRunes int) string {
	return SanitizeString(html.UnescapeString(SanitizeHTML(input)), maxRunes)
}

// SanitizeTags cleans each tag, lowercases it and drops blanks and duplicates.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(SanitizeText(tag, MaxShortFieldLength))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ValidateImageURL accepts empty values and absolute http(s) URLs.
func ValidateImageURL(raw string) bool {
	if raw == "" {
		return true
	}
	lower := strings.ToLower(raw)
	return (strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")) &&
		!strings.ContainsAny(raw, " \t\n\"'<>")
}

// ValidateFileType checks if file extension is allowed
func ValidateFileType(filename string, allowedTypes []string) bool {
	filename = strings.ToLower(filename)
	for _, ext := range allowedTypes {
		if strings.HasSuffix(filename, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ValidateFileSize checks if file size is within limit
func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}
