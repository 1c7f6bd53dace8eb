package sessionparse

import "strings"

// systemPrefixes are content prefixes that mark a user message as
// assistant-injected rather than authored by a human.
var systemPrefixes = []string{
	"<local-command",
	"<command-",
	"<system-reminder",
	"Caveat:",
}

// noisePatterns mark content as transient UI noise rather than a real
// message, even when it does not match a system prefix.
var noisePatterns = []string{
	"[Request interrupted",
	"[Session resumed",
	"[Tool output truncated",
}

// IsMeaningfulMessage reports whether content is a message worth using as
// a preview, in search, or in analytics. This filter is pure and must be
// the single source of truth everywhere a "real" user message matters.
func IsMeaningfulMessage(content string) bool {
	if content == "" {
		return false
	}
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(content, prefix) {
			return false
		}
	}
	for _, pattern := range noisePatterns {
		if strings.Contains(content, pattern) {
			return false
		}
	}
	return true
}

// previewLimit is the maximum rune length of a first-message preview.
const previewLimit = 200

// TruncatePreview truncates content to at most previewLimit runes,
// operating on runes (not bytes) so multi-byte characters are never split.
func TruncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit])
}
