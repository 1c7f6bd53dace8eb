package sessionparse

import (
	"path/filepath"
	"strings"
)

// EncodeProjectPath mirrors the assistant's own encoding of a project's
// absolute directory into a single path component: every path separator
// becomes "-". Grounded on mrf-agent-racer's encodeProjectPath, which
// observes the same convention from the live corpus.
func EncodeProjectPath(absPath string) string {
	clean := filepath.Clean(absPath)
	return strings.ReplaceAll(clean, string(filepath.Separator), "-")
}

// DecodeProjectPath reverses EncodeProjectPath. Every "-" becomes a path
// separator, and exactly one leading separator is restored regardless of
// how many collapsed onto the front of the encoded name. A literal "-"
// inside an original path component cannot be told apart from an encoded
// separator, so it also decodes to a separator.
//
// The source's decoder instead special-cased a single leading "-" and
// otherwise replaced in place, which produced a doubled leading slash
// whenever the encoder had (incorrectly) prefixed an already-absolute
// path with an extra separator before replacing. Trimming every leading
// separator before restoring exactly one is immune to that either way.
func DecodeProjectPath(encoded string) string {
	decoded := strings.ReplaceAll(encoded, "-", string(filepath.Separator))
	decoded = strings.TrimLeft(decoded, string(filepath.Separator))
	return string(filepath.Separator) + decoded
}
