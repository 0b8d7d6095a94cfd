// Package content holds the identity and encoding helpers shared by the
// capture pipeline: content digests, display previews, and the PNG codec
// for image captures.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// previewRunes is the display preview budget in Unicode scalar values.
const previewRunes = 80

// digestPrefixLen is how many hex characters of the digest go into stored
// image filenames.
const digestPrefixLen = 12

// Digest returns the hex-encoded SHA-256 of raw bytes. The same bytes
// always yield the same digest; the store's uniqueness constraint and the
// poller's self-echo suppression both key on it.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestText returns the digest of a text capture's UTF-8 bytes.
func DigestText(text string) string {
	return Digest([]byte(text))
}

// Preview returns a bounded display summary: the first 80 runes with "..."
// appended when truncated. Truncation happens on rune boundaries, never
// mid-codepoint.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

// ImageFilename derives the stored filename for an image capture from its
// capture timestamp in nanoseconds and digest. Timestamp first so a
// directory listing is chronological; the digest prefix keeps
// near-simultaneous captures of different content apart.
func ImageFilename(timestampNanos int64, digest string) string {
	prefix := digest
	if len(prefix) > digestPrefixLen {
		prefix = prefix[:digestPrefixLen]
	}
	return fmt.Sprintf("%d_%s.png", timestampNanos, prefix)
}
