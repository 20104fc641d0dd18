package assist

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the cache key for a (prompt, context, model)
// triple. The inputs must already be redacted: the service filters
// prompt and context through the validator before calling this, so a
// key is never derived from raw sensitive values and two requests that
// differ only in redactable secrets share one key.
//
// The digest is SHA-256 over the normalized fields joined with a NUL
// separator, hex encoded. NUL cannot appear in the normalized text, so
// distinct triples cannot collapse to one preimage.
func Fingerprint(prompt, context, model string) string {
	h := sha256.New()
	h.Write([]byte(normalize(model)))
	h.Write(fieldSep)
	h.Write([]byte(normalize(prompt)))
	h.Write(fieldSep)
	h.Write([]byte(normalize(context)))
	return hex.EncodeToString(h.Sum(nil))
}

var fieldSep = []byte{0}

// normalize trims surrounding whitespace and strips NUL bytes so the
// separator stays unambiguous. Interior whitespace is preserved: it is
// part of the prompt's meaning.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "")
	}
	return s
}

// FingerprintPrefix shortens a fingerprint for logs and traces. Full
// fingerprints stay out of log lines to keep them scannable; eight
// bytes is plenty to correlate.
func FingerprintPrefix(fp string) string {
	if len(fp) <= 16 {
		return fp
	}
	return fp[:16]
}
