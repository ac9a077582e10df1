package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the deterministic cache key for a request. The
// prompt is lower-cased and whitespace-trimmed first, so cosmetic
// differences hit the same entry, while the mode and registry version
// are hashed verbatim so semantic differences never collide.
func Fingerprint(prompt, mode, registryVersion string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(prompt))))
	h.Write([]byte{0})
	h.Write([]byte(mode))
	h.Write([]byte{0})
	h.Write([]byte(registryVersion))
	return hex.EncodeToString(h.Sum(nil))
}
