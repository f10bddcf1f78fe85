package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint derives the whole-document cache key from the text and the
// parts of the configuration that affect the result. Identical requests hit
// the same key; differing configuration never collides.
func Fingerprint(text, language string, confidenceThreshold float64, entityTypes []string) string {
	sorted := make([]string, len(entityTypes))
	copy(sorted, entityTypes)
	sort.Strings(sorted)

	hasher := sha256.New()
	hasher.Write([]byte(strings.TrimSpace(text)))
	fmt.Fprintf(hasher, "|%s|%.4f|%s", language, confidenceThreshold, strings.Join(sorted, ","))

	return "doc:" + hex.EncodeToString(hasher.Sum(nil))
}
