package glossify

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashRun computes the SHA-256 hash of a trimmed text run. Run hashes
// identify unchanged runs when two document versions are compared.
func HashRun(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}
