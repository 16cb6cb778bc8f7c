package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentHash is the hex sha-256 digest of parts concatenated in order.
func ContentHash(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:])
}
