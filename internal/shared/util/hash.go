package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey collapses an owner ID, either a Google subject or a
// guest:<uuid> principal, into a fixed-width hex segment for object
// keys. Raw IDs can carry characters the stores treat specially, and
// hashing keeps the key layout uniform across both identity kinds.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
