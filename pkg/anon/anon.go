// Package anon produces the anonymized target identifiers used in all
// exported result artifacts in place of a target's email address.
package anon

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashEmail returns the hex sha256 digest of the raw email string. The
// input is hashed exactly as supplied, with no normalization, so the same
// email always maps to the same identifier within and across runs.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
