package id

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns a random (v4) UUID as exactly 32 lowercase hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewJobID returns a canonical hyphenated UUID for background jobs.
func NewJobID() string { return uuid.NewString() }

// ValidKey accepts a canonical UUID or a 32-char hex string, the two shapes clients
// send as idempotency keys.
func ValidKey(s string) bool {
	if len(s) == 32 {
		_, err := hex.DecodeString(s)
		return err == nil
	}
	if len(s) != 36 || strings.Count(s, "-") != 4 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
