package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// RedactEmail replaces the local part of an address with a short hash so log lines
// can be correlated without carrying the address itself.
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "<empty>"
	}
	local, domain, found := strings.Cut(email, "@")
	digest := HashString(strings.ToLower(local))[:12]
	if !found {
		return digest
	}
	return digest + "@" + domain
}
