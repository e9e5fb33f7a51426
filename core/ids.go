package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"streambingo/utils"
)

// NewID generates a prefixed ULID, e.g. NewID("ep") -> "ep_01G0EZ1XTM37C5X11SQTDNCTM1".
// The prefix identifies the entity kind at a glance in logs and URLs.
func NewID(prefix string) string {
	prefix = normalizePrefix(prefix)

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return prefix + "_" + id.String()
}

// IsValidULID reports whether id is a well-formed prefixed ULID: a lowercase
// alphanumeric prefix, one underscore, then a parseable 26-character ULID.
func IsValidULID(id string) bool {
	prefix, ulidPart, found := strings.Cut(id, "_")
	if !found || prefix == "" || strings.Contains(ulidPart, "_") {
		return false
	}

	for _, r := range prefix {
		lower := r >= 'a' && r <= 'z'
		digit := r >= '0' && r <= '9'
		if !lower && !digit {
			return false
		}
	}

	if len(ulidPart) != 26 {
		return false
	}
	// ulid.Parse tolerates Crockford aliases (I, L, O), so the charset is
	// checked explicitly: uppercase base32 only.
	for _, r := range ulidPart {
		digit := r >= '0' && r <= '9'
		upper := r >= 'A' && r <= 'Z' && r != 'I' && r != 'L' && r != 'O' && r != 'U'
		if !digit && !upper {
			return false
		}
	}
	_, err := ulid.Parse(ulidPart)
	return err == nil
}

// NewSecretKey generates a prefixed secret with 32 bytes of entropy, encoded
// URL-safe base64. Used for episode chat secrets and webhook signing secrets.
func NewSecretKey(prefix string) (string, error) {
	prefix = normalizePrefix(prefix)

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate random secret key: %w", err)
	}

	return prefix + "_" + base64.URLEncoding.EncodeToString(secretBytes), nil
}

func normalizePrefix(prefix string) string {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")
	return strings.ToLower(strings.TrimSpace(prefix))
}
