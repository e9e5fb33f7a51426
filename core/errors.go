package core

import (
	"errors"
	"strings"
)

// ErrNotFound is the sentinel for operations that target a missing row.
var ErrNotFound = errors.New("not found")

// IsNotFoundError reports whether err represents a missing entity, matching
// both the wrapped sentinel and plain "not found" message text.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
