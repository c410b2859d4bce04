// Package ops implements the stored-snapshot operations behind the CLI:
// saving tracker updates, seeding a tracker, and inspecting or purging what
// was stored.
package ops

import (
	"strings"

	"github.com/hpungsan/fpwatch/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// NormalizeCallsign trims surrounding whitespace. Case is kept: call signs
// match the record's aircraft identification exactly.
func NormalizeCallsign(callsign string) string {
	return strings.TrimSpace(callsign)
}

// ValidateCallsign normalizes callsign and rejects an empty one.
func ValidateCallsign(callsign string) (string, error) {
	cs := NormalizeCallsign(callsign)
	if cs == "" {
		return "", errors.NewInvalidRequest("callsign must not be empty")
	}
	if strings.ContainsAny(cs, " \t") {
		return "", errors.NewInvalidRequest("callsign must not contain whitespace")
	}
	return cs, nil
}

// clampPage applies limit defaults and bounds and a non-negative offset.
func clampPage(limit, offset, def, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(offset, 0)
}
