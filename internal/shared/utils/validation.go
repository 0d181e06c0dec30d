package utils

import (
	"fmt"
	"regexp"
)

// String length limits
const (
	MaxSessionIDLength = 128
)

// Regular expressions for validation
var (
	// SeatNamePattern matches acceptable seat identifiers: the literal
	// prefix "seat" followed by at least one character, every character
	// drawn from [A-Za-z0-9_-].
	SeatNamePattern = regexp.MustCompile(`^seat[A-Za-z0-9_-]+$`)
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidSeatName reports whether name is an acceptable seat identifier.
// Advisory for callers that construct seat names from untrusted sources
// such as device-topology strings.
func ValidSeatName(name string) bool {
	return SeatNamePattern.MatchString(name)
}

// ValidateSeatName validates a seat identifier with a descriptive error.
func ValidateSeatName(name string) error {
	if name == "" {
		return fmt.Errorf("seat name is required")
	}
	if !ValidSeatName(name) {
		return fmt.Errorf("seat name %q is invalid (must be \"seat\" followed by characters from [A-Za-z0-9_-])", name)
	}
	return nil
}

// ValidateSessionID validates a session identifier supplied by the
// session registry collaborator.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if len(id) > MaxSessionIDLength {
		return fmt.Errorf("session id must not exceed %d characters", MaxSessionIDLength)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("session id %q contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", id)
	}
	return nil
}

// ValidateDevicePath validates a device node path bound to a seat.
// Device discovery happens elsewhere; this only rejects obviously
// malformed input before it enters the seat's device set.
func ValidateDevicePath(path string) error {
	if path == "" {
		return fmt.Errorf("device path is required")
	}
	if path[0] != '/' {
		return fmt.Errorf("device path %q must be absolute", path)
	}
	return nil
}
