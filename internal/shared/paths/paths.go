package paths

import "path/filepath"

// DefaultRuntimeDir is the runtime root used when no override is configured.
const DefaultRuntimeDir = "/run/usherd"

// Runtime subdirectories
const (
	// SeatSubdir holds the per-seat recovery state files.
	SeatSubdir = "seat"
)

// SeatDir returns the directory holding seat state files.
func SeatDir(runtimeDir string) string {
	return filepath.Join(runtimeDir, SeatSubdir)
}

// SeatStateFile returns the canonical state-file path for a seat id.
// Derived once at seat construction; never changes for the seat's lifetime.
func SeatStateFile(runtimeDir, seatID string) string {
	return filepath.Join(runtimeDir, SeatSubdir, seatID)
}
