// Package types provides shared data structures for the usherd daemon.
//
// This package defines the read-only views exchanged between the seat
// registry and the observability surface, ensuring consistent JSON
// shapes across components.
//
// Core Types:
//   - SeatSnapshot: Point-in-time view of a seat
//   - SessionSummary: One session attached to a seat
//   - SeatStats: Registry-wide statistics
//
// Example Usage:
//
//	snap := types.SeatSnapshot{
//	    ID:        "seat0",
//	    IsConsole: true,
//	    Started:   true,
//	}
package types
