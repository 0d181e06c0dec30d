// Package paths provides standardized filesystem paths for the usherd runtime.
//
// All durable runtime state lives under a single runtime root (/run/usherd
// by default) that is recreated fresh on every boot. Components derive
// concrete paths through this package instead of concatenating strings, so
// the on-disk layout is defined in exactly one place.
//
// # Directory Structure
//
//	/run/usherd/
//	  └── seat/          (one state file per seat, named after the seat id)
//
// # Usage
//
//	import "github.com/usherd/usherd/internal/shared/paths"
//
//	dir := paths.SeatDir(cfg.Seats.RuntimeDir)
//	file := paths.SeatStateFile(cfg.Seats.RuntimeDir, "seat0")
package paths
