// Package seat provides seat lifecycle management for usherd.
//
// A seat groups the input and display hardware one user sits at. The
// package tracks the sessions attached to each seat, follows which
// session owns the active virtual console, delegates hardware access
// transitions to an ACL applier, and persists a minimal recovery
// snapshot per seat.
//
// Components:
//   - Manager: Seat registry, console designation, GC queue
//   - Seat: Per-seat state machine (start/stop/destroy)
//   - Console tracker: Active VT polling and reconciliation
//   - Persistence writer: Atomic KEY=value state files
//
// Collaborator Contracts:
//   - Session: Attached login sessions, owned by the session registry
//   - ACLApplier: Hardware access transitions on active-session change
//   - VTSpawner: Autospawn requests for vacant virtual terminals
//   - VTAllocator: Kernel terminal preallocation
//
// State File:
//
//	Seat state lives at <runtime-dir>/seat/<id> as KEY=value lines
//	behind a "do not parse" header. Files are written atomically via
//	a same-directory temporary file and are removed on seat stop.
//
// Example Usage:
//
//	manager := seat.NewManager("/run/usherd", "seat0", 6).
//	    WithACL(applier).
//	    WithConsoleSource(src)
//
//	s, err := manager.GetOrCreate("seat0")
//	if err != nil {
//	    return err
//	}
//	if err := s.Start(); err != nil {
//	    return err
//	}
package seat
