package seat

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/usherd/usherd/internal/shared/types"
	"github.com/usherd/usherd/internal/shared/utils"
	"go.uber.org/zap"
)

// Sentinel errors reported by seat operations.
var (
	// ErrInvalidSeatName rejects identifiers outside seat[A-Za-z0-9_-]+.
	ErrInvalidSeatName = errors.New("invalid seat name")
	// ErrSeatExists rejects registering an id twice.
	ErrSeatExists = errors.New("seat already registered")
	// ErrDuplicateSession rejects attaching a session id twice.
	ErrDuplicateSession = errors.New("session already attached")
	// ErrNotConsoleSeat rejects VT reconciliation on seats that do not
	// own the system console.
	ErrNotConsoleSeat = errors.New("seat does not track the system console")
	// ErrInvalidVT rejects non-positive virtual terminal numbers.
	ErrInvalidVT = errors.New("virtual terminal number must be positive")
	// ErrConsoleState covers every malformed active-VT report: short or
	// absent reads, a missing tty prefix, and non-positive numbers.
	ErrConsoleState = errors.New("malformed console state")
)

// Session interface for the session registry collaborator. Sessions
// are created and owned elsewhere; a seat only references them.
type Session interface {
	// ID returns the stable session identifier.
	ID() string
	// UID returns the owning user's numeric identity.
	UID() uint32
	// VT returns the session's recorded virtual terminal number, 0 if none.
	VT() int
	// Stop asks the session registry to terminate the session.
	Stop() error
}

// Seat tracks one physical seat: the sessions attached to it, which of
// them owns the active virtual console, and a minimal on-disk recovery
// snapshot.
type Seat struct {
	id        string
	stateFile string
	manager   *Manager

	sessions  []Session           // Attach order; protected by manager.mu
	devices   map[string]struct{} // Protected by manager.mu
	active    Session             // Protected by manager.mu
	started   bool                // Protected by manager.mu
	inGCQueue bool                // Protected by manager.mu
}

// ID returns the seat identifier.
func (s *Seat) ID() string { return s.id }

// StateFile returns the seat's canonical state file path.
func (s *Seat) StateFile() string { return s.stateFile }

// IsConsole reports whether this seat holds the console designation.
func (s *Seat) IsConsole() bool {
	m := s.manager
	m.mu.RLock()
	defer m.mu.RUnlock()
	return s.isConsoleLocked()
}

// isConsoleLocked (internal, must hold manager.mu)
func (s *Seat) isConsoleLocked() bool {
	return s.manager.console == s
}

// Started reports whether the seat is between a completed Start and the
// next Stop.
func (s *Seat) Started() bool {
	m := s.manager
	m.mu.RLock()
	defer m.mu.RUnlock()
	return s.started
}

// InGCQueue reports whether the seat is pending garbage collection.
func (s *Seat) InGCQueue() bool {
	m := s.manager
	m.mu.RLock()
	defer m.mu.RUnlock()
	return s.inGCQueue
}

// ActiveSession returns the session currently owning the console, if any.
func (s *Seat) ActiveSession() (Session, bool) {
	m := s.manager
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s.active == nil {
		return nil, false
	}
	return s.active, true
}

// Start brings the seat up: preallocates virtual terminals and reads
// the current console state when this seat owns the console, then
// persists the initial snapshot. Sub-step failures are logged and
// absorbed. Calling Start on a started seat is a no-op.
func (s *Seat) Start() error {
	m := s.manager

	m.mu.RLock()
	started := s.started
	m.mu.RUnlock()
	if started {
		return nil
	}

	m.log.Info("New seat", zap.String("seat_id", s.id))

	s.preallocateVTs()

	if err := s.ReadActiveVT(); err != nil {
		m.log.Warn("Failed to read active VT on start",
			zap.String("seat_id", s.id),
			zap.Error(err))
	}

	// Save logs and counts failures itself; the seat starts regardless,
	// running with absent on-disk state.
	_ = s.Save()

	m.mu.Lock()
	s.started = true
	m.updateGaugesLocked()
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSeatStarts()
	}

	return nil
}

// Stop tears the seat down: stops every attached session, removes the
// state file, and queues the seat for garbage collection. Every session
// is given a stop attempt; the first error is returned. Calling Stop on
// a stopped seat is a no-op.
func (s *Seat) Stop() error {
	m := s.manager

	m.mu.RLock()
	started := s.started
	sessions := make([]Session, len(s.sessions))
	copy(sessions, s.sessions)
	m.mu.RUnlock()

	if !started {
		return nil
	}

	m.log.Info("Removed seat", zap.String("seat_id", s.id))

	var firstErr error
	for _, sess := range sessions {
		if err := sess.Stop(); err != nil {
			m.log.Error("Failed to stop session",
				zap.String("seat_id", s.id),
				zap.String("session_id", sess.ID()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if m.metrics != nil {
			m.metrics.IncSessionsStopped()
		}
	}

	_ = os.Remove(s.stateFile)

	s.AddToGCQueue()

	m.mu.Lock()
	s.started = false
	m.updateGaugesLocked()
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSeatStops()
	}

	return firstErr
}

// Destroy removes the seat from the registry and from the GC queue if
// pending. The caller must have released every session and device
// first; violations are programming errors and panic.
func (s *Seat) Destroy() {
	m := s.manager

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.active != nil {
		panic(fmt.Sprintf("seat %s destroyed with active session %s", s.id, s.active.ID()))
	}
	if len(s.sessions) > 0 {
		panic(fmt.Sprintf("seat %s destroyed with %d attached sessions", s.id, len(s.sessions)))
	}
	if len(s.devices) > 0 {
		panic(fmt.Sprintf("seat %s destroyed with %d bound devices", s.id, len(s.devices)))
	}

	m.dropFromGCQueueLocked(s)
	delete(m.seats, s.id)
	if m.console == s {
		m.console = nil
	}
	m.updateGaugesLocked()
}

// GCEligible reports whether the seat may be garbage collected: never
// for the console seat, and only once no devices remain bound.
func (s *Seat) GCEligible() bool {
	m := s.manager
	m.mu.RLock()
	defer m.mu.RUnlock()
	return s.gcEligibleLocked()
}

// gcEligibleLocked (internal, must hold manager.mu)
func (s *Seat) gcEligibleLocked() bool {
	if s.isConsoleLocked() {
		return false
	}
	return len(s.devices) == 0
}

// AddToGCQueue queues the seat for deferred destruction. Enqueueing is
// idempotent; the seat holds at most one queue membership.
func (s *Seat) AddToGCQueue() {
	s.manager.enqueueGC(s)
}

// AttachSession binds a session to this seat. Attach order is preserved
// and drives VT resolution.
func (s *Seat) AttachSession(sess Session) error {
	if err := utils.ValidateSessionID(sess.ID()); err != nil {
		return err
	}

	m := s.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range s.sessions {
		if existing.ID() == sess.ID() {
			return fmt.Errorf("%w: %q", ErrDuplicateSession, sess.ID())
		}
	}
	s.sessions = append(s.sessions, sess)
	return nil
}

// RemoveSession detaches the session with the given id and reports
// whether it was attached. Detaching the active session clears the
// active pointer without an ACL transition; the next VT reconciliation
// repairs hardware access.
func (s *Seat) RemoveSession(id string) bool {
	m := s.manager

	m.mu.Lock()
	found := false
	for i, sess := range s.sessions {
		if sess.ID() == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			found = true
			break
		}
	}
	if found && s.active != nil && s.active.ID() == id {
		s.active = nil
	}
	enqueue := found && !s.started && len(s.sessions) == 0 && s.gcEligibleLocked()
	m.mu.Unlock()

	if enqueue {
		m.enqueueGC(s)
	}
	return found
}

// AttachDevice binds a device node path to this seat. Bound devices
// block garbage collection.
func (s *Seat) AttachDevice(path string) error {
	if err := utils.ValidateDevicePath(path); err != nil {
		return err
	}

	m := s.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	s.devices[path] = struct{}{}
	return nil
}

// RemoveDevice releases a device node path and reports whether it was
// bound. Releasing the last device of a stopped, empty seat queues it
// for garbage collection.
func (s *Seat) RemoveDevice(path string) bool {
	m := s.manager

	m.mu.Lock()
	_, ok := s.devices[path]
	delete(s.devices, path)
	enqueue := ok && !s.started && len(s.sessions) == 0 && s.gcEligibleLocked()
	m.mu.Unlock()

	if enqueue {
		m.enqueueGC(s)
	}
	return ok
}

// Snapshot returns a read-only view of the seat.
func (s *Seat) Snapshot() types.SeatSnapshot {
	m := s.manager
	m.mu.RLock()
	defer m.mu.RUnlock()
	return s.snapshotLocked()
}

// snapshotLocked (internal, must hold manager.mu)
func (s *Seat) snapshotLocked() types.SeatSnapshot {
	snap := types.SeatSnapshot{
		ID:        s.id,
		IsConsole: s.isConsoleLocked(),
		Started:   s.started,
		InGCQueue: s.inGCQueue,
		Sessions:  make([]types.SessionSummary, 0, len(s.sessions)),
		Devices:   make([]string, 0, len(s.devices)),
		StateFile: s.stateFile,
	}

	for _, sess := range s.sessions {
		snap.Sessions = append(snap.Sessions, types.SessionSummary{
			ID:  sess.ID(),
			UID: sess.UID(),
			VT:  sess.VT(),
		})
	}
	if s.active != nil {
		snap.Active = &types.SessionSummary{
			ID:  s.active.ID(),
			UID: s.active.UID(),
			VT:  s.active.VT(),
		}
	}
	for path := range s.devices {
		snap.Devices = append(snap.Devices, path)
	}
	sort.Strings(snap.Devices)

	return snap
}

// NameIsValid reports whether name is an acceptable seat identifier:
// the literal prefix "seat" followed by at least one character, all
// characters drawn from [A-Za-z0-9_-]. Advisory for callers deriving
// seat names from untrusted sources such as device topology strings.
func NameIsValid(name string) bool {
	return utils.ValidSeatName(name)
}
