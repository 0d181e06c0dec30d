package seat

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// maxConsoleStateLen bounds one read of the kernel's active VT report.
const maxConsoleStateLen = 63

// ActiveVTChanged reconciles the seat's active session against a
// kernel-reported VT switch. The first attached session recorded on
// that VT becomes active; no match leaves the seat without an active
// session. Repeated notifications for the already-active session are
// side-effect free.
func (s *Seat) ActiveVTChanged(vtnr int) error {
	m := s.manager

	if vtnr < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidVT, vtnr)
	}

	m.mu.Lock()
	if !s.isConsoleLocked() {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotConsoleSeat, s.id)
	}

	var newActive Session
	for _, sess := range s.sessions {
		if sess.VT() == vtnr {
			newActive = sess
			break
		}
	}

	if newActive == s.active {
		m.mu.Unlock()
		return nil
	}

	oldActive := s.active
	s.active = newActive
	m.mu.Unlock()

	m.log.Debug("VT changed",
		zap.String("seat_id", s.id),
		zap.Int("vtnr", vtnr))

	s.applyACLs(oldActive, newActive)
	s.spawnAutoVT(vtnr)
	_ = s.Save()

	if m.metrics != nil {
		m.metrics.IncVTSwitches()
	}

	return nil
}

// ReadActiveVT polls the kernel's active console report and reconciles
// the result. Meaningful only for the console seat; other seats succeed
// without effect.
func (s *Seat) ReadActiveVT() error {
	m := s.manager

	if !s.IsConsole() {
		return nil
	}
	if m.consoleSrc == nil {
		m.log.Debug("No console source configured", zap.String("seat_id", s.id))
		return nil
	}

	vtnr, err := readActiveVT(m.consoleSrc)
	if err != nil {
		m.log.Error("Failed to read current console", zap.Error(err))
		return err
	}

	return s.ActiveVTChanged(vtnr)
}

// readActiveVT parses one tty<N> report from a rewindable source. The
// source is a live status file, so the position is rewound before every
// read.
func readActiveVT(src io.ReadSeeker) (int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: rewind failed: %v", ErrConsoleState, err)
	}

	buf := make([]byte, maxConsoleStateLen)
	n, err := src.Read(buf)
	if n <= 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w: %v", ErrConsoleState, err)
		}
		return 0, fmt.Errorf("%w: empty report", ErrConsoleState)
	}

	t := strings.TrimRight(string(buf[:n]), "\n")
	rest, ok := strings.CutPrefix(t, "tty")
	if !ok {
		return 0, fmt.Errorf("%w: %q lacks tty prefix", ErrConsoleState, t)
	}

	vtnr, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: VT number %q is not numeric", ErrConsoleState, rest)
	}
	if vtnr <= 0 {
		return 0, fmt.Errorf("%w: VT number %d is not positive", ErrConsoleState, vtnr)
	}

	return vtnr, nil
}

// preallocateVTs forces kernel allocation of terminals 1..N-1 so VT
// switching works before any session spawns there. Console seat only;
// per-terminal failures are logged and never fail seat start.
func (s *Seat) preallocateVTs() {
	m := s.manager

	if m.autoVTs <= 0 || m.allocator == nil {
		return
	}
	if !s.IsConsole() {
		return
	}

	for i := 1; i < m.autoVTs; i++ {
		if err := m.allocator.Allocate(i); err != nil {
			m.log.Error("Failed to preallocate VT",
				zap.Int("vtnr", i),
				zap.Error(err))
		}
	}
}

// applyACLs delegates the hardware access transition for an
// active-session change. Failures are logged and absorbed, never a
// reason to reject the VT change itself.
func (s *Seat) applyACLs(oldActive, newActive Session) {
	m := s.manager

	if m.acl == nil {
		m.log.Debug("No ACL applier configured", zap.String("seat_id", s.id))
		return
	}

	var (
		hadOld, hasNew bool
		oldUID, newUID uint32
	)
	if oldActive != nil {
		hadOld = true
		oldUID = oldActive.UID()
	}
	if newActive != nil {
		hasNew = true
		newUID = newActive.UID()
	}

	if err := m.acl.Apply(s.id, hadOld, oldUID, hasNew, newUID); err != nil {
		m.log.Error("Failed to apply ACLs",
			zap.String("seat_id", s.id),
			zap.Error(err))
		if m.metrics != nil {
			m.metrics.IncACLFailures()
		}
	}
}

// spawnAutoVT requests a session for the given terminal from the
// spawner collaborator. Fire and forget; the result is logged only.
func (s *Seat) spawnAutoVT(vtnr int) {
	m := s.manager

	if m.spawner == nil {
		return
	}
	if err := m.spawner.SpawnVT(vtnr); err != nil {
		m.log.Warn("Failed to request VT autospawn",
			zap.Int("vtnr", vtnr),
			zap.Error(err))
	}
}
