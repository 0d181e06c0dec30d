package seat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// stateFileHeader marks the snapshot as internal, not a public format.
const stateFileHeader = "# This is private data. Do not parse.\n"

// State files carry recovery data for the daemon only.
const (
	stateDirMode  = 0o755
	stateFileMode = 0o600
)

// Save persists the seat's recovery snapshot: the state directory is
// created if absent, the snapshot is written to a temporary file next
// to the target, and the temporary file is renamed over the canonical
// path. Failures remove both paths best-effort, are logged, and come
// back as soft errors; the seat keeps running with stale or absent
// on-disk state.
func (s *Seat) Save() error {
	m := s.manager

	m.mu.RLock()
	content := s.renderStateLocked()
	m.mu.RUnlock()

	if err := writeStateFile(s.stateFile, content); err != nil {
		m.log.Error("Failed to save seat data",
			zap.String("seat_id", s.id),
			zap.Error(err))
		if m.metrics != nil {
			m.metrics.IncStateSaveErrors()
		}
		return err
	}

	if m.metrics != nil {
		m.metrics.IncStateSaves()
	}
	return nil
}

// Load is reserved for crash recovery. The on-disk format is marked
// private and nothing consumes recovered state, so Load deliberately
// restores nothing and reports success.
func (s *Seat) Load() error {
	return nil
}

// renderStateLocked serializes the KEY=value snapshot. OTHER and
// OTHER_UIDS derive from one pass over the session list so the two
// lines stay positionally aligned (internal, must hold manager.mu).
func (s *Seat) renderStateLocked() string {
	var b strings.Builder

	b.WriteString(stateFileHeader)

	vtconsole := 0
	if s.isConsoleLocked() {
		vtconsole = 1
	}
	fmt.Fprintf(&b, "IS_VTCONSOLE=%d\n", vtconsole)

	if s.active != nil {
		fmt.Fprintf(&b, "ACTIVE=%s\n", s.active.ID())
		fmt.Fprintf(&b, "ACTIVE_UID=%d\n", s.active.UID())
	}

	var others []Session
	for _, sess := range s.sessions {
		if sess == s.active {
			continue
		}
		others = append(others, sess)
	}

	if len(others) > 0 {
		b.WriteString("OTHER=")
		for i, sess := range others {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(sess.ID())
		}
		b.WriteByte('\n')

		b.WriteString("OTHER_UIDS=")
		for i, sess := range others {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", sess.UID())
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// writeStateFile writes content to path via a temporary file in the
// same directory, renamed into place. On any failure both the target
// and the temporary file are removed best-effort.
func writeStateFile(path, content string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, stateDirMode); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
			os.Remove(tmp)
		}
	}()

	// Owner read/write only, regardless of process umask.
	if err = f.Chmod(stateFileMode); err != nil {
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if _, err = f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}
