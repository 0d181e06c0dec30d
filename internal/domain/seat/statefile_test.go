package seat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRoundTrip(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create("seat0")
	require.NoError(t, err)

	a := &fakeSession{id: "s-a", uid: 1000, vt: 2}
	b := &fakeSession{id: "s-b", uid: 1001, vt: 3}
	c := &fakeSession{id: "s-c", uid: 1002, vt: 4}
	require.NoError(t, s.AttachSession(a))
	require.NoError(t, s.AttachSession(b))
	require.NoError(t, s.AttachSession(c))
	require.NoError(t, s.ActiveVTChanged(2))

	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.StateFile())
	require.NoError(t, err)

	want := "# This is private data. Do not parse.\n" +
		"IS_VTCONSOLE=1\n" +
		"ACTIVE=s-a\n" +
		"ACTIVE_UID=1000\n" +
		"OTHER=s-b s-c\n" +
		"OTHER_UIDS=1001 1002\n"
	assert.Equal(t, want, string(data))
}

func TestSaveNoSessions(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create("seat1")
	require.NoError(t, err)

	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.StateFile())
	require.NoError(t, err)

	want := "# This is private data. Do not parse.\n" +
		"IS_VTCONSOLE=0\n"
	assert.Equal(t, want, string(data))
}

func TestSaveOnlyActiveAttached(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create("seat0")
	require.NoError(t, err)

	require.NoError(t, s.AttachSession(&fakeSession{id: "s-a", uid: 1000, vt: 2}))
	require.NoError(t, s.ActiveVTChanged(2))

	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.StateFile())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "OTHER",
		"a seat whose only session is active carries no OTHER keys")
	assert.Contains(t, string(data), "ACTIVE=s-a\n")
	assert.Contains(t, string(data), "ACTIVE_UID=1000\n")
}

func TestSaveFileMode(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create("seat1")
	require.NoError(t, err)

	require.NoError(t, s.Save())

	info, err := os.Stat(s.StateFile())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveCreatesStateDirectory(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, "seat0", 0)
	s, err := m.Create("seat1")
	require.NoError(t, err)

	require.NoError(t, s.Save())

	info, err := os.Stat(filepath.Join(dir, "seat"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveFailureIsSoft(t *testing.T) {
	dir := t.TempDir()

	// A regular file where the state directory belongs makes every
	// write path fail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seat"), []byte("x"), 0o644))

	metrics := newTestMetrics()
	m := NewManager(dir, "seat0", 0).WithMetrics(metrics)
	s, err := m.Create("seat1")
	require.NoError(t, err)

	require.Error(t, s.Save())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StateSaveErrors))

	// The seat still starts; the failure stays soft.
	require.NoError(t, s.Start())
	assert.True(t, s.Started())
}

func TestSaveOverwritesAtomically(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create("seat1")
	require.NoError(t, err)

	require.NoError(t, s.Save())

	require.NoError(t, s.AttachSession(&fakeSession{id: "s-a", uid: 1000}))
	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.StateFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "OTHER=s-a\n")

	// No temporary files left behind.
	entries, err := os.ReadDir(filepath.Dir(s.StateFile()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seat1", entries[0].Name())
}

func TestLoadIsInert(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create("seat1")
	require.NoError(t, err)

	require.NoError(t, s.AttachSession(&fakeSession{id: "s-a", uid: 1000}))
	require.NoError(t, s.Save())

	fresh, err := m.Create("seat2")
	require.NoError(t, err)
	require.NoError(t, fresh.Load())

	snap := fresh.Snapshot()
	assert.Empty(t, snap.Sessions, "Load restores nothing")
	assert.Nil(t, snap.Active)
}
