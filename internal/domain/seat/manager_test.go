package seat

import (
	"errors"
	"testing"
)

func TestCreateValidatesName(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"", "seat", "foo0", "seat!", "seat 1"} {
		if _, err := m.Create(name); !errors.Is(err, ErrInvalidSeatName) {
			t.Errorf("Expected ErrInvalidSeatName for %q, got %v", name, err)
		}
	}

	if _, err := m.Create("seat0"); err != nil {
		t.Errorf("Expected seat0 to be accepted, got %v", err)
	}
}

func TestCreateDuplicate(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Create("seat1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create("seat1"); !errors.Is(err, ErrSeatExists) {
		t.Errorf("Expected ErrSeatExists, got %v", err)
	}
}

func TestGetOrCreate(t *testing.T) {
	m := newTestManager(t)

	s1, err := m.GetOrCreate("seat1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	s2, err := m.GetOrCreate("seat1")
	if err != nil {
		t.Fatalf("GetOrCreate failed on second call: %v", err)
	}
	if s1 != s2 {
		t.Error("Expected the same seat instance on repeated GetOrCreate")
	}

	if _, err := m.GetOrCreate("bogus"); !errors.Is(err, ErrInvalidSeatName) {
		t.Errorf("Expected ErrInvalidSeatName, got %v", err)
	}
}

func TestConsoleDesignation(t *testing.T) {
	m := newTestManager(t)

	other, _ := m.Create("seat1")
	if other.IsConsole() {
		t.Error("seat1 must not claim the console designation")
	}
	if _, ok := m.ConsoleSeat(); ok {
		t.Error("No console seat expected before seat0 exists")
	}

	console, _ := m.Create("seat0")
	if !console.IsConsole() {
		t.Error("Expected seat0 to claim the console designation")
	}

	got, ok := m.ConsoleSeat()
	if !ok || got != console {
		t.Error("Expected ConsoleSeat to return seat0")
	}
}

func TestConsoleDesignationConfigurable(t *testing.T) {
	m := NewManager(t.TempDir(), "seat-main", 0)

	s, err := m.Create("seat-main")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !s.IsConsole() {
		t.Error("Expected the configured id to claim the console designation")
	}
}

func TestListSorted(t *testing.T) {
	m := newTestManager(t)
	m.Create("seat2")
	m.Create("seat0")
	m.Create("seat1")

	snaps := m.List()
	if len(snaps) != 3 {
		t.Fatalf("Expected 3 seats, got %d", len(snaps))
	}
	for i, want := range []string{"seat0", "seat1", "seat2"} {
		if snaps[i].ID != want {
			t.Errorf("Expected %s at position %d, got %s", want, i, snaps[i].ID)
		}
	}
}

func TestStats(t *testing.T) {
	m := newTestManager(t)

	console, _ := m.Create("seat0")
	other, _ := m.Create("seat1")
	console.Start()
	other.Start()
	other.Stop()

	stats := m.Stats()
	if stats.TotalSeats != 2 {
		t.Errorf("Expected 2 total seats, got %d", stats.TotalSeats)
	}
	if stats.StartedSeats != 1 {
		t.Errorf("Expected 1 started seat, got %d", stats.StartedSeats)
	}
	if stats.ConsoleSeat == nil || *stats.ConsoleSeat != "seat0" {
		t.Errorf("Expected console seat seat0, got %v", stats.ConsoleSeat)
	}
	if stats.GCQueueDepth != 1 {
		t.Errorf("Expected GC queue depth 1, got %d", stats.GCQueueDepth)
	}
}

func TestSweepGCCollectsReleasedSeats(t *testing.T) {
	m := newTestManager(t)

	s, _ := m.Create("seat1")
	s.Start()
	s.Stop()

	if collected := m.SweepGC(); collected != 1 {
		t.Errorf("Expected 1 seat collected, got %d", collected)
	}
	if _, ok := m.Get("seat1"); ok {
		t.Error("Expected collected seat removed from registry")
	}
	if depth := m.Stats().GCQueueDepth; depth != 0 {
		t.Errorf("Expected empty GC queue, got depth %d", depth)
	}
}

func TestSweepGCSkipsConsoleSeat(t *testing.T) {
	m := newTestManager(t)

	console, _ := m.Create("seat0")
	console.Start()
	console.Stop()

	if collected := m.SweepGC(); collected != 0 {
		t.Errorf("Console seat must never be collected, got %d", collected)
	}
	if _, ok := m.Get("seat0"); !ok {
		t.Error("Console seat must survive the sweep")
	}
	if console.InGCQueue() {
		t.Error("Sweep must still drain the console seat from the queue")
	}
}

func TestSweepGCSkipsSeatsWithDevices(t *testing.T) {
	m := newTestManager(t)

	s, _ := m.Create("seat1")
	if err := s.AttachDevice("/sys/devices/pci0/usb1"); err != nil {
		t.Fatalf("AttachDevice failed: %v", err)
	}
	s.Start()
	s.Stop()

	if collected := m.SweepGC(); collected != 0 {
		t.Errorf("Seats with bound devices must not be collected, got %d", collected)
	}
	if _, ok := m.Get("seat1"); !ok {
		t.Fatal("Seat must survive the sweep while devices remain")
	}

	// Releasing the last device re-queues the stopped seat.
	if !s.RemoveDevice("/sys/devices/pci0/usb1") {
		t.Fatal("RemoveDevice reported device missing")
	}
	if !s.InGCQueue() {
		t.Fatal("Expected seat re-queued after device release")
	}
	if collected := m.SweepGC(); collected != 1 {
		t.Errorf("Expected seat collected after device release, got %d", collected)
	}
}

func TestSweepGCSkipsSeatsWithSessions(t *testing.T) {
	m := newTestManager(t)

	s, _ := m.Create("seat1")
	if err := s.AttachSession(&fakeSession{id: "s1", uid: 1000}); err != nil {
		t.Fatalf("AttachSession failed: %v", err)
	}
	s.Start()
	s.Stop()

	if collected := m.SweepGC(); collected != 0 {
		t.Errorf("Seats with attached sessions must not be collected, got %d", collected)
	}

	// The session registry detaches the stopped session later.
	if !s.RemoveSession("s1") {
		t.Fatal("RemoveSession reported session missing")
	}
	if !s.InGCQueue() {
		t.Fatal("Expected seat re-queued after session detach")
	}
	if collected := m.SweepGC(); collected != 1 {
		t.Errorf("Expected seat collected after session detach, got %d", collected)
	}
}
