package seat

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/usherd/usherd/internal/infrastructure/logging"
	"github.com/usherd/usherd/internal/infrastructure/monitoring"
	"github.com/usherd/usherd/internal/shared/paths"
	"github.com/usherd/usherd/internal/shared/types"
	"github.com/usherd/usherd/internal/shared/utils"
	"go.uber.org/zap"
)

// ACLApplier interface for the device ACL enforcement collaborator.
// Apply receives the old and new active-user identity of a seat; the
// presence flags distinguish "no active user" from uid 0.
type ACLApplier interface {
	Apply(seatID string, hadOld bool, oldUID uint32, hasNew bool, newUID uint32) error
}

// VTSpawner interface for the autovt session spawner collaborator
type VTSpawner interface {
	SpawnVT(vtnr int) error
}

// VTAllocator interface for kernel terminal preallocation
type VTAllocator interface {
	Allocate(vtnr int) error
}

// Manager owns the seat registry: the id to seat mapping, the console
// seat designation, and the garbage collection queue. Mutating seat
// operations are serialized by the owning event loop; the mutex exists
// so snapshot readers can run concurrently with them.
type Manager struct {
	mu      sync.RWMutex
	seats   map[string]*Seat // Protected by mu
	console *Seat            // Protected by mu
	gcQueue []*Seat          // Protected by mu

	runtimeDir    string
	consoleSeatID string
	autoVTs       int

	acl        ACLApplier
	spawner    VTSpawner
	allocator  VTAllocator
	consoleSrc io.ReadSeeker

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates a new seat manager. consoleSeatID names the seat
// that claims the console designation when first created; autoVTs is
// the number of virtual terminals preallocated on console seat start.
func NewManager(runtimeDir, consoleSeatID string, autoVTs int) *Manager {
	return &Manager{
		seats:         make(map[string]*Seat),
		runtimeDir:    runtimeDir,
		consoleSeatID: consoleSeatID,
		autoVTs:       autoVTs,
		log:           logging.NewNop(),
	}
}

// WithACL adds the device ACL collaborator
func (m *Manager) WithACL(acl ACLApplier) *Manager {
	m.acl = acl
	return m
}

// WithSpawner adds the autovt spawner collaborator
func (m *Manager) WithSpawner(spawner VTSpawner) *Manager {
	m.spawner = spawner
	return m
}

// WithAllocator adds the terminal allocator collaborator
func (m *Manager) WithAllocator(allocator VTAllocator) *Manager {
	m.allocator = allocator
	return m
}

// WithConsoleSource adds the kernel active-VT report source
func (m *Manager) WithConsoleSource(src io.ReadSeeker) *Manager {
	m.consoleSrc = src
	return m
}

// WithLogger adds structured logging to the manager
func (m *Manager) WithLogger(log *logging.Logger) *Manager {
	if log != nil {
		m.log = log
	}
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Create registers a new seat under a validated identifier. The
// configured console seat id claims the console designation on first
// sight.
func (m *Manager) Create(id string) (*Seat, error) {
	if !utils.ValidSeatName(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeatName, id)
	}

	s := &Seat{
		id:        id,
		stateFile: paths.SeatStateFile(m.runtimeDir, id),
		manager:   m,
		devices:   make(map[string]struct{}),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seats[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrSeatExists, id)
	}

	m.seats[id] = s
	if id == m.consoleSeatID {
		m.console = s
	}
	m.updateGaugesLocked()

	return s, nil
}

// GetOrCreate returns the seat with the given id, creating it on first
// sight.
func (m *Manager) GetOrCreate(id string) (*Seat, error) {
	m.mu.RLock()
	s, ok := m.seats[id]
	m.mu.RUnlock()

	if ok {
		return s, nil
	}
	return m.Create(id)
}

// Get retrieves a seat by id
func (m *Manager) Get(id string) (*Seat, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.seats[id]
	return s, ok
}

// ConsoleSeat returns the seat holding the console designation, if any
func (m *Manager) ConsoleSeat() (*Seat, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.console == nil {
		return nil, false
	}
	return m.console, true
}

// List returns snapshots of every seat, sorted by id
func (m *Manager) List() []types.SeatSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]types.SeatSnapshot, 0, len(m.seats))
	for _, s := range m.seats {
		snaps = append(snaps, s.snapshotLocked())
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })

	return snaps
}

// Stats returns registry statistics
func (m *Manager) Stats() types.SeatStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var started int
	for _, s := range m.seats {
		if s.started {
			started++
		}
	}

	var consoleID *string
	if m.console != nil {
		id := m.console.id
		consoleID = &id
	}

	return types.SeatStats{
		TotalSeats:   len(m.seats),
		StartedSeats: started,
		ConsoleSeat:  consoleID,
		GCQueueDepth: len(m.gcQueue),
	}
}

// SweepGC drains the GC queue and destroys every drained seat whose
// sessions and devices have been fully released. Seats not yet
// collectable simply leave the queue; releasing their last resource or
// a later Stop re-enqueues them. Returns the number of seats destroyed.
func (m *Manager) SweepGC() int {
	m.mu.Lock()
	queue := m.gcQueue
	m.gcQueue = nil
	for _, s := range queue {
		s.inGCQueue = false
	}
	if m.metrics != nil {
		m.metrics.SetGCQueueDepth(0)
	}
	m.mu.Unlock()

	collected := 0
	for _, s := range queue {
		m.mu.RLock()
		collectable := len(s.sessions) == 0 && s.active == nil && s.gcEligibleLocked()
		m.mu.RUnlock()

		if !collectable {
			continue
		}

		if err := s.Stop(); err != nil {
			m.log.Warn("Failed to stop seat during GC",
				zap.String("seat_id", s.id),
				zap.Error(err))
		}
		s.Destroy()
		collected++

		m.log.Debug("Collected seat", zap.String("seat_id", s.id))
		if m.metrics != nil {
			m.metrics.IncGCCollected()
		}
	}

	return collected
}

// enqueueGC appends the seat to the GC queue unless already pending
func (m *Manager) enqueueGC(s *Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.inGCQueue {
		return
	}
	m.gcQueue = append(m.gcQueue, s)
	s.inGCQueue = true

	if m.metrics != nil {
		m.metrics.SetGCQueueDepth(len(m.gcQueue))
	}
}

// dropFromGCQueueLocked removes the seat from the GC queue (internal,
// must hold mu)
func (m *Manager) dropFromGCQueueLocked(s *Seat) {
	if !s.inGCQueue {
		return
	}

	for i, queued := range m.gcQueue {
		if queued == s {
			m.gcQueue = append(m.gcQueue[:i], m.gcQueue[i+1:]...)
			break
		}
	}
	s.inGCQueue = false

	if m.metrics != nil {
		m.metrics.SetGCQueueDepth(len(m.gcQueue))
	}
}

// updateGaugesLocked refreshes the registry gauges (internal, must
// hold mu)
func (m *Manager) updateGaugesLocked() {
	if m.metrics == nil {
		return
	}

	var started int
	for _, s := range m.seats {
		if s.started {
			started++
		}
	}
	m.metrics.SetSeats(len(m.seats))
	m.metrics.SetSeatsStarted(started)
}
