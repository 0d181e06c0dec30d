package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usherd/usherd/internal/domain/seat"
	"github.com/usherd/usherd/internal/infrastructure/config"
	"github.com/usherd/usherd/internal/infrastructure/logging"
	"github.com/usherd/usherd/internal/infrastructure/monitoring"
	"github.com/usherd/usherd/internal/shared/types"
)

type stubSession struct {
	id  string
	uid uint32
	vt  int
}

func (s *stubSession) ID() string  { return s.id }
func (s *stubSession) UID() uint32 { return s.uid }
func (s *stubSession) VT() int     { return s.vt }
func (s *stubSession) Stop() error { return nil }

func newTestServer(t *testing.T) (*Server, *seat.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Seats.RuntimeDir = t.TempDir()

	seats := seat.NewManager(cfg.Seats.RuntimeDir, cfg.Seats.ConsoleSeat, 0)
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())

	return NewServer(cfg, seats, logging.NewNop(), metrics), seats
}

func doGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doGet(t, srv, "/")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "usherd", body["service"])
	assert.NotEmpty(t, body["instance"])
}

func TestHealth(t *testing.T) {
	srv, seats := newTestServer(t)

	s, err := seats.Create("seat0")
	require.NoError(t, err)
	require.NoError(t, s.Start())

	w := doGet(t, srv, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string          `json:"status"`
		Seats  types.SeatStats `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 1, body.Seats.TotalSeats)
	assert.Equal(t, 1, body.Seats.StartedSeats)
}

func TestListSeats(t *testing.T) {
	srv, seats := newTestServer(t)

	_, err := seats.Create("seat0")
	require.NoError(t, err)
	_, err = seats.Create("seat-spare")
	require.NoError(t, err)

	w := doGet(t, srv, "/seats")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Seats []types.SeatSnapshot `json:"seats"`
		Stats types.SeatStats      `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Seats, 2)
	assert.Equal(t, "seat-spare", body.Seats[0].ID)
	assert.Equal(t, "seat0", body.Seats[1].ID)
	assert.Equal(t, 2, body.Stats.TotalSeats)
}

func TestGetSeat(t *testing.T) {
	srv, seats := newTestServer(t)

	s, err := seats.Create("seat0")
	require.NoError(t, err)
	require.NoError(t, s.AttachSession(&stubSession{id: "s1", uid: 1000, vt: 2}))

	w := doGet(t, srv, "/seats/seat0")
	require.Equal(t, http.StatusOK, w.Code)

	var snap types.SeatSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "seat0", snap.ID)
	assert.True(t, snap.IsConsole)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "s1", snap.Sessions[0].ID)
	assert.Equal(t, uint32(1000), snap.Sessions[0].UID)
}

func TestGetSeatNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doGet(t, srv, "/seats/seat-missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSeatInvalidName(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doGet(t, srv, "/seats/console")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsRoute(t *testing.T) {
	srv, seats := newTestServer(t)

	_, err := seats.Create("seat0")
	require.NoError(t, err)

	w := doGet(t, srv, "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats types.SeatStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalSeats)
	require.NotNil(t, stats.ConsoleSeat)
	assert.Equal(t, "seat0", *stats.ConsoleSeat)
}

func TestMetricsRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doGet(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}
