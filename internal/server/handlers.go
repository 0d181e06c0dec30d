package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/usherd/usherd/internal/domain/seat"
	"github.com/usherd/usherd/internal/shared/utils"
)

// Handlers contains the debug server HTTP handlers
type Handlers struct {
	seats    *seat.Manager
	instance string
}

// NewHandlers creates a new handler set
func NewHandlers(seats *seat.Manager, instance string) *Handlers {
	return &Handlers{
		seats:    seats,
		instance: instance,
	}
}

// Root reports service identity
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "online",
		"service":  "usherd",
		"version":  "0.1.0",
		"instance": h.instance,
	})
}

// Health reports registry health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"seats":  h.seats.Stats(),
	})
}

// ListSeats lists all registered seats
func (h *Handlers) ListSeats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"seats": h.seats.List(),
		"stats": h.seats.Stats(),
	})
}

// GetSeat returns the snapshot of a single seat
func (h *Handlers) GetSeat(c *gin.Context) {
	seatID := c.Param("id")

	// Validate seat name
	if err := utils.ValidateSeatName(seatID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, ok := h.seats.Get(seatID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "seat not found",
			"seat_id": seatID,
		})
		return
	}

	c.JSON(http.StatusOK, s.Snapshot())
}

// Stats returns registry counters
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.seats.Stats())
}
