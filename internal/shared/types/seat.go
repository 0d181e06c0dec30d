package types

// SessionSummary describes one session attached to a seat, as reported
// by the observability surface.
type SessionSummary struct {
	ID  string `json:"id"`
	UID uint32 `json:"uid"`
	VT  int    `json:"vt,omitempty"` // 0 = no virtual terminal recorded
}

// SeatSnapshot is a read-only view of a seat. Snapshots are produced
// under the registry lock and are safe to serialize concurrently with
// seat mutation.
type SeatSnapshot struct {
	ID        string           `json:"id"`
	IsConsole bool             `json:"is_console"`
	Started   bool             `json:"started"`
	InGCQueue bool             `json:"in_gc_queue"`
	Active    *SessionSummary  `json:"active,omitempty"`
	Sessions  []SessionSummary `json:"sessions"`
	Devices   []string         `json:"devices"`
	StateFile string           `json:"state_file"`
}

// SeatStats contains seat registry statistics.
type SeatStats struct {
	TotalSeats   int     `json:"total_seats"`
	StartedSeats int     `json:"started_seats"`
	ConsoleSeat  *string `json:"console_seat,omitempty"`
	GCQueueDepth int     `json:"gc_queue_depth"`
}
