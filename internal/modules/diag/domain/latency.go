package domain

import (
	"fmt"
	"time"
)

// LatencyReport describes the gateway round-trip at a point in time.
type LatencyReport struct {
	Heartbeat time.Duration
	Timestamp time.Time
}

// NewLatencyReport creates a LatencyReport for the given heartbeat latency.
func NewLatencyReport(heartbeat time.Duration) *LatencyReport {
	return &LatencyReport{
		Heartbeat: heartbeat,
		Timestamp: time.Now(),
	}
}

// Message returns the user-facing latency line.
func (r *LatencyReport) Message() string {
	return fmt.Sprintf("Pong! Heartbeat: %dms", r.Heartbeat.Milliseconds())
}
