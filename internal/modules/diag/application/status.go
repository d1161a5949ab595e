package application

import (
	"time"

	"github.com/hizuru/quaver/internal/modules/diag/domain"
)

// StatusInteractor reports process health.
type StatusInteractor struct {
	startedAt time.Time
}

// NewStatusInteractor creates a StatusInteractor anchored at the current time.
func NewStatusInteractor() *StatusInteractor {
	return &StatusInteractor{startedAt: time.Now()}
}

// Latency builds a latency report for the given heartbeat round-trip.
func (s *StatusInteractor) Latency(heartbeat time.Duration) *domain.LatencyReport {
	return domain.NewLatencyReport(heartbeat)
}

// Uptime builds an uptime report for the process.
func (s *StatusInteractor) Uptime() *domain.UptimeReport {
	return domain.NewUptimeReport(s.startedAt)
}
