package domain

import (
	"fmt"
	"time"
)

// UptimeReport describes how long the process has been running.
type UptimeReport struct {
	StartedAt time.Time
	Now       time.Time
}

// NewUptimeReport creates an UptimeReport for a process started at startedAt.
func NewUptimeReport(startedAt time.Time) *UptimeReport {
	return &UptimeReport{
		StartedAt: startedAt,
		Now:       time.Now(),
	}
}

// Message returns the user-facing uptime line.
func (r *UptimeReport) Message() string {
	uptime := r.Now.Sub(r.StartedAt).Truncate(time.Second)

	days := uptime / (24 * time.Hour)
	rest := uptime % (24 * time.Hour)
	if days > 0 {
		return fmt.Sprintf("Up for %dd %s.", days, rest)
	}
	return fmt.Sprintf("Up for %s.", uptime)
}
