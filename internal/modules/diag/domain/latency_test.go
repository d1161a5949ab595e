package domain

import (
	"testing"
	"time"
)

func TestLatencyReportMessage(t *testing.T) {
	report := NewLatencyReport(42 * time.Millisecond)

	if got := report.Message(); got != "Pong! Heartbeat: 42ms" {
		t.Errorf("Message() = %q", got)
	}
	if report.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestLatencyReportMessageSubMillisecond(t *testing.T) {
	report := NewLatencyReport(200 * time.Microsecond)

	if got := report.Message(); got != "Pong! Heartbeat: 0ms" {
		t.Errorf("Message() = %q", got)
	}
}
