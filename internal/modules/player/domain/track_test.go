package domain

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func TestTrack_FormattedDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		isLive   bool
		want     string
	}{
		{"live", 0, true, "LIVE"},
		{"seconds", 45 * time.Second, false, "00:45"},
		{"minutes", 3*time.Minute + 7*time.Second, false, "03:07"},
		{"hours", time.Hour + 2*time.Minute + 3*time.Second, false, "01:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := &Track{Duration: tt.duration, IsLive: tt.isLive}
			if got := track.FormattedDuration(); got != tt.want {
				t.Errorf("FormattedDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_Serialize(t *testing.T) {
	track := NewTrack(
		"abc123",
		"Test Song",
		"Test Artist",
		"https://example.com/watch?v=abc123",
		"https://example.com/thumb.jpg",
		3*time.Minute,
		false,
		snowflake.ID(42),
		SessionOrigin{Provider: "youtube", Reference: "abc123"},
	)

	snap := track.Serialize()
	if snap.ID != "abc123" {
		t.Errorf("snapshot ID = %q, want abc123", snap.ID)
	}
	if snap.DurationMS != 180000 {
		t.Errorf("snapshot DurationMS = %d, want 180000", snap.DurationMS)
	}
	if snap.RequestedBy != "42" {
		t.Errorf("snapshot RequestedBy = %q, want 42", snap.RequestedBy)
	}
}

func TestTrack_IsValid(t *testing.T) {
	valid := &Track{ID: "a", Title: "t", Origin: DirectOrigin{StreamURL: "u"}}
	if !valid.IsValid() {
		t.Error("track with ID, title and origin should be valid")
	}

	invalid := []*Track{
		{Title: "t", Origin: DirectOrigin{}},
		{ID: "a", Origin: DirectOrigin{}},
		{ID: "a", Title: "t"},
	}
	for i, track := range invalid {
		if track.IsValid() {
			t.Errorf("invalid[%d].IsValid() = true, want false", i)
		}
	}
}
