package domain

import "time"

// Options is the per-queue configuration, constructed once at queue creation.
// InitialVolume and AutoSelfDeaf are consumed by the queue core itself; the
// remaining fields are behavior toggles read by the surrounding player.
type Options struct {
	LeaveOnEnd           bool          `json:"leave_on_end"`
	LeaveOnEndCooldown   time.Duration `json:"leave_on_end_cooldown"`
	LeaveOnStop          bool          `json:"leave_on_stop"`
	LeaveOnEmpty         bool          `json:"leave_on_empty"`
	LeaveOnEmptyCooldown time.Duration `json:"leave_on_empty_cooldown"`
	AutoSelfDeaf         bool          `json:"auto_self_deaf"`
	EnableLive           bool          `json:"enable_live"`
	UseSafeSearch        bool          `json:"use_safe_search"`
	DisableAutoRegister  bool          `json:"disable_auto_register"`
	FetchBeforeQueued    bool          `json:"fetch_before_queued"`
	InitialVolume        int           `json:"initial_volume"`
}

// DefaultOptions returns the documented defaults: leave the channel when
// playback ends or is stopped, stay on empty channels, self-deafen, allow
// live tracks, and start new tracks at full volume.
func DefaultOptions() Options {
	return Options{
		LeaveOnEnd:           true,
		LeaveOnEndCooldown:   0,
		LeaveOnStop:          true,
		LeaveOnEmpty:         false,
		LeaveOnEmptyCooldown: 0,
		AutoSelfDeaf:         true,
		EnableLive:           true,
		UseSafeSearch:        false,
		DisableAutoRegister:  false,
		FetchBeforeQueued:    false,
		InitialVolume:        100,
	}
}
