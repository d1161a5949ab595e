package usecases

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestRegistryGetOrCreateReturnsSameQueue(t *testing.T) {
	f := newFixture()

	first := f.registry.GetOrCreate(snowflake.ID(1))
	second := f.registry.GetOrCreate(snowflake.ID(1))
	if first != second {
		t.Error("GetOrCreate should return the existing queue for a guild")
	}
	if first.GuildID() != snowflake.ID(1) {
		t.Errorf("GuildID() = %v, want 1", first.GuildID())
	}

	other := f.registry.GetOrCreate(snowflake.ID(2))
	if other == first {
		t.Error("distinct guilds must get distinct queues")
	}
	if f.registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.registry.Count())
	}
}

func TestRegistryGetUnknownGuild(t *testing.T) {
	f := newFixture()

	if f.registry.Get(snowflake.ID(99)) != nil {
		t.Error("Get() for an unknown guild should return nil")
	}
}

func TestRegistryQueueCarriesDefaults(t *testing.T) {
	f := newFixture()

	q := f.registry.GetOrCreate(snowflake.ID(1))
	if q.Volume() != f.registry.defaults.InitialVolume {
		t.Errorf("Volume() = %d, want default %d", q.Volume(), f.registry.defaults.InitialVolume)
	}
	if !q.Options().AutoSelfDeaf {
		t.Error("queue should inherit the registry's default options")
	}
}

func TestRegistryDestroyedQueueIsReplaced(t *testing.T) {
	f := newFixture()
	q, _ := f.connectedQueue(t, snowflake.ID(1))

	if err := q.Destroy(); err != nil {
		t.Fatalf("Destroy() failed: %v", err)
	}
	if f.registry.Count() != 0 {
		t.Fatalf("Count() after destroy = %d, want 0", f.registry.Count())
	}

	replacement := f.registry.GetOrCreate(snowflake.ID(1))
	if replacement == q {
		t.Error("GetOrCreate after destroy should build a fresh queue")
	}
}
