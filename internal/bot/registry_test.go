package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

type stubModule struct {
	name          string
	commands      []*discordgo.ApplicationCommand
	handlers      map[string]InteractionHandler
	eventHandlers []EventHandler
	initErr       error
	shutErr       error
}

func (m *stubModule) Name() string                                   { return m.name }
func (m *stubModule) Commands() []*discordgo.ApplicationCommand      { return m.commands }
func (m *stubModule) CommandHandlers() map[string]InteractionHandler { return m.handlers }
func (m *stubModule) EventHandlers() []EventHandler                  { return m.eventHandlers }
func (m *stubModule) Init(deps ModuleDependencies) error             { return m.initErr }
func (m *stubModule) Shutdown() error                                { return m.shutErr }

func TestRegistryRegisterKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubModule{name: "first"})
	reg.Register(&stubModule{name: "second"})

	modules := reg.Modules()
	if len(modules) != 2 {
		t.Fatalf("Modules() = %d entries, want 2", len(modules))
	}
	if modules[0].Name() != "first" || modules[1].Name() != "second" {
		t.Errorf("module order = %q, %q, want first, second", modules[0].Name(), modules[1].Name())
	}
}

func TestRegistryModulesReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubModule{name: "one"})

	snapshot := reg.Modules()
	reg.Register(&stubModule{name: "two"})

	if len(snapshot) != 1 {
		t.Errorf("earlier snapshot = %d entries, want 1", len(snapshot))
	}
}

func TestGlobalRegistry(t *testing.T) {
	ResetGlobalRegistry()
	defer ResetGlobalRegistry()

	Register(&stubModule{name: "diagnostics"})

	modules := Modules()
	if len(modules) != 1 {
		t.Fatalf("Modules() = %d entries, want 1", len(modules))
	}
	if modules[0].Name() != "diagnostics" {
		t.Errorf("module name = %q, want %q", modules[0].Name(), "diagnostics")
	}
}
