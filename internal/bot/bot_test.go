package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func noopHandler(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
	return nil
}

func TestNewBot(t *testing.T) {
	cfg := &Config{DiscordToken: "token"}

	b := NewBot(cfg)
	if b == nil {
		t.Fatal("NewBot() = nil")
	}
	if b.config != cfg {
		t.Error("NewBot() did not keep the supplied config")
	}
}

func TestInitModulesCallsInit(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "token"})

	initCalled := false
	b.modules = []Module{&trackingModule{initCalled: &initCalled}}

	if err := b.initModules(); err != nil {
		t.Fatalf("initModules() failed: %v", err)
	}
	if !initCalled {
		t.Error("Init was not called")
	}
}

func TestInitModulesPropagatesError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "token"})

	initErr := errors.New("init failed")
	b.modules = []Module{&stubModule{name: "failing", initErr: initErr}}

	err := b.initModules()
	if !errors.Is(err, initErr) {
		t.Fatalf("initModules() = %v, want %v", err, initErr)
	}
}

func TestBuildHandlerMapMergesModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "token"})
	b.modules = []Module{
		&stubModule{name: "a", handlers: map[string]InteractionHandler{"ping": noopHandler}},
		&stubModule{name: "b", handlers: map[string]InteractionHandler{"play": noopHandler}},
	}

	b.buildHandlerMap()

	for _, name := range []string{"ping", "play"} {
		if _, ok := b.handlers[name]; !ok {
			t.Errorf("handler %q missing from map", name)
		}
	}
	if len(b.handlers) != 2 {
		t.Errorf("handler map size = %d, want 2", len(b.handlers))
	}
}

func TestCollectCommands(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "token"})
	b.modules = []Module{&stubModule{
		name: "diag",
		commands: []*discordgo.ApplicationCommand{
			{Name: "ping", Description: "Check gateway latency"},
		},
	}}

	commands := b.collectCommands()
	if len(commands) != 1 {
		t.Fatalf("collectCommands() = %d commands, want 1", len(commands))
	}
	if commands[0].Name != "ping" {
		t.Errorf("command name = %q, want %q", commands[0].Name, "ping")
	}
}

// trackingModule reports whether the host called Init.
type trackingModule struct {
	stubModule
	initCalled *bool
}

func (m *trackingModule) Init(deps ModuleDependencies) error {
	*m.initCalled = true
	return m.stubModule.Init(deps)
}
