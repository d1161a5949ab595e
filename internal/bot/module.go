package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler answers a single slash-command interaction through the
// supplied Responder.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is a gateway event handler. The value must match one of
// discordgo's handler signatures, e.g.
// func(s *discordgo.Session, m *discordgo.MessageCreate).
type EventHandler any

// ModuleDependencies is what the host hands each module at Init time. The
// session is already connected, so modules may read gateway state.
type ModuleDependencies struct {
	Session *discordgo.Session
}

// Module is a self-contained feature unit: it declares its slash commands,
// maps them to handlers, and manages its own lifecycle.
type Module interface {
	// Name identifies the module in logs.
	Name() string

	// Commands lists the slash commands the module wants registered.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers maps command names to their handlers.
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers lists gateway handlers to attach, or nil.
	EventHandlers() []EventHandler

	Init(deps ModuleDependencies) error
	Shutdown() error
}

// ConfigurableModule marks a module that reads its own environment
// configuration. The host calls LoadConfig before Init and aborts startup on
// error, so a misconfigured module fails fast instead of half-running.
type ConfigurableModule interface {
	LoadConfig() error
}
