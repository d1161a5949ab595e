package player

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/bot"
	"github.com/hizuru/quaver/internal/modules/player/application/usecases"
	"github.com/hizuru/quaver/internal/modules/player/domain"
	"github.com/hizuru/quaver/internal/modules/player/infrastructure"
	"github.com/hizuru/quaver/internal/modules/player/presentation"
)

func init() {
	bot.Register(&PlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*PlayerModule)(nil)

// PlayerModule provides per-guild playback queues and the commands that
// drive them.
type PlayerModule struct {
	config   *Config
	handlers *presentation.Handlers

	registry *usecases.Registry
	eventBus *infrastructure.ChannelEventBus
	searcher *infrastructure.LavalinkSearcher
}

// Name returns the module name.
func (m *PlayerModule) Name() string {
	return "player"
}

// Commands returns the slash commands for this module.
func (m *PlayerModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *PlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":       m.handlers.HandleJoin,
		"leave":      m.handlers.HandleLeave,
		"play":       m.handlers.HandlePlay,
		"skip":       m.handlers.HandleSkip,
		"pause":      m.handlers.HandlePause,
		"resume":     m.handlers.HandleResume,
		"seek":       m.handlers.HandleSeek,
		"volume":     m.handlers.HandleVolume,
		"bitrate":    m.handlers.HandleBitrate,
		"repeat":     m.handlers.HandleRepeat,
		"queue":      m.handlers.HandleQueue,
		"nowplaying": m.handlers.HandleNowPlaying,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *PlayerModule) EventHandlers() []bot.EventHandler {
	return nil
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *PlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *PlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		slog.Warn("player module initialized without session, playback disabled")
		return m.initWithoutDiscord()
	}
	return m.initWithDiscord(deps)
}

func (m *PlayerModule) initWithoutDiscord() error {
	// Wire the registry without transports so the module can load; playback
	// calls fail at runtime.
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)
	m.registry = usecases.NewRegistry(nil, nil, m.eventBus, m.defaultOptions())
	m.handlers = presentation.NewHandlers(m.registry, usecases.NewSearchService(nil), nil, nil)
	return nil
}

func (m *PlayerModule) initWithDiscord(deps bot.ModuleDependencies) error {
	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return err
	}

	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	searcher, err := infrastructure.NewLavalinkSearcher(
		context.Background(),
		botID,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
		},
	)
	if err != nil {
		return err
	}
	m.searcher = searcher

	var opener infrastructure.SessionOpener
	if m.config.StreamGatewayURL != "" {
		opener = infrastructure.NewHTTPSessionOpener(m.config.StreamGatewayURL, nil)
	}

	transport := infrastructure.NewDiscordVoiceTransport(deps.Session)
	resolver := infrastructure.NewDCAStreamResolver(nil, opener)
	m.registry = usecases.NewRegistry(transport, resolver, m.eventBus, m.defaultOptions())

	notifier := infrastructure.NewNotifier(deps.Session)
	notifier.Register(m.eventBus)

	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	search := usecases.NewSearchService(searcher)

	m.handlers = presentation.NewHandlers(m.registry, search, voiceState, notifier)

	slog.Info("player module initialized")

	return nil
}

func (m *PlayerModule) defaultOptions() domain.Options {
	options := domain.DefaultOptions()
	options.InitialVolume = m.config.InitialVolume
	options.EnableLive = m.config.AllowLive
	options.AutoSelfDeaf = m.config.SelfDeaf
	return options
}

// Shutdown cleans up module resources.
func (m *PlayerModule) Shutdown() error {
	if m.registry != nil {
		m.registry.Shutdown()
	}
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.searcher != nil {
		m.searcher.Close()
	}
	return nil
}
