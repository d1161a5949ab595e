package player

// Config holds the player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`

	// StreamGatewayURL points at the service that turns provider sessions
	// into plain HTTP audio. Optional; without it only direct URLs play.
	StreamGatewayURL string `env:"STREAM_GATEWAY_URL"`

	InitialVolume int  `env:"PLAYER_INITIAL_VOLUME" envDefault:"100"`
	AllowLive     bool `env:"PLAYER_ALLOW_LIVE" envDefault:"true"`
	SelfDeaf      bool `env:"PLAYER_SELF_DEAF" envDefault:"true"`
}
