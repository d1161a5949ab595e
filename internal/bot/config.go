package bot

import (
	"github.com/caarlos0/env/v11"
)

// Config is the host-level configuration. Module-specific settings live with
// the modules themselves (see ConfigurableModule).
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
}

// LoadConfig reads Config from the environment. A missing DISCORD_TOKEN is an
// error.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
