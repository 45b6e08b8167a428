package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"UnlockGrowth Intake"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
		// Origins of the browser front-end allowed to call the API.
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Webhook struct {
		URL     string        `envconfig:"WEBHOOK_URL"`
		Timeout time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"60s"`
		// Submissions forwarded per minute; zero disables the limit.
		RatePerMinute int `envconfig:"WEBHOOK_RATE_PER_MINUTE" default:"30"`
	}

	Session struct {
		IdleTTL       time.Duration `envconfig:"SESSION_IDLE_TTL" default:"2h"`
		SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
