package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"GestLoc"`
	}

	API struct {
		// One configurable base URL instead of a host hardcoded at every
		// call site.
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:3001"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}

	Session struct {
		Path string `envconfig:"SESSION_PATH"`
	}

	DevServer struct {
		Port int `envconfig:"DEVSERVER_PORT" default:"3001"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Session.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}

		cfg.Session.Path = filepath.Join(home, ".gestloc", "session.json")
	}

	return &cfg, nil
}
