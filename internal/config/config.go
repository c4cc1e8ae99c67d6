package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"storage"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Refresh struct {
		Cron string `yaml:"cron"`
	} `yaml:"refresh"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case "":
		cfg.Storage.Driver = "sqlite"
	case "sqlite", "redis", "memory":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Driver == "sqlite" {
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = "data/timetable.db"
		}
		if err = os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, err
		}
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}

	if cfg.Refresh.Cron == "" {
		// Once a day past midnight, so the rolling two-week arming
		// window keeps moving.
		cfg.Refresh.Cron = "5 0 * * *"
	}

	return &cfg, nil
}
