package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Load reads the TOML config at path and applies environment overrides.
// A missing config file is not an error: the service can run entirely from
// defaults plus environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Web      WebConfig      `toml:"web"`
	DB       DBConfig       `toml:"db"`
	Raindrop RaindropConfig `toml:"raindrop"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	CookieName  string `toml:"cookie_name"`
}

type DBConfig struct {
	Driver       string `toml:"driver"` // "postgres" or "sqlite"
	URL          string `toml:"url"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
	Path         string `toml:"path"` // sqlite only
}

// RaindropConfig holds the SmartInference endpoint settings. When URL or key
// is empty the engine skips delegation and generates quests locally.
type RaindropConfig struct {
	APIURL         string `toml:"api_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Environment: "development",
			CookieName:  "ch_session",
		},
		DB: DBConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			PoolSize: 10,
		},
		Raindrop: RaindropConfig{TimeoutSeconds: 15},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RAINDROP_API_URL"); v != "" {
		c.Raindrop.APIURL = v
	}
	if v := os.Getenv("RAINDROP_API_KEY"); v != "" {
		c.Raindrop.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DB.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Web.Port = port
		}
	}
}
