package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Storage StorageConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout string
	// RateLimit is the maximum requests per second; 0 disables limiting.
	RateLimit float64
	Token     string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:5000/api",
			Timeout:   "30s",
			RateLimit: 10,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// TimeoutDuration parses API.Timeout, falling back to 30s when it is invalid.
func (c APIConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// SlogLevel maps Log.Level onto a slog level. Unknown values mean info.
func (c LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// DotEnvFile is read from the working directory before the environment is
// consulted. Variables already set in the process environment win.
var DotEnvFile = ".env"

// Load reads configuration from the platform-native backend, a .env file,
// environment variables, and the platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.careernav.cli) and the
// API token lives in the Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/careernav/config.json
// and the token is kept in $XDG_DATA_HOME/careernav/secrets.json.
//
// Environment variables (CAREERNAV_*) override backend values on all platforms.
// A missing token is not an error; commands that need one ask for login.
func Load() (Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return Config{}, err
	}
	return loadWith(newPlatformBackend(), platformSecrets{})
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func loadWith(b ConfigBackend, secrets SecretStore) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.API.Token == "" {
		if tok, err := secrets.Get(secretService, tokenAccount); err == nil && tok != "" {
			cfg.API.Token = tok
		}
	}

	return cfg, nil
}
