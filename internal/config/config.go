package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings shelf runs with.
type Config struct {
	APIURL         string
	LogFile        string
	LogLevel       string
	RefreshSeconds int // zero disables auto refresh
}

const (
	defaultConfigPath = "~/.config/shelf/config.toml"
	defaultLogFile    = "~/.local/state/shelf/shelf.log"
	defaultLogLevel   = "info"
	defaultAPIURL     = "https://ivy-ios-challenge.herokuapp.com"

	envFile = ".env"
)

// Environment variables that override the config file.
const (
	EnvAPIURL         = "SHELF_API_URL"
	EnvLogFile        = "SHELF_LOG_FILE"
	EnvLogLevel       = "SHELF_LOG_LEVEL"
	EnvRefreshSeconds = "SHELF_REFRESH_SECONDS"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:   defaultAPIURL,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
	}
}

// Load reads the config file at path (or the default location), then applies
// .env and environment overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		RefreshSeconds int    `toml:"refresh_seconds"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	env, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}
	if v, ok := lookup(EnvAPIURL); ok {
		raw.APIURL = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		raw.LogFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		raw.LogLevel = v
	}
	if v, ok := lookup(EnvRefreshSeconds); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvRefreshSeconds, err)
		}
		raw.RefreshSeconds = n
	}

	cfg := Default()
	if s := strings.TrimSpace(raw.APIURL); s != "" {
		cfg.APIURL = s
	}
	if s := strings.TrimSpace(raw.LogFile); s != "" {
		cfg.LogFile = mustExpand(s)
	}
	if s := strings.ToLower(strings.TrimSpace(raw.LogLevel)); s != "" {
		cfg.LogLevel = s
	}
	cfg.RefreshSeconds = raw.RefreshSeconds

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values that cannot be defaulted.
func (c Config) Validate() error {
	if err := validateURL(c.APIURL); err != nil {
		return err
	}
	if !isLogLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q: want one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.RefreshSeconds < 0 {
		return fmt.Errorf("refresh_seconds %d: must not be negative", c.RefreshSeconds)
	}
	return nil
}

// RefreshInterval converts RefreshSeconds; zero means disabled.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RefreshSeconds) * time.Second
}

func validateURL(raw string) error {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return fmt.Errorf("api_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url %q: missing host", raw)
	}
	return nil
}

func isLogLevel(level string) bool {
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
