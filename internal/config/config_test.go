package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at temp dirs and clears the
// SHELF_* variables so the caller's environment cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, key := range []string{EnvAPIURL, EnvLogFile, EnvLogLevel, EnvRefreshSeconds} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.LogLevel != "info" || cfg.RefreshSeconds != 0 || cfg.RefreshInterval() != 0 {
		t.Fatalf("cfg = %#v, want info level and refresh disabled", cfg)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
api_url = "  http://10.0.0.5:9999  "
log_file = "  ~/logs/shelf.log  "
log_level = " DEBUG "
refresh_seconds = 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9999")
	}
	if cfg.LogFile != filepath.Join(home, "logs", "shelf.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RefreshInterval() != 30*time.Second {
		t.Fatalf("RefreshInterval = %v, want 30s", cfg.RefreshInterval())
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
api_url = "   "
log_file = ""
log_level = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %#v, want defaults %#v", cfg, Default())
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `api_url = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	cases := map[string]string{
		"scheme":  `api_url = "ftp://example.com"`,
		"host":    `api_url = "http://"`,
		"level":   `log_level = "loud"`,
		"refresh": `refresh_seconds = -1`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), "parse config") {
				t.Fatalf("Load error = %v, want parse config error", err)
			}
		})
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
api_url = "http://from-file:1"
refresh_seconds = 5
`)
	t.Setenv(EnvAPIURL, "http://from-env:2")
	t.Setenv(EnvRefreshSeconds, "12")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://from-env:2" || cfg.RefreshSeconds != 12 || cfg.LogLevel != "warn" {
		t.Fatalf("cfg = %#v, want environment values", cfg)
	}
}

func TestLoad_DotEnvAppliesBelowEnvironment(t *testing.T) {
	home := isolate(t)

	writeFile(t, envFile, "SHELF_API_URL=http://from-dotenv:3\nSHELF_LOG_FILE=~/dotenv.log\n")
	t.Setenv(EnvLogFile, "~/env.log")

	cfg, err := Load(filepath.Join(home, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://from-dotenv:3" {
		t.Fatalf("APIURL = %q, want value from .env", cfg.APIURL)
	}
	if cfg.LogFile != filepath.Join(home, "env.log") {
		t.Fatalf("LogFile = %q, want environment to win over .env", cfg.LogFile)
	}
}

func TestLoad_BadRefreshEnvFails(t *testing.T) {
	home := isolate(t)
	t.Setenv(EnvRefreshSeconds, "soon")

	_, err := Load(filepath.Join(home, "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), EnvRefreshSeconds) {
		t.Fatalf("Load error = %v, want %s parse error", err, EnvRefreshSeconds)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
