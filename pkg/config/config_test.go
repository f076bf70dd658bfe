package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/rocktower/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[simulation]
rocks = 1000000000000
mode = "exact"

[cache]
backend = "redis"
ttl = "1h30m"

[cache.redis]
addr = "redis:6379"
prefix = "rt:"

[history]
backend = "none"

[server]
addr = ":9090"
read_timeout = "5s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Rocks != 1_000_000_000_000 || cfg.Simulation.Mode != "exact" {
		t.Errorf("simulation = %+v", cfg.Simulation)
	}
	if cfg.Simulation.SurfaceDepth != 64 {
		t.Errorf("unset values should keep defaults, surface_depth = %d", cfg.Simulation.SurfaceDepth)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.Prefix != "rt:" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("cache.ttl = %v", cfg.Cache.TTL)
	}
	if cfg.History.Backend != BackendNone {
		t.Errorf("history.backend = %q", cfg.History.Backend)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout.Duration != 2*time.Minute {
		t.Errorf("server.write_timeout should keep its default, got %v", cfg.Server.WriteTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[simulation\nrocks = 1", errors.ErrCodeInvalidConfig},
		{"bad duration", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidConfig},
		{"unknown key", "[simulation]\nspeed = 3", errors.ErrCodeInvalidConfig},
		{"bad mode", "[simulation]\nmode = \"guess\"", errors.ErrCodeInvalidConfig},
		{"bad rocks", "[simulation]\nrocks = -1", errors.ErrCodeInvalidConfig},
		{"bad depth", "[simulation]\nsurface_depth = 999", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "[history]\nbackend = \"mongo\"", errors.ErrCodeInvalidConfig},
		{"negative limit", "[history]\nlimit = -1", errors.ErrCodeInvalidConfig},
		{"request outlives write", "[server]\nrequest_timeout = \"5m\"", errors.ErrCodeInvalidConfig},
		{"negative request timeout", "[server]\nrequest_timeout = \"-1s\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	// An explicit path must exist
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}

	// The default path may be missing
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") with no file: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing default file should yield Default(), got %+v", cfg)
	}
}

func TestDefaultPathAndDirs(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	path, err := DefaultPath()
	if err != nil || path != filepath.Join(base, "config", AppName, "config.toml") {
		t.Errorf("DefaultPath() = %q, %v", path, err)
	}

	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != filepath.Join(base, "cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
	if dir, _ := cfg.HistoryDir(); dir != filepath.Join(base, "data", AppName, "history") {
		t.Errorf("HistoryDir() = %q", dir)
	}

	cfg.Cache.Dir = "/tmp/explicit"
	if dir, _ := cfg.CacheDir(); dir != "/tmp/explicit" {
		t.Errorf("configured cache dir should win, got %q", dir)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("2h")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 2*time.Hour {
		t.Errorf("Duration = %v", d.Duration)
	}
	text, _ := d.MarshalText()
	if string(text) != "2h0m0s" {
		t.Errorf("MarshalText = %s", text)
	}
}
