// Package config loads the rocktower configuration file.
//
// The file is TOML and optional: a missing file yields [Default]. Values
// set in the file override the defaults, and command-line flags override
// the file.
//
//	[simulation]
//	rocks = 1000000000000
//	mode = "extrapolate"
//	surface_depth = 64
//
//	[cache]
//	backend = "redis"
//	ttl = "720h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[history]
//	backend = "mongo"
//	limit = 200
//
//	[history.mongo]
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rocktower/pkg/errors"
)

// AppName names the configuration, cache and data directories.
const AppName = "rocktower"

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Duration is a time.Duration that decodes from strings like "720h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Simulation Simulation `toml:"simulation"`
	Cache      Cache      `toml:"cache"`
	History    History    `toml:"history"`
	Server     Server     `toml:"server"`
}

// Simulation holds defaults for simulate runs.
type Simulation struct {
	Rocks        int64  `toml:"rocks"`
	Mode         string `toml:"mode"`
	SurfaceDepth int    `toml:"surface_depth"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	Redis   Redis    `toml:"redis"`
}

// Redis configures the Redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// History selects and configures the run history.
type History struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Limit   int    `toml:"limit"`
	Mongo   Mongo  `toml:"mongo"`
}

// Mongo configures the MongoDB history backend.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API. RequestTimeout bounds the work done for
// one request and must stay below WriteTimeout so the error still reaches
// the client.
type Server struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Default returns the built-in configuration. Directories are left empty
// and resolved by the caller.
func Default() Config {
	return Config{
		Simulation: Simulation{
			Rocks:        2022,
			Mode:         "extrapolate",
			SurfaceDepth: 64,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{30 * 24 * time.Hour},
			Redis:   Redis{Addr: "localhost:6379"},
		},
		History: History{
			Backend: BackendFile,
			Limit:   100,
			Mongo:   Mongo{Database: "rocktower", Collection: "runs"},
		},
		Server: Server{
			Addr:           ":8080",
			ReadTimeout:    Duration{10 * time.Second},
			WriteTimeout:   Duration{2 * time.Minute},
			RequestTimeout: Duration{time.Minute},
		},
	}
}

// Load reads the file at path on top of the defaults. An empty path selects
// [DefaultPath]; a missing default file is not an error, a missing explicit
// file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be fixed by defaults.
func (c Config) Validate() error {
	if c.Simulation.Rocks != 0 {
		if err := errors.ValidateRockCount(c.Simulation.Rocks); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "simulation.rocks")
		}
	}
	if c.Simulation.Mode != "" {
		if err := errors.ValidateMode(c.Simulation.Mode, "exact", "extrapolate"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "simulation.mode")
		}
	}
	if c.Simulation.SurfaceDepth != 0 {
		if err := errors.ValidateSurfaceDepth(c.Simulation.SurfaceDepth); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "simulation.surface_depth")
		}
	}
	if err := errors.ValidateBackend("cache", c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return err
	}
	if err := errors.ValidateBackend("history", c.History.Backend, BackendFile, BackendMongo, BackendNone); err != nil {
		return err
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.History.Backend == BackendMongo && c.History.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "history.mongo.uri is required for the mongo backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.History.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "history.limit must not be negative")
	}
	if c.Server.RequestTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.request_timeout must not be negative")
	}
	if w := c.Server.WriteTimeout.Duration; w > 0 && c.Server.RequestTimeout.Duration >= w {
		return errors.New(errors.ErrCodeInvalidConfig, "server.request_timeout must be shorter than server.write_timeout")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/rocktower/config.toml, falling back
// to ~/.config/rocktower/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory: the configured one, or the XDG
// cache home (~/.cache/rocktower).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// HistoryDir returns the run history directory: the configured one, or the
// XDG data home (~/.local/share/rocktower/history).
func (c Config) HistoryDir() (string, error) {
	if c.History.Dir != "" {
		return c.History.Dir, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
