// Package config loads the extras configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/extras/config.toml unless a
// path is given explicitly:
//
//	manifest     = "extra-requirements.txt"
//	default_tags = ["core"]
//	format       = "requirements"
//	strict       = false
//
//	[cache]
//	backend    = "file"      # file, redis or none
//	ttl        = "168h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
// Precedence is flags, then environment (EXTRAS_MANIFEST, EXTRAS_REDIS_ADDR),
// then the file, then [Default].
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hiroksarker/jina/pkg/cache"
	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/render"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the on-disk configuration.
type Config struct {
	Manifest    string   `toml:"manifest"`
	DefaultTags []string `toml:"default_tags"`
	Format      string   `toml:"format"`
	Strict      bool     `toml:"strict"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
}

// ServerConfig configures `extras serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Manifest: getEnvOrDefault("EXTRAS_MANIFEST", manifest.DefaultFilename),
		Format:   render.DefaultFormat,
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{cache.DefaultTTL},
			RedisAddr: getEnvOrDefault("EXTRAS_REDIS_ADDR", "localhost:6379"),
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "extras", "config.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "extras", "config.toml")
	}
	return filepath.Join(".", ".extras.toml")
}

// Load reads the file at path over [Default]. A missing file at the default
// location is not an error; a missing file that was asked for explicitly is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist):
		return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config not found: %s", path)
	case err != nil:
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks the configuration for values no command could use.
func (c *Config) Validate() error {
	if c.Manifest == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "manifest cannot be empty")
	}
	for _, t := range c.DefaultTags {
		if err := errs.ValidateTag(t); err != nil {
			return err
		}
	}
	if err := render.ValidateFormat(c.Format); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "invalid cache backend: %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	return nil
}

// Write encodes the configuration as TOML at path, creating parent
// directories as needed.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
