package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

func TestDefault(t *testing.T) {
	t.Setenv("EXTRAS_MANIFEST", "")
	cfg := Default()
	if cfg.Manifest != "extra-requirements.txt" {
		t.Errorf("Manifest = %q", cfg.Manifest)
	}
	if cfg.Format != "text" || cfg.Cache.Backend != BackendFile || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultFromEnv(t *testing.T) {
	t.Setenv("EXTRAS_MANIFEST", "other.txt")
	t.Setenv("EXTRAS_REDIS_ADDR", "redis:6380")
	cfg := Default()
	if cfg.Manifest != "other.txt" || cfg.Cache.RedisAddr != "redis:6380" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != filepath.Join("/tmp/xdg", "extras", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
manifest = "reqs/extras.txt"
default_tags = ["core", "test"]
format = "json"
strict = true

[cache]
backend = "redis"
ttl = "2h"
redis_addr = "cache:6379"
prefix = "jina:"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Manifest != "reqs/extras.txt" || !cfg.Strict || cfg.Format != "json" {
		t.Errorf("top-level keys not loaded: %+v", cfg)
	}
	if !slices.Equal(cfg.DefaultTags, []string{"core", "test"}) {
		t.Errorf("DefaultTags = %v", cfg.DefaultTags)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL.Duration != 2*time.Hour || cfg.Cache.Prefix != "jina:" {
		t.Errorf("cache section not loaded: %+v", cfg.Cache)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	t.Setenv("EXTRAS_MANIFEST", "")
	cfg, err := Load(writeConfig(t, `format = "yaml"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "yaml" {
		t.Errorf("Format = %q", cfg.Format)
	}
	if cfg.Manifest != "extra-requirements.txt" || cfg.Cache.TTL.Duration == 0 {
		t.Errorf("unset keys should keep defaults: %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Errorf("missing default config should not fail: %v", err)
	}

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `manifest = `},
		{"unknown key", `colour = "blue"`},
		{"bad format", `format = "xml"`},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
		{"bad tag", `default_tags = ["a b"]`},
		{"colon in tag", `default_tags = ["a:b"]`},
		{"empty manifest", `manifest = ""`},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.DefaultTags = []string{"core"}
	want.Cache.TTL = Duration{90 * time.Minute}

	if err := want.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Cache.TTL != want.Cache.TTL || !slices.Equal(got.DefaultTags, want.DefaultTags) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load(example) error: %v", err)
	}
	if cfg.Format != "requirements" || cfg.Cache.Prefix != "example" || cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("unexpected example config %+v", cfg)
	}
	if !slices.Equal(cfg.DefaultTags, []string{"core"}) {
		t.Errorf("DefaultTags = %v", cfg.DefaultTags)
	}
}
