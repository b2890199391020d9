package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/gallery"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Gallery.Breakpoints != gallery.DefaultBreakpoints() {
		t.Errorf("Breakpoints = %+v", cfg.Gallery.Breakpoints)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %s", cfg.Cache.Backend)
	}
	if cfg.Tools.GenerateDelay.Duration != 1500*time.Millisecond {
		t.Errorf("GenerateDelay = %s", cfg.Tools.GenerateDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[gallery]
viewport = 1280
formats = ["html", "svg"]

[gallery.breakpoints]
small = 500

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"

[server]
addr = "127.0.0.1:9000"
timeout = "5s"
sessions = "cache"

[tools]
generate_delay = "10ms"
`)
	cfg, err := Parse(data, Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Gallery.Viewport != 1280 {
		t.Errorf("Viewport = %g", cfg.Gallery.Viewport)
	}
	if cfg.Gallery.Breakpoints.Small != 500 || cfg.Gallery.Breakpoints.Medium != gallery.DefaultMediumBreakpoint {
		t.Errorf("Breakpoints = %+v, want small overridden and medium kept", cfg.Gallery.Breakpoints)
	}
	if cfg.Gallery.Gutter != gallery.DefaultGutter {
		t.Errorf("Gutter = %g, want default", cfg.Gallery.Gutter)
	}
	if len(cfg.Gallery.Formats) != 2 {
		t.Errorf("Formats = %v", cfg.Gallery.Formats)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisURL == "" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Server.Timeout)
	}
	if cfg.Server.Sessions != SessionsCache {
		t.Errorf("Sessions = %q", cfg.Server.Sessions)
	}
	if cfg.Tools.GenerateDelay.Duration != 10*time.Millisecond {
		t.Errorf("GenerateDelay = %s", cfg.Tools.GenerateDelay)
	}
	if cfg.Tools.ScriptDelay.Duration != time.Second {
		t.Errorf("ScriptDelay = %s, want default", cfg.Tools.ScriptDelay)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[gallery\nviewport = 1"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"breakpoints", "[gallery.breakpoints]\nsmall = 900\nmedium = 600"},
		{"duration", "[tools]\ngenerate_delay = \"soon\""},
		{"sessions", "[server]\nsessions = \"cookie\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), Default())
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	// absent default file is fine
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %s", cfg.Server.Addr)
	}

	// absent explicit file is not
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}

	if err := os.WriteFile(DefaultFile, []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %s", cfg.Server.Addr)
	}
}
