// Package config loads garden's two configuration files.
//
// garden.toml configures the tool itself: gallery layout defaults, the cache
// backend and the preview server. A missing file is not an error; every
// field has a default.
//
//	[gallery]
//	viewport = 1280
//	gutter = 16
//	formats = ["html", "json"]
//
//	[gallery.breakpoints]
//	small = 640
//	medium = 768
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	manifest = "photos.yaml"
//	content = "content"
//	sessions = "file"
//
// site-config.yaml describes the site (brand, navigation, UI dictionary); see
// [Site].
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/gallery"
)

// DefaultFile is looked up in the working directory when --config is unset.
const DefaultFile = "garden.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

var backends = []string{BackendFile, BackendNone, BackendRedis, BackendMongo}

// Session stores for the preview server. "cache" keeps sessions in the
// configured cache backend.
const (
	SessionsMemory = "memory"
	SessionsFile   = "file"
	SessionsCache  = "cache"
)

var sessionStores = []string{SessionsMemory, SessionsFile, SessionsCache}

// Config is the parsed garden.toml.
type Config struct {
	Gallery Gallery `toml:"gallery"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
	Tools   Tools   `toml:"tools"`
}

type Gallery struct {
	Viewport      float64             `toml:"viewport"`
	Gutter        float64             `toml:"gutter"`
	FallbackRatio float64             `toml:"fallback_ratio"`
	Breakpoints   gallery.Breakpoints `toml:"breakpoints"`
	Formats       []string            `toml:"formats"`
}

type Cache struct {
	Backend string `toml:"backend"`
	// Dir overrides the XDG cache directory for the file backend.
	Dir             string `toml:"dir"`
	RedisURL        string `toml:"redis_url"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
	// Prefix scopes keys when several sites share one backend.
	Prefix string `toml:"prefix"`
}

type Server struct {
	Addr     string   `toml:"addr"`
	Manifest string   `toml:"manifest"`
	Content  string   `toml:"content"`
	Site     string   `toml:"site"`
	Timeout  Duration `toml:"timeout"`
	Sessions string   `toml:"sessions"`
	// SessionDir overrides ~/.config/garden/sessions for the file store.
	SessionDir string `toml:"session_dir"`
}

// Tools sets the simulated latencies of the study tools.
type Tools struct {
	GenerateDelay Duration `toml:"generate_delay"`
	ScriptDelay   Duration `toml:"script_delay"`
	RecordDelay   Duration `toml:"record_delay"`
	EvaluateDelay Duration `toml:"evaluate_delay"`
}

// Duration decodes TOML strings like "1.5s".
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
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Gallery: Gallery{
			Viewport:      gallery.DefaultViewport,
			Gutter:        gallery.DefaultGutter,
			FallbackRatio: gallery.DefaultFallbackRatio,
			Breakpoints:   gallery.DefaultBreakpoints(),
			Formats:       []string{"html"},
		},
		Cache: Cache{
			Backend:         BackendFile,
			MongoDatabase:   "garden",
			MongoCollection: "cache",
		},
		Server: Server{
			Addr:     ":8080",
			Content:  "content",
			Site:     "site-config.yaml",
			Timeout:  Duration{30 * time.Second},
			Sessions: SessionsMemory,
		},
		Tools: Tools{
			GenerateDelay: Duration{1500 * time.Millisecond},
			ScriptDelay:   Duration{time.Second},
			RecordDelay:   Duration{3 * time.Second},
			EvaluateDelay: Duration{2 * time.Second},
		},
	}
}

// Load reads path over the defaults. When path is empty, DefaultFile is
// tried and silently skipped if absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML over base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", DefaultFile)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if c.Gallery.Viewport < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gallery.viewport must not be negative")
	}
	if !c.Gallery.Breakpoints.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "gallery.breakpoints must satisfy 0 < small <= medium, got %g/%g",
			c.Gallery.Breakpoints.Small, c.Gallery.Breakpoints.Medium)
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of %v", c.Cache.Backend, backends)
	}
	if !slices.Contains(sessionStores, c.Server.Sessions) {
		return errors.New(errors.ErrCodeInvalidConfig, "server.sessions %q must be one of %v", c.Server.Sessions, sessionStores)
	}
	return nil
}
