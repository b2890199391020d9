package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/observability"
	"github.com/itsuki/garden/pkg/pipeline"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Config.Cache.Dir = t.TempDir()
	c.Config.Tools = config.Tools{}
	return c
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	want := []string{"gallery", "browse", "content", "tools", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garden.toml")
	data := "[cache]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(observability.Reset)
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "path"})
	var out bytes.Buffer
	root.SetOut(&out)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", got)
	}
}

func TestRootCommandMissingConfig(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.toml"), "cache", "path"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI(t)

	ch, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T", ch)
	}

	ch, _ = c.newCache(ctx, true)
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("--no-cache gave %T", ch)
	}

	c.Config.Cache.Backend = config.BackendNone
	ch, _ = c.newCache(ctx, false)
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("none backend gave %T", ch)
	}
}

func TestNewKeyerPrefix(t *testing.T) {
	c := newTestCLI(t)
	plain := c.newKeyer().SessionKey("id")

	c.Config.Cache.Prefix = "site:a:"
	scoped := c.newKeyer().SessionKey("id")
	if scoped != "site:a:"+plain {
		t.Errorf("scoped key = %q, want prefix on %q", scoped, plain)
	}
}

func TestParseFormats(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Gallery.Formats = []string{pipeline.FormatJSON}

	tests := []struct {
		in   string
		want string
	}{
		{"", "json"},
		{"html", "html"},
		{"html, svg,,json", "html,svg,json"},
	}
	for _, tt := range tests {
		if got := strings.Join(c.parseFormats(tt.in), ","); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Gallery.Viewport = 900
	c.Config.Gallery.Gutter = 8

	opts := c.pipelineOptions()
	if opts.Viewport != 900 || opts.Gutter != 8 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Logger != c.Logger {
		t.Error("options should carry the CLI logger")
	}
}
