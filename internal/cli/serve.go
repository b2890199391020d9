package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsuki/garden/internal/server"
	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/session"
)

type serveFlags struct {
	addr     string
	manifest string
	content  string
	site     string
	sessions string
	noCache  bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the preview server.

The server renders the gallery at /gallery with a lightbox that works without
script, serves the content collections under /content/{collection} and the
study tools under /tools. Flags override the [server] section of the config.

The gallery comes from --manifest when given, otherwise from the photos
collection of the content directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "gallery manifest")
	cmd.Flags().StringVar(&f.content, "content", "", "content directory")
	cmd.Flags().StringVar(&f.site, "site", "", "site config (site-config.yaml)")
	cmd.Flags().StringVar(&f.sessions, "sessions", "", "session store: memory, file, cache")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, f serveFlags) error {
	cfg := c.Config
	override(&cfg.Server.Addr, f.addr)
	override(&cfg.Server.Manifest, f.manifest)
	override(&cfg.Server.Content, f.content)
	override(&cfg.Server.Site, f.site)
	override(&cfg.Server.Sessions, f.sessions)
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if _, null := runner.Cache.(cache.NullCache); null && cfg.Server.Sessions == config.SessionsCache {
		c.Logger.Warn("sessions use the cache but caching is disabled; visitors will lose their place")
	}
	sessions, err := newSessionStore(cfg.Server, runner.Cache, runner.Keyer)
	if err != nil {
		return fmt.Errorf("initialize sessions: %w", err)
	}

	srv := server.New(server.Options{
		Config:   cfg,
		Site:     config.LoadSite(cfg.Server.Site, c.Logger),
		Runner:   runner,
		Sessions: sessions,
		Logger:   c.Logger,
	})

	printInfo("Serving on %s", displayAddr(cfg.Server.Addr))
	printDetail("Sessions: %s", cfg.Server.Sessions)
	printNewline()
	return srv.ListenAndServe(ctx)
}

func newSessionStore(cfg config.Server, c cache.Cache, k cache.Keyer) (session.Store, error) {
	switch cfg.Sessions {
	case config.SessionsFile:
		return session.NewFileStore(cfg.SessionDir)
	case config.SessionsCache:
		return session.NewCacheStore(c, k), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

// override replaces *dst with v when the flag was set.
func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// displayAddr turns ":8080" into a clickable URL.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
