package content

import (
	"bytes"
	"context"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/observability"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote, emoji.Emoji),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderMarkdown converts a Markdown body to HTML. Raw HTML in the source
// is omitted.
func RenderMarkdown(src string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render markdown")
	}
	return buf.Bytes(), nil
}

// Renderer renders entry bodies through a cache keyed by collection and
// body digest.
type Renderer struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRenderer returns a Renderer. A nil cache disables caching.
func NewRenderer(c cache.Cache, k cache.Keyer, logger *log.Logger) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{Cache: c, Keyer: k, Logger: logger}
}

// Render returns the entry body as HTML.
func (r *Renderer) Render(ctx context.Context, e Entry) ([]byte, error) {
	key := r.Keyer.ContentKey(string(e.Collection), cache.Hash([]byte(e.Body)))

	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	case hit:
		observability.Cache().OnCacheHit(ctx, "content")
		return data, nil
	default:
		observability.Cache().OnCacheMiss(ctx, "content")
	}

	html, err := RenderMarkdown(e.Body)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, html, cache.ContentTTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "content", len(html))
	}
	return html, nil
}
