package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/itsuki/garden/pkg/gallery"
	"github.com/itsuki/garden/pkg/gallery/sink"
	"github.com/itsuki/garden/pkg/observability"
)

// Render produces every requested format concurrently. An empty gallery
// yields empty HTML and SVG artifacts and a JSON document with no cells.
func Render(ctx context.Context, records []gallery.ImageRecord, l gallery.Layout, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if err := opts.checkFocus(len(records)); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(records, l, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// renderFormat builds its own navigator so concurrent formats never share
// state.
func renderFormat(records []gallery.ImageRecord, l gallery.Layout, format string, opts Options) ([]byte, error) {
	focus := opts.FocusIndex()

	switch format {
	case FormatHTML:
		nav := gallery.NewNavigator(gallery.Images(records))
		defer nav.Close()
		nav.Activate(focus)

		htmlOpts := []sink.HTMLOption{
			sink.WithNavigator(nav),
			sink.WithBreakpoints(opts.Breakpoints),
		}
		if opts.ActionBase != "" {
			htmlOpts = append(htmlOpts, sink.WithActionBase(opts.ActionBase))
		}
		if opts.Script {
			htmlOpts = append(htmlOpts, sink.WithScript())
		}
		return sink.RenderHTML(records, l, htmlOpts...), nil
	case FormatSVG:
		return sink.RenderSVG(records, l, sink.WithFocus(focus)), nil
	case FormatJSON:
		return sink.RenderJSON(records, l, sink.WithJSONFocus(focus))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
