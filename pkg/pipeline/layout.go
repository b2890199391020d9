package pipeline

import (
	"context"
	"time"

	"github.com/itsuki/garden/pkg/gallery"
	"github.com/itsuki/garden/pkg/observability"
)

// GenerateLayout computes the masonry layout and reports it to the pipeline
// hooks.
func GenerateLayout(ctx context.Context, records []gallery.ImageRecord, opts Options) gallery.Layout {
	opts.SetLayoutDefaults()

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(records))
	start := time.Now()

	l := gallery.ComputeLayout(records, opts.LayoutOptions())

	hooks.OnLayoutComplete(ctx, l.Columns, time.Since(start), nil)
	return l
}
