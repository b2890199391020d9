// Package pkg provides the libraries behind garden, a personal site's photo
// gallery, content collections and Japanese study tools.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. [gallery] - Masonry layout and the lightbox navigator
//  2. [content] - Typed content collections loaded from Markdown, YAML and JSON
//  3. [tools] - The flashcard generator and reading coach demos
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//
// Supporting packages: [cache] (file, Redis and MongoDB backends), [session]
// (lightbox state per visitor), [config] (TOML and site YAML), [errors],
// [observability] hooks, [httputil] and [buildinfo].
//
// # Architecture
//
// The typical data flow for a gallery:
//
//	Manifest (JSON/YAML) or photos collection
//	         ↓
//	    [pipeline.Load] (parse + normalize records)
//	         ↓
//	    [gallery.ComputeLayout] (balanced columns for a viewport)
//	         ↓
//	    [gallery/sink] (HTML, SVG, JSON)
//
// The CLI and the preview server share one [pipeline.Runner], so a layout
// computed for `garden gallery render` is served from the cache by
// `garden serve`.
//
// # Quick Start
//
// Lay out a manifest and render it:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest: "photos.yaml",
//	    Viewport: 1280,
//	    Formats:  []string{pipeline.FormatHTML},
//	})
//	os.WriteFile("photos.html", result.Artifacts[pipeline.FormatHTML], 0o644)
//
// Drive the lightbox directly:
//
//	nav := gallery.NewNavigator(gallery.Images(records))
//	nav.Activate(0)
//	nav.Next()
//	fmt.Println(nav.Indicator()) // "2 / 3"
//
// Validate the content directory:
//
//	lib, err := content.LoadAll(ctx, "content")
//	for _, e := range content.Filter(lib[content.Blog], content.ByLang("en")) {
//	    fmt.Println(e.Slug, e.Title("en"))
//	}
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/gallery
package pkg
