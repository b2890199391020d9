// Package pipeline runs the gallery load → layout → render pipeline shared by
// the CLI and the preview server.
//
// # Stages
//
//  1. Load: read image records from a JSON or YAML manifest (or take them
//     from the caller).
//  2. Layout: place records into balanced columns for a viewport.
//  3. Render: produce HTML, SVG and JSON artifacts concurrently.
//
// Layouts and artifacts are cached by content hash through a [Runner]:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest: "photos.yaml",
//	    Viewport: 1280,
//	    Formats:  []string{pipeline.FormatHTML},
//	})
//	page := result.Artifacts[pipeline.FormatHTML]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/gallery"
)

// Output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats in render order.
var ValidFormats = []string{FormatHTML, FormatSVG, FormatJSON}

// Options configures a pipeline run. The zero value renders HTML at the
// default viewport with no image focused.
type Options struct {
	// Manifest is read when Records is nil.
	Manifest string                `json:"manifest,omitempty"`
	Records  []gallery.ImageRecord `json:"-"`

	// Layout options
	Viewport      float64             `json:"viewport,omitempty"`
	Breakpoints   gallery.Breakpoints `json:"breakpoints,omitempty"`
	Gutter        float64             `json:"gutter,omitempty"`
	FallbackRatio float64             `json:"fallback_ratio,omitempty"`
	Eager         bool                `json:"eager,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Focus opens the lightbox on an image. It is one-based like the
	// overlay indicator; zero leaves the lightbox closed.
	Focus      int    `json:"focus,omitempty"`
	Script     bool   `json:"script,omitempty"`
	ActionBase string `json:"action_base,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result holds the outputs of a run.
type Result struct {
	Records     []gallery.ImageRecord
	RecordsHash string
	Layout      gallery.Layout
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats holds timings and counts.
type Stats struct {
	Images     int
	Columns    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks a single format name. Names are case-sensitive.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks options and fills defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Records == nil && o.Manifest == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest or records required")
	}
	if o.Focus < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "focus must be positive, got %d", o.Focus)
	}
	if o.Breakpoints != (gallery.Breakpoints{}) && !o.Breakpoints.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "breakpoints must satisfy 0 < small <= medium, got %g/%g", o.Breakpoints.Small, o.Breakpoints.Medium)
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults resolves the layout options the same way
// [gallery.ComputeLayout] would, so cache keys reflect effective values.
func (o *Options) SetLayoutDefaults() {
	if o.Viewport <= 0 {
		o.Viewport = gallery.DefaultViewport
	}
	if !o.Breakpoints.Valid() {
		o.Breakpoints = gallery.DefaultBreakpoints()
	}
	if o.Gutter < 0 {
		o.Gutter = 0
	} else if o.Gutter == 0 {
		o.Gutter = gallery.DefaultGutter
	}
	if o.FallbackRatio <= 0 {
		o.FallbackRatio = gallery.DefaultFallbackRatio
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// FocusIndex converts Focus to a zero-based index or [gallery.Inactive].
func (o *Options) FocusIndex() int {
	if o.Focus <= 0 {
		return gallery.Inactive
	}
	return o.Focus - 1
}

// LayoutOptions returns the options passed to [gallery.ComputeLayout].
func (o *Options) LayoutOptions() gallery.LayoutOptions {
	return gallery.LayoutOptions{
		Viewport:      o.Viewport,
		Breakpoints:   o.Breakpoints,
		Gutter:        o.Gutter,
		FallbackRatio: o.FallbackRatio,
		Eager:         o.Eager,
	}
}

func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Viewport:      o.Viewport,
		Small:         o.Breakpoints.Small,
		Medium:        o.Breakpoints.Medium,
		Gutter:        o.Gutter,
		FallbackRatio: o.FallbackRatio,
		Eager:         o.Eager,
	}
}

func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Focus:  o.FocusIndex(),
		Script: o.Script,
		Action: o.ActionBase,
	}
}

// checkFocus rejects a focus beyond the loaded records.
func (o *Options) checkFocus(n int) error {
	if o.Focus > n {
		return errors.New(errors.ErrCodeInvalidInput, "focus %d out of range (gallery has %d images)", o.Focus, n)
	}
	return nil
}

func (s Stats) String() string {
	return fmt.Sprintf("%d images in %d columns (load %s, layout %s, render %s)",
		s.Images, s.Columns, s.LoadTime.Round(time.Microsecond), s.LayoutTime.Round(time.Microsecond), s.RenderTime.Round(time.Microsecond))
}
