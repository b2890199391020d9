package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/gallery"
	"github.com/itsuki/garden/pkg/gallery/sink"
	"github.com/itsuki/garden/pkg/pipeline"
)

// galleryCommand groups the gallery subcommands.
func (c *CLI) galleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Lay out and render photo galleries",
	}
	cmd.AddCommand(c.galleryRenderCommand())
	cmd.AddCommand(c.galleryFSMCommand())
	return cmd
}

// renderFlags holds the flags of "gallery render". Zero values defer to
// the [gallery] section of the config.
type renderFlags struct {
	output  string
	formats string
	width   float64
	gutter  float64
	focus   int
	eager   bool
	script  bool
	noCache bool
	refresh bool
}

func (c *CLI) galleryRenderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render a gallery manifest to HTML, SVG or JSON",
		Long: `Render a gallery manifest to HTML, SVG or JSON.

The manifest is a JSON or YAML list of images (url, width, height, title).
The layout is computed for the viewport width given by --width and cached
together with the rendered artifacts, so unchanged galleries render
instantly.

With --focus the HTML output opens the lightbox on that image (1-based).
With --script the HTML embeds a small script so the static page can open
and navigate the lightbox itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGalleryRender(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file or base name (default: <manifest>.gallery.<format>)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats: html, svg, json (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&f.gutter, "gutter", 0, "gap between cells in pixels")
	cmd.Flags().IntVar(&f.focus, "focus", 0, "open the lightbox on image N (1-based)")
	cmd.Flags().BoolVar(&f.eager, "eager", false, "load every image eagerly")
	cmd.Flags().BoolVar(&f.script, "script", false, "embed the lightbox script in HTML output")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runGalleryRender(ctx context.Context, manifest string, f renderFlags) error {
	opts := c.pipelineOptions()
	opts.Manifest = manifest
	opts.Formats = c.parseFormats(f.formats)
	if f.width > 0 {
		opts.Viewport = f.width
	}
	if f.gutter > 0 {
		opts.Gutter = f.gutter
	}
	opts.Focus = f.focus
	opts.Eager = f.eager
	opts.Script = f.script
	opts.Refresh = f.refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Laying out gallery...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if result.Stats.Images == 0 {
		printWarning("%s has no images; outputs are empty", manifest)
	}

	var paths []string
	for _, format := range opts.Formats {
		path := outputPath(f.output, manifest, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", manifest)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Images, result.Stats.Columns, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Browse", appName+" browse "+manifest)

	return nil
}

// outputPath names the file for one format. A single format writes to
// output verbatim; several formats share output as a base name. Without
// output the manifest name gets a ".gallery" infix so a JSON render never
// overwrites a JSON manifest.
func outputPath(output, manifest, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	return basePath(output, manifest) + "." + format
}

// basePath strips a known format extension from output, or derives a base
// from the manifest when output is empty.
func basePath(output, manifest string) string {
	if output == "" {
		return strings.TrimSuffix(manifest, filepath.Ext(manifest)) + ".gallery"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// State diagram
// =============================================================================

func (c *CLI) galleryFSMCommand() *cobra.Command {
	var (
		images int
		focus  int
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "fsm",
		Short: "Draw the lightbox state machine for a gallery of N images",
		Long: `Draw the lightbox state machine as Graphviz DOT or SVG.

Every focused index is a state next to "inactive"; edges carry the event and
the key that triggers it. --focus highlights one state (1-based).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGalleryFSM(cmd.Context(), images, focus, format, output)
		},
	}

	cmd.Flags().IntVarP(&images, "images", "n", 3, fmt.Sprintf("number of images (at most %d)", sink.MaxDiagramImages))
	cmd.Flags().IntVar(&focus, "focus", 0, "highlight the state for image N (0: inactive)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runGalleryFSM(ctx context.Context, images, focus int, format, output string) error {
	if images < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "images must not be negative, got %d", images)
	}
	if images > sink.MaxDiagramImages {
		c.Logger.Warnf("Diagram limited to %d images", sink.MaxDiagramImages)
	}

	focused := gallery.Inactive
	if focus > 0 {
		focused = focus - 1
	}
	dot := sink.NavigatorDOT(images, focused)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		var err error
		if data, err = sink.RenderDOT(ctx, dot); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be dot or svg)", format)
	}

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Wrote state diagram")
	printFile(output)
	return nil
}
