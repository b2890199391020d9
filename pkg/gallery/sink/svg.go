package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/itsuki/garden/pkg/gallery"
)

const (
	svgFont      = "ui-sans-serif, system-ui, sans-serif"
	svgMonoFont  = "ui-monospace, monospace"
	svgFill      = "#313244"
	svgStroke    = "#45475a"
	svgFocus     = "#f5c2e7"
	svgText      = "#cdd6f4"
	svgSubtext   = "#a6adc8"
	svgTextInset = 10.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	focus int
}

// WithFocus outlines the cell at index i, mirroring an active lightbox.
func WithFocus(i int) SVGOption { return func(r *svgRenderer) { r.focus = i } }

// RenderSVG draws the layout as placeholder boxes with captions and badges.
// Unconstrained cells are dashed because their height is an estimate.
func RenderSVG(records []gallery.ImageRecord, l gallery.Layout, opts ...SVGOption) []byte {
	if l.Empty() || len(records) == 0 {
		return nil
	}
	r := svgRenderer{focus: gallery.Inactive}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	for _, c := range l.Cells {
		if c.Index >= len(records) {
			continue
		}
		r.renderCell(&buf, records[c.Index], c)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderCell(buf *bytes.Buffer, rec gallery.ImageRecord, c gallery.Cell) {
	stroke, width, dash := svgStroke, 1.0, ""
	if !c.Fixed() {
		dash = ` stroke-dasharray="6 4"`
	}
	if c.Index == r.focus {
		stroke, width = svgFocus, 3.0
	}

	fmt.Fprintf(buf, `  <g id="cell-%d">`+"\n", c.Index)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s" stroke-width="%.0f"%s/>`+"\n",
		c.X, c.Y, c.Width, c.Height, svgFill, stroke, width, dash)
	fmt.Fprintf(buf, `    <title>%s</title>`+"\n", escapeXML(rec.Alt(c.Index)))

	bottom := c.Y + c.Height - svgTextInset
	if rec.Title != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="%s" font-size="12" fill="%s">%s</text>`+"\n",
			c.X+svgTextInset, bottom, svgFont, svgText, escapeXML(rec.Title))
	}
	if badge := rec.Badge(); badge != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="10" fill="%s">%s</text>`+"\n",
			c.X+c.Width-svgTextInset, bottom, svgMonoFont, svgSubtext, badge)
	}
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
