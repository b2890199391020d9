package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/itsuki/garden/pkg/gallery"
)

const galleryCSS = `
    .gallery-grid { column-count: 1; column-gap: %[1]gpx; margin: 0 auto; }
    @media (min-width: %[2]gpx) { .gallery-grid { column-count: 2; } }
    @media (min-width: %[3]gpx) { .gallery-grid { column-count: 3; } }
    .gallery-cell { break-inside: avoid; position: relative; margin: 0 0 %[1]gpx; overflow: hidden; border-radius: 8px; cursor: zoom-in; }
    .gallery-cell img { display: block; width: 100%%; height: 100%%; object-fit: cover; }
    .gallery-meta { position: absolute; inset: auto 0 0 0; display: flex; justify-content: space-between; padding: 12px; opacity: 0; transition: opacity .3s; background: linear-gradient(to top, rgba(0,0,0,.6), transparent); color: #fff; font-size: 12px; }
    .gallery-cell:hover .gallery-meta { opacity: 1; }
    .gallery-badge { font-family: monospace; font-size: 10px; background: rgba(0,0,0,.3); padding: 2px 6px; border-radius: 4px; }
    .lightbox { position: fixed; inset: 0; z-index: 100; display: flex; align-items: center; justify-content: center; background: rgba(30,30,46,.95); }
    .lightbox[hidden] { display: none; }
    .lightbox-bar { position: absolute; top: 16px; right: 16px; display: flex; gap: 12px; z-index: 2; }
    .lightbox-indicator { font-family: monospace; padding: 6px 12px; border-radius: 999px; }
    .lightbox-nav { position: absolute; top: 50%%; z-index: 2; }
    .lightbox-nav.prev { left: 16px; } .lightbox-nav.next { right: 16px; }
    .lightbox-stage { max-width: 100%%; max-height: 100%%; padding: 48px; }
    .lightbox-stage img { max-width: 100%%; max-height: 100%%; object-fit: contain; }
    .lightbox-caption { position: absolute; bottom: 24px; width: 100%%; text-align: center; pointer-events: none; }`

const galleryJS = `
    (function () {
      var root = document.currentScript.closest('.gallery');
      var cells = root.querySelectorAll('.gallery-cell');
      var box = root.querySelector('.lightbox');
      if (!box) { return; }
      var img = box.querySelector('.lightbox-stage img');
      var cap = box.querySelector('.lightbox-caption');
      var ind = box.querySelector('.lightbox-indicator');
      var focused = -1;
      function show(i) {
        focused = i;
        if (i < 0) { box.hidden = true; document.removeEventListener('keydown', onKey); return; }
        var c = cells[i], src = c.querySelector('img');
        img.src = src.getAttribute('src'); img.alt = src.alt;
        cap.textContent = c.dataset.title || ''; cap.hidden = !c.dataset.title;
        ind.textContent = (i + 1) + ' / ' + cells.length;
        if (box.hidden) { box.hidden = false; document.addEventListener('keydown', onKey); }
      }
      function step(d) { if (focused >= 0) { show((focused + d + cells.length) % cells.length); } }
      function onKey(e) {
        if (e.key === 'Escape') { show(-1); }
        if (e.key === 'ArrowLeft') { step(-1); }
        if (e.key === 'ArrowRight') { step(1); }
      }
      cells.forEach(function (c, i) { c.addEventListener('click', function (e) { e.preventDefault(); show(i); }); });
      box.addEventListener('click', function () { show(-1); });
      box.querySelector('.lightbox-stage').addEventListener('click', function (e) { e.stopPropagation(); });
      box.querySelectorAll('[data-action]').forEach(function (b) {
        b.addEventListener('click', function (e) {
          e.preventDefault(); e.stopPropagation();
          var a = b.dataset.action;
          if (a === 'dismiss') { show(-1); } else { step(a === 'next' ? 1 : -1); }
        });
      });
      if (!box.hidden) { focused = Number(box.dataset.index); document.addEventListener('keydown', onKey); }
    })();`

// HTMLOption configures [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	nav         *gallery.Navigator
	breakpoints gallery.Breakpoints
	actionBase  string
	script      bool
}

// WithNavigator renders the lightbox overlay when nav is active.
func WithNavigator(nav *gallery.Navigator) HTMLOption {
	return func(r *htmlRenderer) { r.nav = nav }
}

// WithBreakpoints sets the media query breakpoints (default
// [gallery.DefaultBreakpoints]).
func WithBreakpoints(b gallery.Breakpoints) HTMLOption {
	return func(r *htmlRenderer) { r.breakpoints = b }
}

// WithActionBase makes cells and overlay controls link to server routes
// under base ("<base>?focus=i", "<base>/next", ...) instead of relying on the
// embedded script.
func WithActionBase(base string) HTMLOption {
	return func(r *htmlRenderer) { r.actionBase = base }
}

// WithScript embeds a small script so a static page can open, navigate and
// close the lightbox without a server. The full overlay markup is always
// emitted (hidden while inactive) so the script has something to drive.
func WithScript() HTMLOption {
	return func(r *htmlRenderer) { r.script = true }
}

// RenderHTML renders the grid and, when the navigator is active, the overlay.
// An empty layout renders nothing at all.
func RenderHTML(records []gallery.ImageRecord, l gallery.Layout, opts ...HTMLOption) []byte {
	if l.Empty() || len(records) == 0 {
		return nil
	}
	r := htmlRenderer{breakpoints: gallery.DefaultBreakpoints()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="gallery">` + "\n")
	fmt.Fprintf(&buf, "  <style>"+galleryCSS+"\n  </style>\n", l.Gutter, r.breakpoints.Small, r.breakpoints.Medium)

	buf.WriteString(`  <div class="gallery-grid">` + "\n")
	for _, c := range l.Cells {
		if c.Index >= len(records) {
			continue
		}
		r.renderCell(&buf, records[c.Index], c)
	}
	buf.WriteString("  </div>\n")

	r.renderOverlay(&buf)

	if r.script {
		buf.WriteString(`  <script>` + galleryJS + "\n  </script>\n")
	}
	buf.WriteString("</div>\n")
	return buf.Bytes()
}

func (r *htmlRenderer) renderCell(buf *bytes.Buffer, rec gallery.ImageRecord, c gallery.Cell) {
	fmt.Fprintf(buf, `    <figure class="gallery-cell" data-index="%d"`, c.Index)
	if rec.Title != "" {
		fmt.Fprintf(buf, ` data-title="%s"`, html.EscapeString(rec.Title))
	}
	fmt.Fprintf(buf, ` style="aspect-ratio: %s">`+"\n", rec.AspectCSS())

	href := fmt.Sprintf("#image-%d", c.Index)
	if r.actionBase != "" {
		href = fmt.Sprintf("%s?focus=%d", r.actionBase, c.Index)
	}
	fmt.Fprintf(buf, `      <a href="%s"><img src="%s" alt="%s"`,
		html.EscapeString(href), html.EscapeString(rec.URL), html.EscapeString(rec.Alt(c.Index)))
	if w, h, ok := rec.Dimensions(); ok {
		fmt.Fprintf(buf, ` width="%d" height="%d"`, w, h)
	}
	if c.Lazy {
		buf.WriteString(` loading="lazy"`)
	}
	buf.WriteString(` decoding="async"></a>` + "\n")

	buf.WriteString(`      <figcaption class="gallery-meta">`)
	if rec.Title != "" {
		fmt.Fprintf(buf, `<span class="gallery-title">%s</span>`, html.EscapeString(rec.Title))
	}
	if badge := rec.Badge(); badge != "" {
		fmt.Fprintf(buf, `<span class="gallery-badge">%s</span>`, badge)
	}
	buf.WriteString("</figcaption>\n")
	buf.WriteString("    </figure>\n")
}

func (r *htmlRenderer) renderOverlay(buf *bytes.Buffer) {
	var (
		o      gallery.Overlay
		active bool
	)
	if r.nav != nil {
		o, active = r.nav.Overlay()
	}
	if !active && !r.script {
		return
	}

	if active {
		fmt.Fprintf(buf, `  <div class="lightbox" role="dialog" data-index="%d">`+"\n", o.Index)
	} else {
		buf.WriteString(`  <div class="lightbox" role="dialog" hidden>` + "\n")
	}

	buf.WriteString(`    <div class="lightbox-bar">`)
	fmt.Fprintf(buf, `<span class="lightbox-indicator">%s</span>`, html.EscapeString(o.Indicator))
	buf.WriteString(r.control("dismiss", "close", "×"))
	buf.WriteString("</div>\n")

	buf.WriteString("    " + r.control("prev", "lightbox-nav prev", "‹") + "\n")
	buf.WriteString("    " + r.control("next", "lightbox-nav next", "›") + "\n")

	buf.WriteString(`    <div class="lightbox-stage">`)
	fmt.Fprintf(buf, `<img src="%s" alt="%s">`, html.EscapeString(o.Image.URL), html.EscapeString(o.Alt))
	if o.Caption != "" {
		fmt.Fprintf(buf, `<div class="lightbox-caption">%s</div>`, html.EscapeString(o.Caption))
	} else {
		buf.WriteString(`<div class="lightbox-caption" hidden></div>`)
	}
	buf.WriteString("</div>\n")
	buf.WriteString("  </div>\n")
}

// control renders an overlay button. With an action base it is a form posting
// to the server; otherwise a plain button handled by the script.
func (r *htmlRenderer) control(action, class, label string) string {
	if r.actionBase != "" {
		return fmt.Sprintf(`<form method="post" action="%s/%s" class="%s"><button type="submit" aria-label="%s">%s</button></form>`,
			html.EscapeString(r.actionBase), action, class, action, label)
	}
	return fmt.Sprintf(`<button type="button" class="%s" data-action="%s" aria-label="%s">%s</button>`,
		class, action, action, label)
}
