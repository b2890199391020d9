package server

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
)

const pageCSS = `
    body { margin: 0; font-family: ui-sans-serif, system-ui, sans-serif; background: #1e1e2e; color: #cdd6f4; }
    header, footer { display: flex; gap: 16px; align-items: center; padding: 16px 24px; }
    header nav { display: flex; gap: 12px; flex: 1; }
    a { color: #89b4fa; text-decoration: none; }
    main { max-width: 1200px; margin: 0 auto; padding: 0 24px 48px; }
    footer { justify-content: center; color: #a6adc8; font-size: 12px; }
    .gallery-header { display: flex; justify-content: space-between; align-items: baseline; }
    .gallery-count { font-family: monospace; color: #a6adc8; }`

// writePage wraps body in the site chrome: brand, navigation, language
// switch and footer.
func (s *Server) writePage(w http.ResponseWriter, title, lang string, body []byte) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", html.EscapeString(lang))
	buf.WriteString(`  <meta charset="utf-8">` + "\n")
	buf.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	fmt.Fprintf(&buf, "  <title>%s | %s</title>\n", html.EscapeString(title), html.EscapeString(s.site.Brand.Logo))
	if d := s.site.Brand.Description.Get(lang); d != "" {
		fmt.Fprintf(&buf, `  <meta name="description" content="%s">`+"\n", html.EscapeString(d))
	}
	buf.WriteString("  <style>" + pageCSS + "\n  </style>\n</head>\n<body>\n")

	buf.WriteString("<header>\n")
	fmt.Fprintf(&buf, `  <a class="brand" href="/">%s</a>`+"\n", html.EscapeString(s.site.Brand.Logo))
	buf.WriteString("  <nav>")
	for _, item := range s.site.Navigation {
		fmt.Fprintf(&buf, `<a href="%s">%s</a>`, html.EscapeString(item.Href), html.EscapeString(item.Label.Get(lang)))
	}
	buf.WriteString("</nav>\n")
	buf.WriteString(`  <span class="lang"><a href="?lang=ja">JA</a> / <a href="?lang=en">EN</a></span>` + "\n")
	buf.WriteString("</header>\n<main>\n")

	buf.Write(body)

	buf.WriteString("</main>\n")
	fmt.Fprintf(&buf, "<footer>%s</footer>\n", html.EscapeString(s.site.Brand.Footer))
	buf.WriteString("</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeGalleryHeader(buf *bytes.Buffer, lang string, n int) {
	buf.WriteString(`<div class="gallery-header">`)
	fmt.Fprintf(buf, "<h1>%s</h1>", html.EscapeString(s.site.T("photos", lang)))
	fmt.Fprintf(buf, `<span class="gallery-count">%d</span>`, n)
	buf.WriteString("</div>\n")
}
