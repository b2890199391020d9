package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

const siteYAML = `
brand:
  logo: Itsuki Garden
  footer: "© 2026 Itsuki"
  description:
    ja: デジタルガーデン
    en: A digital garden
blog:
  pageSize: 9
navigation:
  - id: photos
    href: /photos
    label: { ja: 写真, en: Photos }
    color: pink
ui:
  headings:
    latest: { ja: 最新, en: Latest }
    more: { ja: 見出し, en: Heading }
  labels:
    more: { ja: もっと見る, en: See more }
`

func TestParseSite(t *testing.T) {
	site, err := ParseSite([]byte(siteYAML))
	if err != nil {
		t.Fatalf("ParseSite: %v", err)
	}
	if site.Brand.Logo != "Itsuki Garden" {
		t.Errorf("Logo = %q", site.Brand.Logo)
	}
	if site.Blog.PageSize != 9 {
		t.Errorf("PageSize = %d", site.Blog.PageSize)
	}
	if len(site.Navigation) != 1 || site.Navigation[0].Label.Get(LangEN) != "Photos" {
		t.Errorf("Navigation = %+v", site.Navigation)
	}
	if got := site.Brand.Description.Get(""); got != "デジタルガーデン" {
		t.Errorf("Description default lang = %q", got)
	}
}

func TestSiteT(t *testing.T) {
	site, err := ParseSite([]byte(siteYAML))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key, lang, want string
	}{
		{"latest", LangJA, "最新"},
		{"latest", LangEN, "Latest"},
		{"latest", "", "最新"},
		{"more", LangEN, "See more"}, // labels win over headings
		{"missing", LangEN, "missing"},
	}
	for _, tt := range tests {
		if got := site.T(tt.key, tt.lang); got != tt.want {
			t.Errorf("T(%q, %q) = %q, want %q", tt.key, tt.lang, got, tt.want)
		}
	}

	var nilSite *Site
	if got := nilSite.T("latest", LangEN); got != "latest" {
		t.Errorf("nil site T = %q", got)
	}
}

func TestLoadSiteFallback(t *testing.T) {
	logger := log.New(io.Discard)

	site := LoadSite(filepath.Join(t.TempDir(), "missing.yaml"), logger)
	if site.Brand.Logo != "Itsuki" || site.Brand.Footer != "© 2025" || site.Blog.PageSize != 6 {
		t.Errorf("fallback = %+v", site.Brand)
	}
	if got := site.T("latest", LangEN); got != "latest" {
		t.Errorf("fallback T = %q", got)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("brand: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if site := LoadSite(bad, logger); site.Brand.Logo != "Itsuki" {
		t.Errorf("malformed file should fall back, got %+v", site.Brand)
	}
}

func TestParseSiteDefaultsPageSize(t *testing.T) {
	site, err := ParseSite([]byte("brand:\n  logo: X\n"))
	if err != nil {
		t.Fatal(err)
	}
	if site.Blog.PageSize != 6 {
		t.Errorf("PageSize = %d, want 6", site.Blog.PageSize)
	}
}
