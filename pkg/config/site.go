package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Languages supported by the site.
const (
	LangJA = "ja"
	LangEN = "en"

	DefaultLang = LangJA
)

// Localized holds one string per language.
type Localized struct {
	JA string `yaml:"ja" json:"ja"`
	EN string `yaml:"en" json:"en"`
}

// Get returns the text for lang, falling back to Japanese.
func (l Localized) Get(lang string) string {
	if lang == LangEN {
		return l.EN
	}
	return l.JA
}

// Site is the parsed site-config.yaml.
type Site struct {
	Brand      Brand     `yaml:"brand" json:"brand"`
	Blog       Blog      `yaml:"blog" json:"blog"`
	Navigation []NavItem `yaml:"navigation" json:"navigation"`
	Socials    []Social  `yaml:"socials" json:"socials"`
	Theme      Theme     `yaml:"theme" json:"theme"`
	UI         UI        `yaml:"ui" json:"ui"`
	Stats      []Stat    `yaml:"stats" json:"stats"`
	Profile    Profile   `yaml:"profile" json:"profile"`
}

type Brand struct {
	Logo              string    `yaml:"logo" json:"logo"`
	Favicon           string    `yaml:"favicon" json:"favicon"`
	Watermark         string    `yaml:"watermark" json:"watermark"`
	Email             string    `yaml:"email" json:"email"`
	Footer            string    `yaml:"footer" json:"footer"`
	GoogleAnalyticsID string    `yaml:"googleAnalyticsId" json:"googleAnalyticsId"`
	SiteURL           string    `yaml:"siteUrl" json:"siteUrl"`
	Description       Localized `yaml:"description" json:"description"`
	Webring           Webring   `yaml:"webring" json:"webring"`
}

type Webring struct {
	Label string `yaml:"label" json:"label"`
	Home  string `yaml:"home" json:"home"`
	Prev  string `yaml:"prev" json:"prev"`
	Next  string `yaml:"next" json:"next"`
}

type Blog struct {
	PageSize int `yaml:"pageSize" json:"pageSize"`
}

type NavItem struct {
	ID    string    `yaml:"id" json:"id"`
	Href  string    `yaml:"href" json:"href"`
	Label Localized `yaml:"label" json:"label"`
	Color string    `yaml:"color" json:"color"`
}

type Social struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Handle      string `yaml:"handle" json:"handle"`
	Href        string `yaml:"href" json:"href"`
	Icon        string `yaml:"icon" json:"icon"`
	Color       string `yaml:"color" json:"color"`
	ActiveColor string `yaml:"activeColor,omitempty" json:"activeColor,omitempty"`
}

type Theme struct {
	Colors map[string]string `yaml:"colors" json:"colors"`
}

// UI is the label dictionary used by [Site.T].
type UI struct {
	Headings map[string]Localized `yaml:"headings" json:"headings"`
	Labels   map[string]Localized `yaml:"labels" json:"labels"`
}

type Stat struct {
	ID    string    `yaml:"id" json:"id"`
	Label Localized `yaml:"label" json:"label"`
}

type Profile struct {
	Avatar     string    `yaml:"avatar" json:"avatar"`
	Intro      Localized `yaml:"intro" json:"intro"`
	Roles      []Role    `yaml:"roles" json:"roles"`
	Philosophy Localized `yaml:"philosophy" json:"philosophy"`
}

type Role struct {
	ID    string    `yaml:"id" json:"id"`
	Label Localized `yaml:"label" json:"label"`
	Color string    `yaml:"color" json:"color"`
}

// FallbackSite is used when site-config.yaml cannot be loaded.
func FallbackSite() *Site {
	return &Site{
		Brand: Brand{Logo: "Itsuki", Footer: "© 2025"},
		Blog:  Blog{PageSize: 6},
		UI: UI{
			Headings: map[string]Localized{},
			Labels:   map[string]Localized{},
		},
		Navigation: []NavItem{},
		Socials:    []Social{},
	}
}

// LoadSite reads the site configuration. Any failure is logged and the
// fallback configuration returned, so pages always have a brand and footer.
func LoadSite(path string, logger *log.Logger) *Site {
	site, err := ReadSite(path)
	if err != nil {
		if logger != nil {
			logger.Warn("cannot load site config, using fallback", "path", path, "error", err)
		}
		return FallbackSite()
	}
	return site
}

// ReadSite reads and parses the site configuration without falling back.
func ReadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSite(data)
}

// ParseSite parses site-config.yaml contents. A zero page size becomes the
// fallback's.
func ParseSite(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse site config: %w", err)
	}
	if site.Blog.PageSize <= 0 {
		site.Blog.PageSize = FallbackSite().Blog.PageSize
	}
	return &site, nil
}

// T translates a UI key. Labels take precedence over headings; an unknown
// key is returned unchanged. An empty lang means Japanese.
func (s *Site) T(key, lang string) string {
	if s == nil {
		return key
	}
	if entry, ok := s.UI.Labels[key]; ok {
		return entry.Get(lang)
	}
	if entry, ok := s.UI.Headings[key]; ok {
		return entry.Get(lang)
	}
	return key
}

// ValidLang reports whether lang is one the site publishes in.
func ValidLang(lang string) bool {
	return lang == LangJA || lang == LangEN
}
