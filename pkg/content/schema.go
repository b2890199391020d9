package content

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/tools"
)

// Schema is the typed front matter of one collection.
type Schema interface {
	check(f *fields)
}

// Localized maps a language code to text.
type Localized map[string]string

// Get returns the text for lang, falling back to Japanese and then to the
// first language in sorted order.
func (l Localized) Get(lang string) string {
	if v, ok := l[lang]; ok && v != "" {
		return v
	}
	if v, ok := l[config.DefaultLang]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if l[k] != "" {
			return l[k]
		}
	}
	return ""
}

type BlogPost struct {
	Lang       string   `yaml:"lang" json:"lang"`
	Title      string   `yaml:"title" json:"title"`
	Summary    string   `yaml:"summary" json:"summary,omitempty"`
	Date       string   `yaml:"date" json:"date"`
	Category   string   `yaml:"category" json:"category"`
	Tags       []string `yaml:"tags" json:"tags"`
	CoverImage string   `yaml:"coverImage" json:"coverImage"`
	Featured   bool     `yaml:"featured" json:"featured"`
}

func (p *BlogPost) check(f *fields) {
	f.require("title", "date", "category", "tags", "coverImage")
	f.lang(&p.Lang)
}

// EXIF holds the camera settings a photo was taken with.
type EXIF struct {
	Camera   string `yaml:"camera" json:"camera,omitempty"`
	Aperture string `yaml:"aperture" json:"aperture,omitempty"`
	Shutter  string `yaml:"shutter" json:"shutter,omitempty"`
	ISO      string `yaml:"iso" json:"iso,omitempty"`
}

// Photo is one picture in the photo gallery. Width and Height are optional;
// without them the gallery falls back to an estimated ratio.
type Photo struct {
	Lang          string    `yaml:"lang" json:"lang"`
	Title         Localized `yaml:"title" json:"title"`
	Location      Localized `yaml:"location" json:"location"`
	Image         string    `yaml:"image" json:"image"`
	Date          string    `yaml:"date" json:"date"`
	LocationTag   string    `yaml:"location_tag" json:"location_tag"`
	YearTag       string    `yaml:"year_tag" json:"year_tag"`
	CollectionTag string    `yaml:"collection_tag" json:"collection_tag"`
	Featured      bool      `yaml:"featured" json:"featured"`
	Gear          string    `yaml:"gear" json:"gear,omitempty"`
	EXIF          *EXIF     `yaml:"exif" json:"exif,omitempty"`
	Width         int       `yaml:"width" json:"width,omitempty"`
	Height        int       `yaml:"height" json:"height,omitempty"`
}

func (p *Photo) check(f *fields) {
	f.require("title", "location", "image", "date", "location_tag", "year_tag", "collection_tag")
	f.lang(&p.Lang)
	f.nonNegative("width", p.Width)
	f.nonNegative("height", p.Height)
}

const (
	VideoLong  = "long"
	VideoShort = "short"
)

type Video struct {
	Lang     string   `yaml:"lang" json:"lang"`
	Title    string   `yaml:"title" json:"title"`
	Desc     string   `yaml:"desc" json:"desc,omitempty"`
	Image    string   `yaml:"image" json:"image"`
	Tags     []string `yaml:"tags" json:"tags"`
	Duration string   `yaml:"duration" json:"duration,omitempty"`
	Category string   `yaml:"category" json:"category,omitempty"`
	Views    string   `yaml:"views" json:"views,omitempty"`
	Date     string   `yaml:"date" json:"date"`
	Featured bool     `yaml:"featured" json:"featured"`
	Type     string   `yaml:"type" json:"type"`
	URL      string   `yaml:"url" json:"url,omitempty"`
}

func (v *Video) check(f *fields) {
	f.require("title", "image", "date")
	f.lang(&v.Lang)
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Type == "" {
		v.Type = VideoLong
	}
	f.enum("type", v.Type, VideoLong, VideoShort)
	if v.URL != "" {
		if err := errors.ValidateURL(v.URL); err != nil {
			f.add("url: %s", errors.UserMessage(err))
		}
	}
}

// Metric is a labelled figure shown on a mission card.
type Metric struct {
	Label Localized `yaml:"label" json:"label"`
	Value string    `yaml:"value" json:"value"`
	Color string    `yaml:"color" json:"color"`
}

const (
	NowMission = "mission"
	NowStatus  = "status"
)

// NowItem is either the mission statement (with metrics) or a status card
// for something currently being read or played.
type NowItem struct {
	Type        string    `yaml:"type" json:"type"`
	Lang        string    `yaml:"lang" json:"lang"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description,omitempty"`
	Metrics     []Metric  `yaml:"metrics" json:"metrics,omitempty"`
	Category    string    `yaml:"category" json:"category,omitempty"`
	Author      string    `yaml:"author" json:"author,omitempty"`
	Platform    string    `yaml:"platform" json:"platform,omitempty"`
	Cover       string    `yaml:"cover" json:"cover,omitempty"`
	Progress    *float64  `yaml:"progress" json:"progress,omitempty"`
	StatusText  Localized `yaml:"status_text" json:"status_text,omitempty"`
	Link        string    `yaml:"link" json:"link,omitempty"`
}

func (n *NowItem) check(f *fields) {
	f.require("type", "title")
	f.lang(&n.Lang)
	f.enum("type", n.Type, NowMission, NowStatus)
	for i, m := range n.Metrics {
		if m.Label == nil || m.Value == "" || m.Color == "" {
			f.add("metrics[%d]: label, value and color are required", i)
		}
	}
	if n.Progress != nil {
		f.percent("progress", *n.Progress)
	}
}

var archiveTypes = []string{"books", "games", "movies"}

// ArchiveItem is a finished book, game or film. It has no language.
type ArchiveItem struct {
	Type       string `yaml:"type" json:"type"`
	Title      string `yaml:"title" json:"title"`
	Meta       string `yaml:"meta" json:"meta"`
	Date       string `yaml:"date" json:"date"`
	Status     string `yaml:"status" json:"status"`
	ImgID      string `yaml:"imgId" json:"imgId,omitempty"`
	HasReview  bool   `yaml:"hasReview" json:"hasReview"`
	ReviewLink string `yaml:"reviewLink" json:"reviewLink,omitempty"`
}

func (a *ArchiveItem) check(f *fields) {
	f.require("type", "title", "meta", "date", "status")
	f.enum("type", a.Type, archiveTypes...)
}

type AboutSection struct {
	Lang    string `yaml:"lang" json:"lang"`
	Title   string `yaml:"title" json:"title"`
	Section string `yaml:"section" json:"section"`
	Order   int    `yaml:"order" json:"order"`
}

func (a *AboutSection) check(f *fields) {
	f.require("title", "section")
	f.lang(&a.Lang)
}

var studyLevels = []string{"N5", "N4", "N3", "N2", "N1"}

// StudyLog tracks progress towards a JLPT level.
type StudyLog struct {
	Lang     string  `yaml:"lang" json:"lang"`
	Title    string  `yaml:"title" json:"title"`
	Level    string  `yaml:"level" json:"level"`
	Progress float64 `yaml:"progress" json:"progress"`
	Date     string  `yaml:"date" json:"date"`
	Streak   int     `yaml:"streak" json:"streak"`
	Notes    string  `yaml:"notes" json:"notes,omitempty"`
}

func (s *StudyLog) check(f *fields) {
	f.require("title", "level", "progress", "date")
	f.lang(&s.Lang)
	f.enum("level", s.Level, studyLevels...)
	f.percent("progress", s.Progress)
	f.nonNegative("streak", s.Streak)
}

// ToolPage describes an interactive tool. ComponentID must name a
// registered tool; Tool is resolved from it during validation.
type ToolPage struct {
	Lang        string   `yaml:"lang" json:"lang"`
	Title       string   `yaml:"title" json:"title"`
	Summary     string   `yaml:"summary" json:"summary,omitempty"`
	ComponentID string   `yaml:"componentId" json:"componentId"`
	Icon        string   `yaml:"icon" json:"icon"`
	Date        string   `yaml:"date" json:"date"`
	Featured    bool     `yaml:"featured" json:"featured"`
	Tool        tools.ID `yaml:"-" json:"-"`
}

func (t *ToolPage) check(f *fields) {
	f.require("title", "componentId", "date")
	f.lang(&t.Lang)
	t.Icon = tools.Icon(t.Icon)
	if t.ComponentID == "" {
		return
	}
	id, err := tools.Lookup(t.ComponentID)
	if err != nil {
		f.add("componentId: %q is not a registered tool", t.ComponentID)
		return
	}
	t.Tool = id
}

// fields checks a document's raw keys and records issues for its schema.
type fields struct {
	raw    map[string]any
	issues []string
}

func (f *fields) add(format string, args ...any) {
	f.issues = append(f.issues, fmt.Sprintf(format, args...))
}

func (f *fields) require(keys ...string) {
	for _, k := range keys {
		if v, ok := f.raw[k]; !ok || v == nil {
			f.add("%s: required", k)
		}
	}
}

func (f *fields) enum(key, value string, allowed ...string) {
	if value != "" && !slices.Contains(allowed, value) {
		f.add("%s: %q is not one of %s", key, value, strings.Join(allowed, ", "))
	}
}

func (f *fields) percent(key string, v float64) {
	if v < 0 || v > 100 {
		f.add("%s: %v is outside 0..100", key, v)
	}
}

func (f *fields) nonNegative(key string, v int) {
	if v < 0 {
		f.add("%s: must not be negative", key)
	}
}

// lang defaults an empty language to Japanese and rejects unknown codes.
func (f *fields) lang(v *string) {
	if *v == "" {
		*v = config.DefaultLang
		return
	}
	if !config.ValidLang(*v) {
		f.add("lang: %q is not one of %s, %s", *v, config.LangJA, config.LangEN)
	}
}
