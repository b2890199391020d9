package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/observability"
	"github.com/itsuki/garden/pkg/tools"
)

func writeContent(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"blog/first.md":  "---\ntitle: First\ndate: '2025-01-02'\ncategory: diary\ntags: []\ncoverImage: a.jpg\n---\n# Hello **world**\n",
		"blog/second.md": "---\nlang: en\ntitle: Second\ndate: '2025-02-02'\ncategory: diary\ntags: []\ncoverImage: b.jpg\nfeatured: true\n---\nbody\n",
		"blog/broken.md": "---\ntitle: Broken\n---\n",
	}
	for i, date := range []string{"2025-03-01", "2025-02-01", "2025-01-01"} {
		files[fmt.Sprintf("photos/p%d.md", i+1)] = fmt.Sprintf(
			"---\ntitle: {ja: 写真%[1]d, en: Photo %[1]d}\nlocation: {ja: 東京}\nimage: /img/%[1]d.jpg\ndate: '%[2]s'\nlocation_tag: tokyo\nyear_tag: '2025'\ncollection_tag: city\nwidth: 1600\nheight: 900\n---\n",
			i+1, date)
	}
	for rel, data := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	writeContent(t, root)

	cfg := config.Default()
	cfg.Server.Content = root
	cfg.Tools = config.Tools{}
	return New(Options{
		Config: cfg,
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
	})
}

// client replays the session cookie between requests.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, target string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func newClient(t *testing.T) *client {
	return &client{t: t, h: newTestServer(t).Handler()}
}

func TestHealth(t *testing.T) {
	rec := newClient(t).do(http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status": "ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestGallery(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/gallery")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if got := strings.Count(body, `class="gallery-cell"`); got != 3 {
		t.Errorf("cells = %d, want 3", got)
	}
	if !strings.Contains(body, `href="/gallery?focus=0"`) {
		t.Error("cells do not link to server focus")
	}
	if strings.Contains(body, `class="lightbox"`) {
		t.Error("lightbox open for a new session")
	}
	if c.cookie == nil || c.cookie.Value == "" || !c.cookie.HttpOnly {
		t.Errorf("session cookie = %+v", c.cookie)
	}
	if !strings.Contains(body, "写真1") {
		t.Error("photo titles not in the default language")
	}
}

func TestGalleryLang(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodGet, "/gallery?lang=en")
	body := c.do(http.MethodGet, "/gallery").Body.String()
	if !strings.Contains(body, "Photo 1") || !strings.Contains(body, `<html lang="en">`) {
		t.Error("language not kept in the session")
	}
}

func TestGalleryFocusQuery(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/gallery?focus=1")
	if !strings.Contains(rec.Body.String(), "2 / 3") {
		t.Errorf("indicator missing:\n%s", rec.Body)
	}
	for _, q := range []string{"3", "-1", "x"} {
		if rec := c.do(http.MethodGet, "/gallery?focus="+q); rec.Code != http.StatusBadRequest {
			t.Errorf("focus=%s status = %d, want 400", q, rec.Code)
		}
	}
}

type navHooks struct {
	observability.NoopToolHooks
	mu     sync.Mutex
	events []string
}

func (h *navHooks) OnNavigate(_ context.Context, event string, from, to int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf("%s:%d->%d", event, from, to))
}

func TestGalleryActions(t *testing.T) {
	hooks := &navHooks{}
	observability.SetToolHooks(hooks)
	t.Cleanup(observability.Reset)

	c := newClient(t)
	steps := []struct {
		action string
		want   string
	}{
		{"activate?i=0", "1 / 3"},
		{"prev", "3 / 3"},
		{"next", "1 / 3"},
		{"next", "2 / 3"},
		{"dismiss", ""},
	}
	for _, s := range steps {
		rec := c.do(http.MethodPost, "/gallery/"+s.action)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/gallery" {
			t.Fatalf("%s: status %d location %q", s.action, rec.Code, rec.Header().Get("Location"))
		}
		body := c.do(http.MethodGet, "/gallery").Body.String()
		if s.want == "" {
			if strings.Contains(body, `class="lightbox"`) {
				t.Errorf("%s: lightbox still open", s.action)
			}
			continue
		}
		if !strings.Contains(body, s.want) {
			t.Errorf("%s: indicator %q missing", s.action, s.want)
		}
	}

	want := []string{"activate:-1->0", "previous:0->2", "next:2->0", "next:0->1", "dismiss:1->-1"}
	if strings.Join(hooks.events, " ") != strings.Join(want, " ") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestGalleryActionErrors(t *testing.T) {
	c := newClient(t)
	if rec := c.do(http.MethodPost, "/gallery/jump"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/gallery/activate?i=9"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad index status = %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/gallery/next"); rec.Code != http.StatusSeeOther {
		t.Errorf("next while inactive status = %d, want redirect", rec.Code)
	}
}

func TestGalleryArtifacts(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/gallery/activate?i=2")

	rec := c.do(http.MethodGet, "/gallery.json")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("json Content-Type = %q", ct)
	}
	var doc struct {
		Focus  int               `json:"focus"`
		Images []json.RawMessage `json:"images"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Focus != 2 || len(doc.Images) != 3 {
		t.Errorf("json focus %d images %d", doc.Focus, len(doc.Images))
	}

	rec = c.do(http.MethodGet, "/gallery.svg")
	if rec.Header().Get("Content-Type") != "image/svg+xml" || !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("svg = %q %q", rec.Header().Get("Content-Type"), rec.Body.String()[:20])
	}
}

func TestGalleryManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "photos.json")
	if err := os.WriteFile(manifest, []byte(`[{"url": "m.jpg", "title": "Manifest"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Server.Manifest = manifest
	s := New(Options{Config: cfg, Logger: log.NewWithOptions(io.Discard, log.Options{})})

	c := &client{t: t, h: s.Handler()}
	body := c.do(http.MethodGet, "/gallery").Body.String()
	if !strings.Contains(body, "Manifest") || strings.Count(body, `class="gallery-cell"`) != 1 {
		t.Errorf("manifest gallery not rendered:\n%s", body)
	}
}

func TestContentList(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/content/blog")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var page struct {
		Count int `json:"count"`
		Pages int `json:"pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Count != 1 || page.Pages != 1 {
		t.Errorf("ja listing count %d pages %d, want 1/1", page.Count, page.Pages)
	}
	if strings.Contains(rec.Body.String(), "Hello") {
		t.Error("listing includes bodies")
	}

	rec = c.do(http.MethodGet, "/content/blog?lang=en&featured")
	if !strings.Contains(rec.Body.String(), `"Second"`) {
		t.Errorf("featured en listing = %s", rec.Body)
	}

	if rec := c.do(http.MethodGet, "/content/recipes"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown collection status = %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/content/blog?page=x"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad page status = %d", rec.Code)
	}
}

func TestContentEntry(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/content/blog/first")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1>First</h1>", "<strong>world</strong>", "<time>2025-01-02</time>"} {
		if !strings.Contains(body, want) {
			t.Errorf("entry missing %q", want)
		}
	}

	if rec := c.do(http.MethodGet, "/content/blog/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing entry status = %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/content/blog/broken"); rec.Code != http.StatusNotFound {
		t.Errorf("invalid entry status = %d, want 404", rec.Code)
	}
}

func TestTools(t *testing.T) {
	c := newClient(t)

	var infos []tools.Info
	if err := json.Unmarshal(c.do(http.MethodGet, "/tools").Body.Bytes(), &infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 || infos[0].ComponentID != "AnkiMock" {
		t.Errorf("tools = %+v", infos)
	}

	rec := c.do(http.MethodPost, "/tools/flashcards?word="+url.QueryEscape("学生"))
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "がくせい") {
		t.Errorf("generate = %d %s", rec.Code, rec.Body)
	}
	if rec := c.do(http.MethodPost, "/tools/flashcards"); rec.Code != http.StatusBadRequest {
		t.Errorf("empty word status = %d", rec.Code)
	}
	rec = c.do(http.MethodGet, "/tools/flashcards.csv")
	if lines := strings.Count(rec.Body.String(), "\n"); lines != 2 {
		t.Errorf("csv lines = %d, want header and one card", lines)
	}

	if rec := c.do(http.MethodPost, "/tools/reading/lines/1"); rec.Code != http.StatusNotFound {
		t.Errorf("record before script status = %d", rec.Code)
	}
	c.do(http.MethodPost, "/tools/reading/script")
	if rec := c.do(http.MethodPost, "/tools/reading/lines/1"); rec.Code != http.StatusCreated {
		t.Errorf("record status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(c.do(http.MethodGet, "/tools/reading").Body.String(), `"rating": "A"`) {
		t.Error("feedback missing from reading state")
	}
}
