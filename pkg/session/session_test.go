package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/gallery"
)

func images(n int) gallery.Images {
	out := make(gallery.Images, n)
	for i := range out {
		out[i] = gallery.ImageRecord{URL: "img.jpg"}
	}
	return out
}

func TestNew(t *testing.T) {
	s := New(time.Hour)
	if !ValidID(s.ID) {
		t.Errorf("ID %q is not valid", s.ID)
	}
	if s.Focus != gallery.Inactive || s.Lang != "ja" {
		t.Errorf("session = %+v, want inactive ja", s)
	}
	if s.IsExpired() {
		t.Error("new session is expired")
	}
	if New(time.Hour).ID == s.ID {
		t.Error("IDs repeat")
	}
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"", "../../etc/passwd", "abc", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}

func TestNavigatorRestoresFocus(t *testing.T) {
	s := New(time.Hour)
	s.Focus = 2

	var events []gallery.Transition
	nav := s.Navigator(images(3), func(tr gallery.Transition) { events = append(events, tr) })
	if nav.Focused() != 2 {
		t.Fatalf("Focused() = %d, want 2", nav.Focused())
	}
	if len(events) != 0 {
		t.Errorf("restore fired %d transitions", len(events))
	}

	nav.Next()
	s.Save(nav)
	if s.Focus != 0 {
		t.Errorf("Focus = %d after wrap, want 0", s.Focus)
	}
	if len(events) != 1 || events[0].Event != gallery.EventNext {
		t.Errorf("events = %+v, want one next", events)
	}
}

func TestNavigatorStaleFocus(t *testing.T) {
	s := New(time.Hour)
	s.Focus = 5
	if nav := s.Navigator(images(3), nil); nav.Active() {
		t.Error("out-of-range focus restored as active")
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if got, err := store.Get(ctx, GenerateID()); got != nil || err != nil {
		t.Fatalf("Get(missing) = %v, %v", got, err)
	}

	s := New(time.Hour)
	s.Focus = 1
	s.Lang = "en"
	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Focus != 1 || got.Lang != "en" {
		t.Errorf("Get() = %+v", got)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := store.Get(ctx, s.ID); got != nil {
		t.Error("session survived Delete")
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	if got, err := store.Get(ctx, "../escape"); got != nil || err != nil {
		t.Errorf("Get(invalid id) = %v, %v", got, err)
	}
	if err := store.Set(ctx, &Session{ID: "../escape", ExpiresAt: time.Now().Add(time.Hour)}); err == nil {
		t.Error("Set(invalid id) succeeded")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	live, dead := New(time.Hour), New(-time.Minute)
	_ = store.Set(ctx, live)
	_ = store.Set(ctx, dead)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	exerciseStore(t, store)
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	dead := New(-time.Minute)
	if err := store.Set(ctx, dead); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, dead.ID); got != nil {
		t.Error("expired session returned")
	}
	if _, err := os.Stat(filepath.Join(dir, dead.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired session file not removed on read")
	}

	_ = store.Set(ctx, New(-time.Minute))
	_ = os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600)
	live := New(time.Hour)
	_ = store.Set(ctx, live)
	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != live.ID+".json" {
		t.Errorf("files after cleanup = %v", entries)
	}
}

func TestCacheStore(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, NewCacheStore(fc, cache.NewScopedKeyer(nil, "test:")))
}

func TestCacheStoreNullBackend(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(cache.NewNullCache(), nil)
	s := New(time.Hour)
	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got, _ := store.Get(ctx, s.ID); got != nil {
		t.Error("null cache returned a session")
	}
}
